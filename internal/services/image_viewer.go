package services

import (
	"strings"
	"sync"
	"time"
)

const (
	ImageAddedMessage = "Image added successfully!"
	MessageTTL        = 2 * time.Second
)

// ImageCallbacks report viewer mutations to the owner of the image list.
// The viewer never edits its list itself; the owner answers through SetImages.
type ImageCallbacks struct {
	OnClose  func()
	OnAdd    func(url string)
	OnDelete func(url string)
}

// ImageViewerState is a render snapshot of an open viewer.
type ImageViewerState struct {
	Images   []string
	Index    int
	Position int
	Total    int
	Current  string
	Empty    bool
	ShowNav  bool
	Input    string
	Message  string
}

// ImageViewer is the product image modal. It is either open or closed for
// good; a closed viewer ignores every call.
//
// Methods must be called with lock held. The message timer fires on its own
// goroutine and takes lock before clearing the message.
type ImageViewer struct {
	images  []string
	index   int
	input   string
	message string

	cb    ImageCallbacks
	sched Scheduler
	lock  sync.Locker
	timer Timer
	gen   int

	closed bool
}

func NewImageViewer(images []string, cb ImageCallbacks, sched Scheduler, lock sync.Locker) *ImageViewer {
	if sched == nil {
		sched = RealScheduler
	}
	if lock == nil {
		lock = &sync.Mutex{}
	}
	return &ImageViewer{
		images: append([]string(nil), images...),
		cb:     cb,
		sched:  sched,
		lock:   lock,
	}
}

func (v *ImageViewer) Images() []string { return append([]string(nil), v.images...) }
func (v *ImageViewer) Index() int { return v.index }
func (v *ImageViewer) Empty() bool { return len(v.images) == 0 }
func (v *ImageViewer) ShowNav() bool { return len(v.images) > 1 }
func (v *ImageViewer) Input() string { return v.input }
func (v *ImageViewer) Message() string { return v.message }
func (v *ImageViewer) Closed() bool { return v.closed }

// Current returns the image at the current index.
func (v *ImageViewer) Current() (string, bool) {
	if v.index < 0 || v.index >= len(v.images) {
		return "", false
	}
	return v.images[v.index], true
}

func (v *ImageViewer) Previous() {
	if v.closed || len(v.images) == 0 {
		return
	}
	if v.index > 0 {
		v.index--
	} else {
		v.index = len(v.images) - 1
	}
}

func (v *ImageViewer) Next() {
	if v.closed || len(v.images) == 0 {
		return
	}
	if v.index < len(v.images)-1 {
		v.index++
	} else {
		v.index = 0
	}
}

// Add submits raw as a new image URL. Blank input is ignored and kept in the
// field. The URL is passed on untrimmed.
func (v *ImageViewer) Add(raw string) bool {
	if v.closed {
		return false
	}
	if strings.TrimSpace(raw) == "" {
		v.input = raw
		return false
	}
	if v.cb.OnAdd != nil {
		v.cb.OnAdd(raw)
	}
	v.input = ""
	v.flash(ImageAddedMessage)
	return true
}

// DeleteCurrent asks the owner to delete the image being shown and returns it.
func (v *ImageViewer) DeleteCurrent() (string, bool) {
	if v.closed {
		return "", false
	}
	url, ok := v.Current()
	if !ok {
		return "", false
	}
	if v.cb.OnDelete != nil {
		v.cb.OnDelete(url)
	}
	return url, true
}

// SetImages replaces the list with the owner's latest snapshot and keeps the
// index inside it.
func (v *ImageViewer) SetImages(images []string) {
	v.images = append([]string(nil), images...)
	if v.index > len(v.images)-1 {
		v.index = len(v.images) - 1
	}
	if v.index < 0 {
		v.index = 0
	}
}

// Close stops the pending message timer and notifies the owner once.
func (v *ImageViewer) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.stopTimer()
	v.message = ""
	if v.cb.OnClose != nil {
		v.cb.OnClose()
	}
}

func (v *ImageViewer) State() ImageViewerState {
	st := ImageViewerState{
		Images:  v.Images(),
		Index:   v.index,
		Total:   len(v.images),
		Empty:   v.Empty(),
		ShowNav: v.ShowNav(),
		Input:   v.input,
		Message: v.message,
	}
	if cur, ok := v.Current(); ok {
		st.Current = cur
		st.Position = v.index + 1
	}
	return st
}

func (v *ImageViewer) flash(msg string) {
	v.stopTimer()
	v.message = msg
	gen := v.gen
	v.timer = v.sched.AfterFunc(MessageTTL, func() {
		v.lock.Lock()
		defer v.lock.Unlock()
		if v.gen != gen || v.closed {
			return
		}
		v.message = ""
		v.timer = nil
	})
}

func (v *ImageViewer) stopTimer() {
	v.gen++
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
}
