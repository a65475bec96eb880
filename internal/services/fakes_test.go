package services_test

import (
	"context"
	"sync"
	"time"

	"sellerconsole/internal/domain"
	"sellerconsole/internal/services"
)

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// fire runs the callback the way time.AfterFunc would, unless stopped.
func (t *fakeTimer) fire() {
	if t.stopped || t.fired {
		return
	}
	t.fired = true
	t.f()
}

type fakeScheduler struct {
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) services.Timer {
	t := &fakeTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) last() *fakeTimer {
	if len(s.timers) == 0 {
		return nil
	}
	return s.timers[len(s.timers)-1]
}

type fakeProducts struct {
	mu       sync.Mutex
	products []domain.Product
	err      error
	calls    int
}

func (f *fakeProducts) Products(context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Product, len(f.products))
	for i, p := range f.products {
		out[i] = p.Clone()
	}
	return out, nil
}

type writeCall struct {
	op, productID, url string
	product            domain.Product
}

type recordingWriter struct {
	calls []writeCall
	err   error
}

func (w *recordingWriter) SaveProduct(_ context.Context, p domain.Product) error {
	w.calls = append(w.calls, writeCall{op: "save", productID: p.ProductID, product: p})
	return w.err
}

func (w *recordingWriter) AddImage(_ context.Context, id, url string) error {
	w.calls = append(w.calls, writeCall{op: "add", productID: id, url: url})
	return w.err
}

func (w *recordingWriter) DeleteImage(_ context.Context, id, url string) error {
	w.calls = append(w.calls, writeCall{op: "delete", productID: id, url: url})
	return w.err
}

type fakeOrders struct {
	orders []domain.Order
	err    error
	calls  int
}

func (f *fakeOrders) Orders(context.Context) ([]domain.Order, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.Order(nil), f.orders...), nil
}

type fakeVerifier struct {
	ok    bool
	err   error
	calls int
}

func (f *fakeVerifier) VerifySeller(context.Context, string) (bool, error) {
	f.calls++
	return f.ok, f.err
}
