package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"sellerconsole/internal/domain"
)

var (
	ErrInvalidDraft    = errors.New("invalid product draft")
	ErrNotEditing      = errors.New("no product is being edited")
	ErrUnknownField    = errors.New("unknown product field")
	ErrProductNotFound = errors.New("product not found")
	ErrScreenClosed    = errors.New("screen is closed")
)

type ProductSource interface {
	Products(ctx context.Context) ([]domain.Product, error)
}

type ProductScreenDeps struct {
	Source    ProductSource
	Writer    ProductWriter
	Scheduler Scheduler
}

type ProductRow struct {
	domain.Product
	Editing bool
}

type ProductScreenState struct {
	Query    string
	Rows     []ProductRow
	Total    int
	Draft    *domain.ProductDraft
	DraftErr string
	Selected string
	Viewer   *ImageViewerState
}

// ProductScreen is one mounted product-management view. It owns the product
// list; every change replaces the list rather than editing it in place.
type ProductScreen struct {
	mu sync.Mutex

	source ProductSource
	writer ProductWriter
	sched  Scheduler

	products []domain.Product
	query    string

	editing  string
	draft    *domain.ProductDraft
	draftErr string

	selected string
	viewer   *ImageViewer

	closed bool
}

// MountProductScreen reads the product list once. A failed read still yields a
// usable screen with an empty list; the error is returned for logging.
func MountProductScreen(ctx context.Context, deps ProductScreenDeps) (*ProductScreen, error) {
	s := &ProductScreen{source: deps.Source, writer: deps.Writer, sched: deps.Scheduler}
	if s.writer == nil {
		s.writer = discardWriter{}
	}
	if s.sched == nil {
		s.sched = RealScheduler
	}
	products, err := s.source.Products(ctx)
	if err != nil {
		return s, fmt.Errorf("fetch products: %w", err)
	}
	s.products = cloneProducts(products)
	return s, nil
}

func (s *ProductScreen) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
}

// Rows returns the products whose id or name contains the query, ignoring case.
func (s *ProductScreen) Rows() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Product
	for _, p := range s.filtered() {
		out = append(out, p.Clone())
	}
	return out
}

func (s *ProductScreen) filtered() []domain.Product {
	q := strings.ToLower(s.query)
	if q == "" {
		return s.products
	}
	var out []domain.Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.ProductID), q) || strings.Contains(strings.ToLower(p.ProductName), q) {
			out = append(out, p)
		}
	}
	return out
}

// BeginEdit stages a copy of the product. Any other row's unsaved draft is dropped.
func (s *ProductScreen) BeginEdit(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrScreenClosed
	}
	i := s.indexOf(productID)
	if i < 0 {
		return ErrProductNotFound
	}
	p := s.products[i]
	s.editing = productID
	s.draftErr = ""
	s.draft = &domain.ProductDraft{
		ProductID:    p.ProductID,
		ProductName:  p.ProductName,
		ProductPrice: strconv.FormatFloat(p.ProductPrice, 'f', -1, 64),
		Categories:   p.CategoryList(),
		InStock:      strconv.Itoa(p.InStock),
		Visibility:   p.Visibility,
	}
	return nil
}

// SetDraftField changes one field of the staging copy only.
func (s *ProductScreen) SetDraftField(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return ErrNotEditing
	}
	switch field {
	case domain.FieldName:
		s.draft.ProductName = value
	case domain.FieldPrice:
		s.draft.ProductPrice = value
	case domain.FieldCategories:
		s.draft.Categories = value
	case domain.FieldInStock:
		s.draft.InStock = value
	case domain.FieldVisibility:
		s.draft.Visibility = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

func (s *ProductScreen) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing, s.draft, s.draftErr = "", nil, ""
}

func (s *ProductScreen) Editing() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing
}

// Save commits the draft to the local list, leaves edit mode and hands the
// saved product to the writer. A draft that does not parse stays open.
func (s *ProductScreen) Save(ctx context.Context) (domain.Product, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.Product{}, ErrScreenClosed
	}
	if s.draft == nil {
		s.mu.Unlock()
		return domain.Product{}, ErrNotEditing
	}
	i := s.indexOf(s.draft.ProductID)
	if i < 0 {
		s.editing, s.draft, s.draftErr = "", nil, ""
		s.mu.Unlock()
		return domain.Product{}, ErrProductNotFound
	}
	saved, err := applyDraft(s.products[i], *s.draft)
	if err != nil {
		s.draftErr = err.Error()
		s.mu.Unlock()
		return domain.Product{}, err
	}
	s.products = replaceProduct(s.products, i, saved)
	s.editing, s.draft, s.draftErr = "", nil, ""
	w := s.writer
	s.mu.Unlock()

	return saved.Clone(), w.SaveProduct(ctx, saved.Clone())
}

func applyDraft(base domain.Product, d domain.ProductDraft) (domain.Product, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(d.ProductPrice), 64)
	if err != nil || price < 0 || math.IsInf(price, 0) || math.IsNaN(price) {
		return domain.Product{}, fmt.Errorf("%w: price %q", ErrInvalidDraft, d.ProductPrice)
	}
	stock, err := strconv.Atoi(strings.TrimSpace(d.InStock))
	if err != nil || stock < 0 {
		return domain.Product{}, fmt.Errorf("%w: in stock %q", ErrInvalidDraft, d.InStock)
	}
	out := base.Clone()
	out.ProductName = strings.TrimSpace(d.ProductName)
	out.ProductPrice = price
	out.InStock = stock
	out.Categories = splitCategories(d.Categories)
	out.Visibility = strings.TrimSpace(d.Visibility)
	return out, nil
}

func splitCategories(s string) []string {
	out := []string{}
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// OpenImages opens the image viewer on a product. An already open viewer is
// closed first.
func (s *ProductScreen) OpenImages(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrScreenClosed
	}
	i := s.indexOf(productID)
	if i < 0 {
		return ErrProductNotFound
	}
	if s.viewer != nil {
		s.viewer.Close()
	}
	s.selected = productID
	s.viewer = NewImageViewer(s.products[i].Img, ImageCallbacks{
		OnClose:  s.onViewerClose,
		OnAdd:    s.onAddImage,
		OnDelete: s.onDeleteImage,
	}, s.sched, &s.mu)
	return nil
}

func (s *ProductScreen) PrevImage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.viewer != nil {
		s.viewer.Previous()
	}
}

func (s *ProductScreen) NextImage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.viewer != nil {
		s.viewer.Next()
	}
}

func (s *ProductScreen) CloseImages() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.viewer != nil {
		s.viewer.Close()
	}
}

// AddImage submits a URL through the open viewer. It reports whether the
// image was added; blank input or a closed viewer add nothing.
func (s *ProductScreen) AddImage(ctx context.Context, url string) (bool, error) {
	s.mu.Lock()
	if s.viewer == nil {
		s.mu.Unlock()
		return false, nil
	}
	id := s.selected
	ok := s.viewer.Add(url)
	w := s.writer
	s.mu.Unlock()

	if !ok || id == "" {
		return false, nil
	}
	return true, w.AddImage(ctx, id, url)
}

// DeleteCurrentImage deletes the image the viewer is showing.
func (s *ProductScreen) DeleteCurrentImage(ctx context.Context) (string, bool, error) {
	s.mu.Lock()
	if s.viewer == nil {
		s.mu.Unlock()
		return "", false, nil
	}
	id := s.selected
	url, ok := s.viewer.DeleteCurrent()
	w := s.writer
	s.mu.Unlock()

	if !ok || id == "" {
		return "", false, nil
	}
	return url, true, w.DeleteImage(ctx, id, url)
}

// Viewer callbacks run under s.mu, from inside the viewer's own methods.

func (s *ProductScreen) onViewerClose() {
	s.viewer = nil
	s.selected = ""
}

func (s *ProductScreen) onAddImage(url string) {
	i := s.indexOf(s.selected)
	if i < 0 {
		return
	}
	p := s.products[i].Clone()
	p.Img = append(p.Img, url)
	s.products = replaceProduct(s.products, i, p)
	s.viewer.SetImages(append(s.viewer.Images(), url))
}

func (s *ProductScreen) onDeleteImage(url string) {
	i := s.indexOf(s.selected)
	if i < 0 {
		return
	}
	p := s.products[i].Clone()
	p.Img = removeFirst(p.Img, url)
	s.products = replaceProduct(s.products, i, p)
	s.viewer.SetImages(removeFirst(s.viewer.Images(), url))
}

// Reload re-reads the product list, discarding local edits, the open draft and
// the viewer. On failure the current list is kept.
func (s *ProductScreen) Reload(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrScreenClosed
	}
	s.mu.Unlock()

	products, err := s.source.Products(ctx)
	if err != nil {
		return fmt.Errorf("fetch products: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// torn down while the request was in flight
	if s.closed {
		return ErrScreenClosed
	}
	s.products = cloneProducts(products)
	s.editing, s.draft, s.draftErr = "", nil, ""
	if s.viewer != nil {
		s.viewer.Close()
	}
	return nil
}

// Close tears the screen down and releases the viewer's timer.
func (s *ProductScreen) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if s.viewer != nil {
		s.viewer.Close()
	}
	s.closed = true
	return nil
}

func (s *ProductScreen) State() ProductScreenState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := ProductScreenState{
		Query:    s.query,
		Total:    len(s.products),
		DraftErr: s.draftErr,
		Selected: s.selected,
	}
	for _, p := range s.filtered() {
		st.Rows = append(st.Rows, ProductRow{Product: p.Clone(), Editing: p.ProductID == s.editing})
	}
	if s.draft != nil {
		d := *s.draft
		st.Draft = &d
	}
	if s.viewer != nil {
		vs := s.viewer.State()
		st.Viewer = &vs
	}
	return st
}

func (s *ProductScreen) indexOf(productID string) int {
	if productID == "" {
		return -1
	}
	for i, p := range s.products {
		if p.ProductID == productID {
			return i
		}
	}
	return -1
}

func cloneProducts(in []domain.Product) []domain.Product {
	out := make([]domain.Product, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

func replaceProduct(in []domain.Product, i int, p domain.Product) []domain.Product {
	out := make([]domain.Product, len(in))
	copy(out, in)
	out[i] = p
	return out
}

func removeFirst(in []string, v string) []string {
	out := make([]string, 0, len(in))
	removed := false
	for _, s := range in {
		if !removed && s == v {
			removed = true
			continue
		}
		out = append(out, s)
	}
	return out
}
