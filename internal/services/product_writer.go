package services

import (
	"context"
	"encoding/json"

	"sellerconsole/internal/domain"
	"sellerconsole/internal/repos"
)

// ProductWriter is the write-back path for product edits. The backend has no
// write endpoints yet, so the default implementation keeps a local journal.
type ProductWriter interface {
	SaveProduct(ctx context.Context, p domain.Product) error
	AddImage(ctx context.Context, productID, url string) error
	DeleteImage(ctx context.Context, productID, url string) error
}

// JournalWriter records writes in the product_writes table and never calls
// the backend. Entries stay unsynced.
type JournalWriter struct {
	Journal *repos.JournalRepo
}

func NewJournalWriter(j *repos.JournalRepo) *JournalWriter { return &JournalWriter{Journal: j} }

type savePayload struct {
	ProductName  string   `json:"productName"`
	ProductPrice float64  `json:"productPrice"`
	Categories   []string `json:"categories"`
	InStock      int      `json:"inStock"`
	Visibility   string   `json:"visibility"`
}

type imagePayload struct {
	URL string `json:"url"`
}

func (w *JournalWriter) SaveProduct(_ context.Context, p domain.Product) error {
	return w.record(p.ProductID, repos.OpSave, savePayload{
		ProductName:  p.ProductName,
		ProductPrice: p.ProductPrice,
		Categories:   p.Categories,
		InStock:      p.InStock,
		Visibility:   p.Visibility,
	})
}

func (w *JournalWriter) AddImage(_ context.Context, productID, url string) error {
	return w.record(productID, repos.OpAddImage, imagePayload{URL: url})
}

func (w *JournalWriter) DeleteImage(_ context.Context, productID, url string) error {
	return w.record(productID, repos.OpDeleteImage, imagePayload{URL: url})
}

func (w *JournalWriter) record(productID, op string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = w.Journal.Record(productID, op, string(b))
	return err
}

type discardWriter struct{}

func (discardWriter) SaveProduct(context.Context, domain.Product) error { return nil }
func (discardWriter) AddImage(context.Context, string, string) error { return nil }
func (discardWriter) DeleteImage(context.Context, string, string) error { return nil }
