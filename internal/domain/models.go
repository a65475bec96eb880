package domain

import "strings"

type Product struct {
	ProductID      string   `json:"productId"`
	ProductName    string   `json:"productName"`
	ProductPrice   float64  `json:"productPrice"`
	Img            []string `json:"img"`
	Categories     []string `json:"categories"`
	InStock        int      `json:"inStock"`
	SoldStockValue int      `json:"soldStockValue"`
	Visibility     string   `json:"visibility"` // public | hidden, not enforced
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
}

// Clone returns a copy that shares no slices with p.
func (p Product) Clone() Product {
	out := p
	out.Img = append([]string(nil), p.Img...)
	out.Categories = append([]string(nil), p.Categories...)
	return out
}

// CategoryList is the comma-joined form used by the table and the edit row.
func (p Product) CategoryList() string {
	return strings.Join(p.Categories, ", ")
}

// ProductDraft is the staging copy of a product while its row is in edit mode.
// Editable fields are kept as the raw text the operator typed.
type ProductDraft struct {
	ProductID    string
	ProductName  string
	ProductPrice string
	Categories   string
	InStock      string
	Visibility   string
}

// Editable draft fields, keyed by the backend's JSON names.
const (
	FieldName       = "productName"
	FieldPrice      = "productPrice"
	FieldCategories = "categories"
	FieldInStock    = "inStock"
	FieldVisibility = "visibility"
)

var DraftFields = []string{FieldName, FieldCategories, FieldPrice, FieldInStock, FieldVisibility}
