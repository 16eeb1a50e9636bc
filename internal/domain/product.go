package domain

// Product represents a jewelry item in the Season Collection catalog.
// Field names mirror the upstream API payload.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Image       string   `json:"image"`
	Images      []string `json:"images,omitempty"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Collection  string   `json:"collection,omitempty"`
	Stock       int      `json:"stock"`
	Status      string   `json:"status"`
	Published   bool     `json:"published"`
}

// ProductPatch is a partial update of a product. Nil fields are omitted
// from the upstream request body so only the changed fields travel.
type ProductPatch struct {
	Title       *string  `json:"title,omitempty"`
	Image       *string  `json:"image,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Published   *bool    `json:"published,omitempty"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (p ProductPatch) IsEmpty() bool {
	return p.Title == nil && p.Image == nil && p.Price == nil &&
		p.Description == nil && p.Category == nil && p.Stock == nil &&
		p.Status == nil && p.Published == nil
}

// ApplyTo overlays the non-nil patch fields onto a copy of the product.
func (p ProductPatch) ApplyTo(product Product) Product {
	if p.Title != nil {
		product.Title = *p.Title
	}
	if p.Image != nil {
		product.Image = *p.Image
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.Stock != nil {
		product.Stock = *p.Stock
	}
	if p.Status != nil {
		product.Status = *p.Status
	}
	if p.Published != nil {
		product.Published = *p.Published
	}
	return product
}
