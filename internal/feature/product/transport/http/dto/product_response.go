package dto

import (
	"time"

	"shop_backend/internal/feature/product/domain/entity"
)

// ProductRes is the JSON view of a product.
type ProductRes struct {
	ID          uint      `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	Images      []string  `json:"images"`
	Thumbnail   *string   `json:"thumbnail"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductMessageRes wraps a product with an acknowledgement.
type ProductMessageRes struct {
	Message string     `json:"message"`
	Product ProductRes `json:"product"`
}

// FromEntity converts a product entity into its response form.
func FromEntity(p *entity.Product) ProductRes {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return ProductRes{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Quantity:    p.Quantity,
		Images:      images,
		Thumbnail:   p.Thumbnail,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// FromEntities converts a list, never returning nil.
func FromEntities(products []entity.Product) []ProductRes {
	out := make([]ProductRes, 0, len(products))
	for i := range products {
		out = append(out, FromEntity(&products[i]))
	}
	return out
}
