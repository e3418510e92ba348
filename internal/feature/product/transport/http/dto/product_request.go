// Package dto defines data transfer objects for the product feature's HTTP transport layer.
package dto

import "mime/multipart"

// CreateProductReq is the multipart form of POST /api/products.
type CreateProductReq struct {
	SKU         string                  `form:"sku" binding:"required,max=100"`
	Name        string                  `form:"name" binding:"required,max=255"`
	Description string                  `form:"description" binding:"required"`
	Quantity    *int                    `form:"quantity" binding:"required"`
	Images      []*multipart.FileHeader `form:"images"`
}

// UpdateProductReq is the JSON body of PUT /api/products/:id. Every field is
// replaced; omitted images clear the list and an omitted thumbnail becomes null.
type UpdateProductReq struct {
	SKU         string   `json:"sku" binding:"required,max=100"`
	Name        string   `json:"name" binding:"required,max=255"`
	Description string   `json:"description" binding:"required"`
	Quantity    *int     `json:"quantity" binding:"required"`
	Images      []string `json:"images"`
	Thumbnail   *string  `json:"thumbnail"`
}
