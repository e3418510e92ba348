// Package handler provides the HTTP handlers of the product feature.
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/api"
	"shop_backend/internal/feature/product/domain/entity"
	"shop_backend/internal/feature/product/transport/http/dto"
	"shop_backend/internal/feature/product/usecase"
)

// ProductUsecase defines the catalog operations the handler needs.
type ProductUsecase interface {
	List(ctx context.Context) ([]entity.Product, error)
	Get(ctx context.Context, id uint) (*entity.Product, error)
	Create(ctx context.Context, in usecase.CreateInput) (*entity.Product, error)
	Update(ctx context.Context, id uint, in usecase.UpdateInput) (*entity.Product, error)
	Delete(ctx context.Context, id uint) (*entity.Product, error)
	Suggestions(ctx context.Context, query string) ([]string, error)
	Search(ctx context.Context, query string) ([]entity.Product, error)
	OpenImage(ctx context.Context, name string) (*usecase.Image, error)
}

// ProductHandler handles the /api/products endpoints.
type ProductHandler struct {
	products ProductUsecase
}

// NewProductHandler creates a ProductHandler.
func NewProductHandler(products ProductUsecase) *ProductHandler {
	return &ProductHandler{products: products}
}

// List handles GET /api/products.
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		writeError(c, "list products failed", err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntities(products))
}

// Get handles GET /api/products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, "get product failed", err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(p))
}

// Create handles POST /api/products (multipart/form-data, files under "images").
//   - 400 on missing fields, a bad image or more than ten files
//   - 409 when the sku is taken
//   - 201 with the stored product on success
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductReq
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("create product validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	in := usecase.CreateInput{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Quantity:    *req.Quantity,
		Images:      make([]usecase.ImageFile, 0, len(req.Images)),
	}
	for _, fh := range req.Images {
		in.Images = append(in.Images, usecase.ImageFile{Filename: fh.Filename, Open: opener(fh)})
	}

	p, err := h.products.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, "create product failed", err)
		return
	}

	slog.Info("product created", "product_id", p.ID, "images", len(p.Images), "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.ProductMessageRes{Message: "Product created successfully", Product: dto.FromEntity(p)})
}

// Update handles PUT /api/products/:id with a full JSON replacement.
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("update product validation failed", "error", err, "product_id", id, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	p, err := h.products.Update(c.Request.Context(), id, usecase.UpdateInput{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Quantity:    *req.Quantity,
		Images:      req.Images,
		Thumbnail:   req.Thumbnail,
	})
	if err != nil {
		writeError(c, "update product failed", err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(p))
}

// Delete handles DELETE /api/products/:id. A missing id is a 404.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.products.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, "delete product failed", err)
		return
	}

	slog.Info("product deleted", "product_id", id, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.ProductMessageRes{Message: "Product deleted successfully", Product: dto.FromEntity(p)})
}

// Suggestions handles GET /api/products/suggestions?q=.
func (h *ProductHandler) Suggestions(c *gin.Context) {
	names, err := h.products.Suggestions(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, "suggestions failed", err)
		return
	}
	c.JSON(http.StatusOK, names)
}

// Results handles GET /api/products/results?q=.
func (h *ProductHandler) Results(c *gin.Context) {
	products, err := h.products.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, "search failed", err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntities(products))
}

// Image handles GET /api/products/images/:file.
func (h *ProductHandler) Image(c *gin.Context) {
	img, err := h.products.OpenImage(c.Request.Context(), c.Param("file"))
	if err != nil {
		writeError(c, "open image failed", err)
		return
	}
	defer func() {
		if err := img.Body.Close(); err != nil {
			slog.Warn("failed to close image", "file", c.Param("file"), "error", err)
		}
	}()

	c.DataFromReader(http.StatusOK, img.Size, img.ContentType, img.Body, map[string]string{
		"Cache-Control":          "public, max-age=86400",
		"X-Content-Type-Options": "nosniff",
	})
}

func opener(fh *multipart.FileHeader) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return fh.Open()
	}
}

// parseID reads the :id path parameter and answers 400 when it is not a positive integer.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid product id"})
		return 0, false
	}
	return uint(id), true
}

// writeError maps usecase errors to status codes. Unknown errors are logged
// and reported as a generic 500.
func writeError(c *gin.Context, msg string, err error) {
	status := http.StatusInternalServerError
	body := "server error"

	switch {
	case errors.Is(err, usecase.ErrProductNotFound):
		status, body = http.StatusNotFound, usecase.ErrProductNotFound.Error()
	case errors.Is(err, usecase.ErrImageNotFound):
		status, body = http.StatusNotFound, usecase.ErrImageNotFound.Error()
	case errors.Is(err, usecase.ErrSKUAlreadyExists):
		status, body = http.StatusConflict, usecase.ErrSKUAlreadyExists.Error()
	case errors.Is(err, usecase.ErrEmptyQuery):
		status, body = http.StatusBadRequest, usecase.ErrEmptyQuery.Error()
	case errors.Is(err, usecase.ErrTooManyImages),
		errors.Is(err, usecase.ErrUnsupportedImage),
		errors.Is(err, usecase.ErrImageTooLarge):
		status, body = http.StatusBadRequest, err.Error()
	}

	if status == http.StatusInternalServerError {
		slog.Error(msg, "error", err, "remote_addr", c.ClientIP())
	} else {
		slog.Warn(msg, "error", err, "remote_addr", c.ClientIP())
	}
	c.JSON(status, api.ErrorResponse{Error: body})
}
