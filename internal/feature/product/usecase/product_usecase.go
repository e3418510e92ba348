// Package usecase implements the business logic for the product catalog.
package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"shop_backend/internal/feature/product/domain/entity"
)

const (
	// MaxImages is the maximum number of files accepted by Create.
	MaxImages = 10
	// SuggestionLimit caps the number of names returned by Suggestions.
	SuggestionLimit = 10
)

// allowedExtensions lists the filename extensions accepted before content sniffing.
var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// ProductRepository abstracts the persistence layer for products.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type ProductRepository interface {
	// List returns every product ordered by id.
	List(ctx context.Context) ([]entity.Product, error)
	// FindByID returns ErrProductNotFound when absent.
	FindByID(ctx context.Context, id uint) (*entity.Product, error)
	// Create inserts p and fills its id. A duplicate sku yields ErrSKUAlreadyExists.
	Create(ctx context.Context, p *entity.Product) error
	// Update replaces every editable field of the product with p.ID.
	Update(ctx context.Context, p *entity.Product) error
	// Delete removes the product and returns it as it was before deletion.
	Delete(ctx context.Context, id uint) (*entity.Product, error)
	// SearchNames returns up to limit names containing query, case-insensitively.
	SearchNames(ctx context.Context, query string, limit int) ([]string, error)
	// Search returns all products whose name contains query, case-insensitively.
	Search(ctx context.Context, query string) ([]entity.Product, error)
	// ReferencedImages returns the subset of names that some stored product
	// still lists in its images or thumbnail.
	ReferencedImages(ctx context.Context, names []string) ([]string, error)
}

// ImageStore keeps uploaded files. Files are staged first and only become
// visible after Commit.
type ImageStore interface {
	// Stage validates and stores src under a fresh name. It returns
	// ErrUnsupportedImage or ErrImageTooLarge for rejected content.
	Stage(ctx context.Context, src io.Reader) (string, error)
	// Commit publishes staged files.
	Commit(ctx context.Context, names []string) error
	// Discard deletes staged files that were never committed.
	Discard(ctx context.Context, names []string)
	// Remove deletes committed files.
	Remove(ctx context.Context, names []string) error
	// Open returns a committed file or ErrImageNotFound.
	Open(ctx context.Context, name string) (*Image, error)
}

// Image is a committed file opened for reading. The caller closes Body.
type Image struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// ImageFile is one uploaded file as received from the client.
type ImageFile struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

// CreateInput carries the fields of a new product.
type CreateInput struct {
	SKU         string
	Name        string
	Description string
	Quantity    int
	Images      []ImageFile
}

// UpdateInput carries the full replacement of a product's fields.
type UpdateInput struct {
	SKU         string
	Name        string
	Description string
	Quantity    int
	Images      []string
	Thumbnail   *string
}

// ProductUsecase implements catalog CRUD, image upload and search.
type ProductUsecase struct {
	repo   ProductRepository
	images ImageStore
}

// NewProductUsecase creates a ProductUsecase.
func NewProductUsecase(repo ProductRepository, images ImageStore) *ProductUsecase {
	return &ProductUsecase{repo: repo, images: images}
}

// List returns all products.
func (u *ProductUsecase) List(ctx context.Context) ([]entity.Product, error) {
	return u.repo.List(ctx)
}

// Get returns one product or ErrProductNotFound.
func (u *ProductUsecase) Get(ctx context.Context, id uint) (*entity.Product, error) {
	return u.repo.FindByID(ctx, id)
}

// Create stages the uploaded images, inserts the product, then commits the
// images. Staged files are discarded on any failure, and the inserted row is
// deleted again when the commit fails, so no orphaned files or documents remain.
func (u *ProductUsecase) Create(ctx context.Context, in CreateInput) (*entity.Product, error) {
	if len(in.Images) > MaxImages {
		return nil, fmt.Errorf("%w: got %d, maximum is %d", ErrTooManyImages, len(in.Images), MaxImages)
	}
	for _, f := range in.Images {
		if !hasAllowedExtension(f.Filename) {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedImage, f.Filename)
		}
	}

	names := make([]string, 0, len(in.Images))
	for _, f := range in.Images {
		name, err := u.stage(ctx, f)
		if err != nil {
			u.images.Discard(ctx, names)
			return nil, err
		}
		names = append(names, name)
	}

	p := &entity.Product{
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Quantity:    in.Quantity,
		Images:      names,
	}
	if len(names) > 0 {
		thumb := names[0]
		p.Thumbnail = &thumb
	}

	if err := u.repo.Create(ctx, p); err != nil {
		u.images.Discard(ctx, names)
		return nil, err
	}

	if err := u.images.Commit(ctx, names); err != nil {
		u.images.Discard(ctx, names)
		if _, delErr := u.repo.Delete(ctx, p.ID); delErr != nil {
			slog.Error("failed to roll back product after image commit failure",
				"product_id", p.ID, "error", delErr)
		}
		return nil, fmt.Errorf("failed to commit images: %w", err)
	}

	return p, nil
}

// Update replaces every field of the product. The thumbnail is stored as
// given, without checking it against images.
func (u *ProductUsecase) Update(ctx context.Context, id uint, in UpdateInput) (*entity.Product, error) {
	images := in.Images
	if images == nil {
		images = []string{}
	}
	p := &entity.Product{
		ID:          id,
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Quantity:    in.Quantity,
		Images:      images,
		Thumbnail:   in.Thumbnail,
	}
	if err := u.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the product and then the image files no other product
// references. File removal is best effort: the product is already gone, so a
// failure is only logged.
func (u *ProductUsecase) Delete(ctx context.Context, id uint) (*entity.Product, error) {
	p, err := u.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	names := p.ImageNames()
	if len(names) == 0 {
		return p, nil
	}

	shared, err := u.repo.ReferencedImages(ctx, names)
	if err != nil {
		slog.Warn("failed to check image references, keeping files", "product_id", id, "images", names, "error", err)
		return p, nil
	}
	orphaned := without(names, shared)
	if len(orphaned) == 0 {
		return p, nil
	}
	if err := u.images.Remove(ctx, orphaned); err != nil {
		slog.Warn("failed to remove product images", "product_id", id, "images", orphaned, "error", err)
	}
	return p, nil
}

// Suggestions returns up to SuggestionLimit product names containing query.
func (u *ProductUsecase) Suggestions(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	names, err := u.repo.SearchNames(ctx, query, SuggestionLimit)
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// Search returns every product whose name contains query.
func (u *ProductUsecase) Search(ctx context.Context, query string) ([]entity.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	products, err := u.repo.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []entity.Product{}
	}
	return products, nil
}

// OpenImage returns a committed product image.
func (u *ProductUsecase) OpenImage(ctx context.Context, name string) (*Image, error) {
	return u.images.Open(ctx, name)
}

func (u *ProductUsecase) stage(ctx context.Context, f ImageFile) (string, error) {
	src, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload %q: %w", f.Filename, err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			slog.Warn("failed to close upload", "filename", f.Filename, "error", err)
		}
	}()

	name, err := u.images.Stage(ctx, src)
	if err != nil {
		return "", fmt.Errorf("failed to stage %q: %w", f.Filename, err)
	}
	return name, nil
}

// without returns names minus every entry of drop, keeping order.
func without(names, drop []string) []string {
	skip := make(map[string]struct{}, len(drop))
	for _, n := range drop {
		skip[n] = struct{}{}
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := skip[n]; !ok {
			out = append(out, n)
		}
	}
	return out
}

func hasAllowedExtension(filename string) bool {
	_, ok := allowedExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

