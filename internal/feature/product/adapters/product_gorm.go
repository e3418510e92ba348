// Package adapters provides the gorm-backed repository for the product feature.
package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"gorm.io/gorm"

	"shop_backend/internal/feature/product/domain/entity"
	"shop_backend/internal/feature/product/usecase"
)

// likeEscaper escapes the LIKE metacharacters so a query matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// productGorm implements usecase.ProductRepository with gorm.
type productGorm struct {
	db *gorm.DB
}

var _ usecase.ProductRepository = (*productGorm)(nil)

// NewProductGorm creates a productGorm on top of db.
// db must be opened with TranslateError so duplicate keys surface as gorm.ErrDuplicatedKey.
func NewProductGorm(db *gorm.DB) *productGorm {
	return &productGorm{db: db}
}

func (r *productGorm) List(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productGorm) FindByID(ctx context.Context, id uint) (*entity.Product, error) {
	return findProduct(r.db.WithContext(ctx), id)
}

// Create inserts p. A duplicate sku yields usecase.ErrSKUAlreadyExists.
func (r *productGorm) Create(ctx context.Context, p *entity.Product) error {
	if p == nil {
		return errors.New("product is nil")
	}
	return translateWrite(r.db.WithContext(ctx).Create(p).Error)
}

// Update overwrites every editable column of p.ID inside a transaction.
// CreatedAt is carried over from the stored row and written back into p.
func (r *productGorm) Update(ctx context.Context, p *entity.Product) error {
	if p == nil {
		return errors.New("product is nil")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findProduct(tx, p.ID)
		if err != nil {
			return err
		}
		p.CreatedAt = current.CreatedAt
		return translateWrite(tx.Save(p).Error)
	})
}

// Delete removes the row and returns it as stored before deletion.
func (r *productGorm) Delete(ctx context.Context, id uint) (*entity.Product, error) {
	var deleted *entity.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := findProduct(tx, id)
		if err != nil {
			return err
		}
		res := tx.Delete(&entity.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return usecase.ErrProductNotFound
		}
		deleted = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// SearchNames returns up to limit names in id order.
func (r *productGorm) SearchNames(ctx context.Context, query string, limit int) ([]string, error) {
	var names []string
	err := r.nameContains(ctx, query).
		Model(&entity.Product{}).
		Order("id ASC").
		Limit(limit).
		Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (r *productGorm) Search(ctx context.Context, query string) ([]entity.Product, error) {
	var products []entity.Product
	if err := r.nameContains(ctx, query).Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ReferencedImages returns the names that remaining rows still point at.
// The images column holds JSON text, so candidates are narrowed with LIKE on
// the quoted name and confirmed after decoding.
func (r *productGorm) ReferencedImages(ctx context.Context, names []string) ([]string, error) {
	if len(names) == 0 {
		return []string{}, nil
	}

	q := r.db.WithContext(ctx).Model(&entity.Product{}).Where("thumbnail IN ?", names)
	for _, name := range names {
		quoted, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		q = q.Or(`images LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(string(quoted))+"%")
	}

	var rows []entity.Product
	if err := q.Select("id", "images", "thumbnail").Find(&rows).Error; err != nil {
		return nil, err
	}

	inUse := make(map[string]struct{})
	for i := range rows {
		for _, n := range rows[i].ImageNames() {
			inUse[n] = struct{}{}
		}
	}
	referenced := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := inUse[name]; ok {
			referenced = append(referenced, name)
		}
	}
	return referenced, nil
}

// nameContains matches names containing query, ignoring case.
func (r *productGorm) nameContains(ctx context.Context, query string) *gorm.DB {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	return r.db.WithContext(ctx).Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
}

func findProduct(db *gorm.DB, id uint) (*entity.Product, error) {
	var p entity.Product
	if err := db.Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func translateWrite(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return usecase.ErrSKUAlreadyExists
	}
	return err
}
