package adapters

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"shop_backend/internal/feature/product/domain/entity"
	"shop_backend/internal/feature/product/usecase"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&entity.Product{}), "failed to migrate table")
	return db
}

func seed(t *testing.T, repo *productGorm, names ...string) []entity.Product {
	t.Helper()

	out := make([]entity.Product, 0, len(names))
	for i, name := range names {
		thumb := fmt.Sprintf("img-%d.png", i)
		p := &entity.Product{
			SKU:         fmt.Sprintf("SKU-%d", i),
			Name:        name,
			Description: "desc",
			Quantity:    i,
			Images:      []string{thumb},
			Thumbnail:   &thumb,
		}
		require.NoError(t, repo.Create(context.Background(), p))
		out = append(out, *p)
	}
	return out
}

func TestProductGorm_CreateAndFind(t *testing.T) {
	repo := NewProductGorm(setupTestDB(t))
	ctx := context.Background()

	t.Run("round trip keeps images and thumbnail", func(t *testing.T) {
		created := seed(t, repo, "Blue Mug")[0]

		found, err := repo.FindByID(ctx, created.ID)

		require.NoError(t, err)
		assert.Equal(t, "Blue Mug", found.Name)
		assert.Equal(t, []string{"img-0.png"}, found.Images)
		require.NotNil(t, found.Thumbnail)
		assert.Equal(t, "img-0.png", *found.Thumbnail)
		assert.False(t, found.CreatedAt.IsZero())
	})

	t.Run("duplicate sku", func(t *testing.T) {
		err := repo.Create(ctx, &entity.Product{SKU: "SKU-0", Name: "Copy", Images: []string{}})

		assert.ErrorIs(t, err, usecase.ErrSKUAlreadyExists)
	})

	t.Run("nil product", func(t *testing.T) {
		assert.Error(t, repo.Create(ctx, nil))
	})

	t.Run("not found", func(t *testing.T) {
		found, err := repo.FindByID(ctx, 999)

		assert.Nil(t, found)
		assert.ErrorIs(t, err, usecase.ErrProductNotFound)
	})
}

func TestProductGorm_List(t *testing.T) {
	repo := NewProductGorm(setupTestDB(t))
	ctx := context.Background()

	empty, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	seeded := seed(t, repo, "A", "B", "C")
	list, err := repo.List(ctx)

	require.NoError(t, err)
	require.Len(t, list, 3)
	for i := range list {
		assert.Equal(t, seeded[i].ID, list[i].ID)
	}
}

func TestProductGorm_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces fields and keeps created_at", func(t *testing.T) {
		repo := NewProductGorm(setupTestDB(t))
		orig := seed(t, repo, "Old")[0]
		thumb := "elsewhere.png"

		err := repo.Update(ctx, &entity.Product{
			ID:          orig.ID,
			SKU:         "SKU-NEW",
			Name:        "New",
			Description: "changed",
			Quantity:    -3,
			Images:      []string{},
			Thumbnail:   &thumb,
		})
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, orig.ID)
		require.NoError(t, err)
		assert.Equal(t, "SKU-NEW", found.SKU)
		assert.Equal(t, "New", found.Name)
		assert.Equal(t, -3, found.Quantity)
		assert.Equal(t, []string{}, found.Images)
		assert.Equal(t, "elsewhere.png", *found.Thumbnail)
		assert.True(t, orig.CreatedAt.Equal(found.CreatedAt))
	})

	t.Run("missing id", func(t *testing.T) {
		repo := NewProductGorm(setupTestDB(t))

		err := repo.Update(ctx, &entity.Product{ID: 77, SKU: "x", Name: "x"})

		assert.ErrorIs(t, err, usecase.ErrProductNotFound)
		list, listErr := repo.List(ctx)
		require.NoError(t, listErr)
		assert.Empty(t, list, "update must not insert")
	})

	t.Run("sku taken by another product", func(t *testing.T) {
		repo := NewProductGorm(setupTestDB(t))
		seeded := seed(t, repo, "A", "B")

		err := repo.Update(ctx, &entity.Product{ID: seeded[1].ID, SKU: seeded[0].SKU, Name: "B"})

		assert.ErrorIs(t, err, usecase.ErrSKUAlreadyExists)
	})
}

func TestProductGorm_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewProductGorm(setupTestDB(t))
	p := seed(t, repo, "Gone")[0]

	deleted, err := repo.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, deleted.ID)
	assert.Equal(t, []string{"img-0.png"}, deleted.Images)

	_, err = repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, usecase.ErrProductNotFound)

	_, err = repo.Delete(ctx, p.ID)
	assert.ErrorIs(t, err, usecase.ErrProductNotFound)
}

func TestProductGorm_Search(t *testing.T) {
	ctx := context.Background()
	repo := NewProductGorm(setupTestDB(t))
	seed(t, repo, "Blue Mug", "red MUG", "Plate", "100% Cotton", "snake_case")

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "case insensitive substring", query: "mug", want: []string{"Blue Mug", "red MUG"}},
		{name: "upper case query", query: "PLA", want: []string{"Plate"}},
		{name: "percent is literal", query: "%", want: []string{"100% Cotton"}},
		{name: "underscore is literal", query: "_", want: []string{"snake_case"}},
		{name: "no match", query: "zzz", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.Search(ctx, tt.query)
			require.NoError(t, err)

			var got []string
			for _, p := range products {
				got = append(got, p.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProductGorm_SearchNames(t *testing.T) {
	ctx := context.Background()
	repo := NewProductGorm(setupTestDB(t))
	names := make([]string, 12)
	for i := range names {
		names[i] = fmt.Sprintf("Widget %02d", i)
	}
	seed(t, repo, names...)

	got, err := repo.SearchNames(ctx, "widget", 10)

	require.NoError(t, err)
	assert.Equal(t, names[:10], got)

	got, err = repo.SearchNames(ctx, "nothing", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestProductGorm_ReferencedImages(t *testing.T) {
	ctx := context.Background()
	repo := NewProductGorm(setupTestDB(t))
	seeded := seed(t, repo, "A", "B")
	thumb := "thumb-only.png"
	require.NoError(t, repo.Update(ctx, &entity.Product{
		ID:        seeded[1].ID,
		SKU:       seeded[1].SKU,
		Name:      "B",
		Images:    []string{"img-0.png", "100%_x.png"},
		Thumbnail: &thumb,
	}))

	tests := []struct {
		name  string
		names []string
		want  []string
	}{
		{name: "empty input", names: nil, want: []string{}},
		{name: "image listed by another row", names: []string{"img-0.png", "gone.png"}, want: []string{"img-0.png"}},
		{name: "thumbnail only", names: []string{"thumb-only.png"}, want: []string{"thumb-only.png"}},
		{name: "wildcards are literal", names: []string{"100%_x.png", "100xyx.png"}, want: []string{"100%_x.png"}},
		{name: "substring of a stored name does not count", names: []string{"img-0"}, want: []string{}},
		{name: "image dropped by an update", names: []string{"img-1.png"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ReferencedImages(ctx, tt.names)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
