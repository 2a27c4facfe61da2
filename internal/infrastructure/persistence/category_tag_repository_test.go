package persistence

import (
	"context"
	"sync"
	"testing"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/catalog"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCategoryRepository_FindOrCreate(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	first, err := repo.FindOrCreate(ctx, "Home Audio", "")
	require.NoError(t, err)
	assert.Equal(t, "home-audio", first.Slug)

	var wg sync.WaitGroup
	ids := make([]string, 5)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := repo.FindOrCreate(ctx, "Home Audio", "home-audio")
			if assert.NoError(t, err) {
				ids[i] = c.ID.String()
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, first.ID.String(), id)
	}

	count, err := repo.Count(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormCategoryRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCategoryRepository(db)
	products := NewGormProductRepository(db)
	ctx := context.Background()

	category, err := catalog.NewCategory("Laptops")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, category))

	duplicate, err := catalog.NewCategory("Laptops")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(ctx, duplicate), shared.ErrAlreadyExists)

	require.NoError(t, category.Update("Notebooks", ""))
	require.NoError(t, repo.Save(ctx, category))
	found, err := repo.FindBySlug(ctx, "notebooks")
	require.NoError(t, err)
	assert.Equal(t, "Notebooks", found.Name)

	product, err := catalog.NewProduct("Thin Laptop", "")
	require.NoError(t, err)
	product.SetCategory(category)
	require.NoError(t, products.Save(ctx, product))

	require.NoError(t, repo.Delete(ctx, category.ID))
	reloaded, err := products.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.CategoryID)
	assert.Nil(t, reloaded.Category)

	assert.ErrorIs(t, repo.Delete(ctx, category.ID), shared.ErrNotFound)
	_, err = repo.FindByID(ctx, category.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormCategoryRepository_FindAll(t *testing.T) {
	repo := NewGormCategoryRepository(newTestDB(t))
	ctx := context.Background()

	for _, name := range []string{"Kamera", "Audio", "Gadget"} {
		_, err := repo.FindOrCreate(ctx, name, "")
		require.NoError(t, err)
	}

	filter := shared.DefaultFilter()
	filter.OrderBy, filter.OrderDir = "name", "asc"
	all, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Audio", all[0].Name)

	filter.Search = "GAD"
	matched, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "gadget", matched[0].Slug)
}

func TestGormTagRepository_DeleteDetaches(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTagRepository(db)
	products := NewGormProductRepository(db)
	ctx := context.Background()

	sale, err := repo.FindOrCreate(ctx, "Sale", "")
	require.NoError(t, err)
	hot, err := repo.FindOrCreate(ctx, "Hot", "")
	require.NoError(t, err)

	product, err := catalog.NewProduct("Tagged", "")
	require.NoError(t, err)
	product.SetTags([]catalog.Tag{*sale, *hot})
	require.NoError(t, products.Save(ctx, product))

	require.NoError(t, repo.Delete(ctx, sale.ID))

	reloaded, err := products.FindByID(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Tags, 1)
	assert.Equal(t, "hot", reloaded.Tags[0].Slug)

	var joins int64
	require.NoError(t, db.Model(&models.ProductTagModel{}).Count(&joins).Error)
	assert.Equal(t, int64(1), joins)

	assert.ErrorIs(t, repo.Delete(ctx, sale.ID), shared.ErrNotFound)
}

func TestGormTagRepository_FindByIDs(t *testing.T) {
	repo := NewGormTagRepository(newTestDB(t))
	ctx := context.Background()

	a, err := repo.FindOrCreate(ctx, "Alpha", "")
	require.NoError(t, err)
	b, err := repo.FindOrCreate(ctx, "Beta", "")
	require.NoError(t, err)

	tags, err := repo.FindByIDs(ctx, []uuid.UUID{b.ID, a.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Alpha", tags[0].Name)

	empty, err := repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	again, err := repo.FindOrCreate(ctx, "alpha", "alpha")
	require.NoError(t, err)
	assert.Equal(t, a.ID, again.ID, "existing slug wins over the new name")
}
