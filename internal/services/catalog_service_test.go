package services_test

import (
	"context"
	"testing"

	"vitrine/internal/models"
	"vitrine/internal/repositories"
	"vitrine/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_ListingAndRemoval(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	db := f.db
	categories := services.NewCategoryService(repositories.NewGORMCategoryRepository(db), newTestLogger())

	tools, err := categories.Create(ctx, services.CategoryInput{Name: "Tools", IsHome: ptr(true)})
	require.NoError(t, err)
	assert.True(t, tools.IsActive)
	_, err = categories.Create(ctx, services.CategoryInput{Name: "Garden"})
	require.NoError(t, err)
	_, err = categories.Create(ctx, services.CategoryInput{Name: "Archive", IsActive: ptr(false)})
	require.NoError(t, err)

	_, err = categories.Create(ctx, services.CategoryInput{Name: "Tools"})
	assertAppError(t, err, "CATEGORY_NAME_ALREADY_EXISTS", 409)

	all, err := categories.FindAll(ctx, false, false, 0, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := categories.FindAll(ctx, true, false, 0, 10)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	home, err := categories.FindAll(ctx, true, true, 0, 10)
	require.NoError(t, err)
	require.Len(t, home, 1)
	assert.Equal(t, "Tools", home[0].Name)

	product, err := f.service.Create(ctx, services.CreateProductInput{
		Title:       "Hammer",
		Price:       decimal.NewFromInt(10),
		CategoryIDs: []string{tools.ID},
	}, nil)
	require.NoError(t, err)

	_, err = categories.Remove(ctx, tools.ID)
	require.NoError(t, err)

	found, err := f.service.FindOne(ctx, product.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Categories)

	_, err = categories.Update(ctx, tools.ID, services.UpdateCategoryInput{Name: ptr("Other")})
	assertAppError(t, err, "CATEGORY_NOT_FOUND", 404)
}

func TestBrandService_ProductCountAndRemoval(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	brands := services.NewBrandService(repositories.NewGORMBrandRepository(f.db), newTestLogger())

	acme, err := brands.Create(ctx, services.BrandInput{Name: "Acme"})
	require.NoError(t, err)
	_, err = brands.Create(ctx, services.BrandInput{Name: "Globex", IsActive: ptr(false)})
	require.NoError(t, err)

	_, err = brands.Create(ctx, services.BrandInput{Name: "Acme"})
	assertAppError(t, err, "BRAND_NAME_ALREADY_EXISTS", 409)

	product, err := f.service.Create(ctx, services.CreateProductInput{
		Title:   "Anvil",
		Price:   decimal.NewFromInt(99),
		BrandID: ptr(acme.ID),
	}, nil)
	require.NoError(t, err)

	public, err := brands.FindAll(ctx, true, 0, 10)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Acme", public[0].Name)
	assert.Equal(t, int64(1), public[0].ProductCount)

	all, err := brands.FindAll(ctx, false, 0, 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	renamed, err := brands.Update(ctx, acme.ID, services.UpdateBrandInput{Name: ptr("Acme Corp")})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", renamed.Name)

	_, err = brands.Remove(ctx, acme.ID)
	require.NoError(t, err)

	found, err := f.service.FindOne(ctx, product.ID)
	require.NoError(t, err)
	assert.Nil(t, found.BrandID)
	assert.Nil(t, found.Brand)

	var count int64
	require.NoError(t, f.db.Model(&models.Brand{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
