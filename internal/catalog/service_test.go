package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbtypes "github.com/mustt-clothing/storefront/pkg/db/types"
	pkgerrors "github.com/mustt-clothing/storefront/pkg/errors"
)

func TestCreateProductEndToEnd(t *testing.T) {
	svc, _ := newTestService(t, nil)

	dto, err := svc.CreateProduct(ctx(), sampleInput())
	require.NoError(t, err)
	assert.Equal(t, "cotton-wrap-dress", dto.Slug)
	assert.True(t, dto.DisplayOnWebsite)

	size := dto.Variants[0].Sizes[0]
	assert.Equal(t, "MUSTT-CW-COT-F-B-M", size.SKU)
	assert.Equal(t, size.SKU, size.Barcode)
	assert.True(t, size.Price.Equal(mustDecimal("25")))
	assert.True(t, size.InStock)

	_, err = svc.CreateProduct(ctx(), sampleInput())
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict), "second product with same title collides on slug")
}

func TestCreateProductValidationPersistsNothing(t *testing.T) {
	svc, _ := newTestService(t, nil)
	input := sampleInput()
	input.Style = nil

	_, err := svc.CreateProduct(ctx(), input)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	list, err := svc.ListProducts(ctx(), ListQuery{IncludeHidden: true})
	require.NoError(t, err)
	assert.Empty(t, list.Products)
}

func TestUpdateProductKeepsSlugAndRebuildsSKUs(t *testing.T) {
	svc, _ := newTestService(t, nil)
	created, err := svc.CreateProduct(ctx(), sampleInput())
	require.NoError(t, err)

	title := "Linen Wrap Dress"
	style := dbtypes.StringList{"Casual"}
	updated, err := svc.UpdateProduct(ctx(), created.ID, UpdateProductInput{Title: &title, Style: &style})
	require.NoError(t, err)

	assert.Equal(t, "cotton-wrap-dress", updated.Slug, "slug is only derived when absent")
	assert.Equal(t, "Linen Wrap Dress", updated.Title)
	assert.Equal(t, "MUSTT-CW-COT-C-B-M", updated.Variants[0].Sizes[0].SKU)
	assert.Equal(t, "Linen Wrap Dress Black M", updated.Variants[0].Sizes[0].Label)
	assert.Equal(t, 10, updated.Variants[0].Sizes[0].Quantity, "stock survives a partial edit")
	assert.Equal(t, created.CreatedAt.Unix(), updated.CreatedAt.Unix())
}

func TestUpdateProductExplicitSlugConflict(t *testing.T) {
	svc, _ := newTestService(t, nil)
	first, err := svc.CreateProduct(ctx(), sampleInput())
	require.NoError(t, err)

	other := sampleInput()
	other.Title = "Silk Kurta"
	second, err := svc.CreateProduct(ctx(), other)
	require.NoError(t, err)

	_, err = svc.UpdateProduct(ctx(), second.ID, UpdateProductInput{Slug: strPtr(first.Slug)})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))

	_, err = svc.UpdateProduct(ctx(), uuid.New(), UpdateProductInput{})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestVisibilityHidesFromStorefront(t *testing.T) {
	cache := newMemoryCache()
	svc, _ := newTestService(t, cache)
	created, err := svc.CreateProduct(ctx(), sampleInput())
	require.NoError(t, err)

	got, err := svc.GetVisibleBySlug(ctx(), created.Slug)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Len(t, cache.data, 1, "storefront read populates the cache")

	_, err = svc.GetVisibleBySlug(ctx(), created.Slug)
	require.NoError(t, err)

	hidden, err := svc.SetVisibility(ctx(), created.ID, false)
	require.NoError(t, err)
	assert.False(t, hidden.DisplayOnWebsite)
	assert.Empty(t, cache.data, "visibility change invalidates the cache")

	_, err = svc.GetVisibleBySlug(ctx(), created.Slug)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	visible, err := svc.ListVisible(ctx(), ListQuery{IncludeHidden: true})
	require.NoError(t, err)
	assert.Empty(t, visible.Products)

	admin, err := svc.ListProducts(ctx(), ListQuery{IncludeHidden: true})
	require.NoError(t, err)
	assert.Len(t, admin.Products, 1)

	_, err = svc.SetVisibility(ctx(), uuid.New(), true)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestFindByBarcode(t *testing.T) {
	svc, _ := newTestService(t, nil)
	created, err := svc.CreateProduct(ctx(), sampleInput())
	require.NoError(t, err)

	match, err := svc.FindByBarcode(ctx(), " MUSTT-CW-COT-F-B-L ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, match.Product.ID)
	assert.Equal(t, "Black", match.Color)
	assert.Equal(t, "L", match.Size.Size)

	_, err = svc.FindByBarcode(ctx(), "MUSTT-XX")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	_, err = svc.FindByBarcode(ctx(), "")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestDeleteProduct(t *testing.T) {
	svc, _ := newTestService(t, nil)
	created, err := svc.CreateProduct(ctx(), sampleInput())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx(), created.ID))
	err = svc.DeleteProduct(ctx(), created.ID)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestCheckStock(t *testing.T) {
	svc, _ := newTestService(t, nil)
	created, err := svc.CreateProduct(ctx(), sampleInput())
	require.NoError(t, err)

	sel, err := svc.CheckStock(ctx(), StockQuery{ProductID: created.ID, Size: strPtr("m"), Color: strPtr("BLACK"), Quantity: 2})
	require.NoError(t, err)
	assert.True(t, sel.Tracked)
	assert.Equal(t, 10, sel.Available)
	assert.Equal(t, "M", *sel.Size, "catalog spelling wins")
	assert.Equal(t, "Black", *sel.Color)
	assert.True(t, sel.UnitPrice.Equal(mustDecimal("25")))
	assert.Equal(t, "https://cdn.example.com/black.jpg", sel.ImageURL)

	_, err = svc.CheckStock(ctx(), StockQuery{ProductID: created.ID, Size: strPtr("M"), Color: strPtr("Black"), Quantity: 3, InCart: 8})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))
	details := pkgerrors.As(err).Details().(StockDetails)
	assert.Equal(t, 10, details.Available)

	_, err = svc.CheckStock(ctx(), StockQuery{ProductID: created.ID, Size: strPtr("XL"), Color: strPtr("Black"), Quantity: 1})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.CheckStock(ctx(), StockQuery{ProductID: created.ID, Size: strPtr("M"), Color: strPtr("Black")})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.CheckStock(ctx(), StockQuery{ProductID: uuid.New(), Quantity: 1})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestCheckStockUntrackedProduct(t *testing.T) {
	svc, _ := newTestService(t, nil)
	input := sampleInput()
	input.Variants = nil
	created, err := svc.CreateProduct(ctx(), input)
	require.NoError(t, err)

	sel, err := svc.CheckStock(ctx(), StockQuery{ProductID: created.ID, Size: strPtr(" "), Quantity: 50})
	require.NoError(t, err)
	assert.False(t, sel.Tracked)
	assert.Nil(t, sel.Size)
	assert.Nil(t, sel.Color)
	assert.True(t, sel.UnitPrice.Equal(mustDecimal("20")))
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(nil, nil, nil, nil, 0, nil)
	assert.Error(t, err)
}
