package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustt-clothing/storefront/internal/identity"
	dbtypes "github.com/mustt-clothing/storefront/pkg/db/types"
	pkgerrors "github.com/mustt-clothing/storefront/pkg/errors"
	"github.com/mustt-clothing/storefront/pkg/types"
)

func mustDecimal(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestBuildDerivesSKUAndBarcode(t *testing.T) {
	product, err := NewBuilder(identity.NewDeriver("")).Build(sampleInput())
	require.NoError(t, err)

	require.Len(t, product.Variants.Data, 1)
	variant := product.Variants.Data[0]
	require.Len(t, variant.Sizes, 2)

	m := variant.Sizes[0]
	assert.Equal(t, "MUSTT-CW-COT-F-B-M", m.SKU)
	assert.Equal(t, m.SKU, m.Barcode)
	assert.Equal(t, "Cotton Wrap Dress Black M", m.Label)
	assert.Equal(t, 10, m.Quantity)
	assert.True(t, m.PriceDelta.Equal(mustDecimal("5")))

	assert.Equal(t, "MUSTT-CW-COT-F-B-L", variant.Sizes[1].SKU)
	assert.True(t, variant.Sizes[1].PriceDelta.IsZero())

	require.Len(t, variant.Images, 1, "blank image urls are dropped")
	assert.Equal(t, "https://cdn.example.com/black.jpg", variant.Images[0].URL)
}

func TestBuildWithoutFabricUsesNA(t *testing.T) {
	input := sampleInput()
	input.Details = []DetailInput{{Key: "Care", ValueHTML: "Hand wash"}}
	product, err := NewBuilder(identity.NewDeriver("")).Build(input)
	require.NoError(t, err)
	assert.Equal(t, "MUSTT-CW-NA-F-B-M", product.Variants.Data[0].Sizes[0].SKU)
}

func TestBuildRequiredFields(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(*ProductInput)
	}{
		{"title", func(in *ProductInput) { in.Title = "  " }},
		{"collection", func(in *ProductInput) { in.Collection = "" }},
		{"collectionSlug", func(in *ProductInput) { in.CollectionSlug = "" }},
		{"style", func(in *ProductInput) { in.Style = dbtypes.StringList{} }},
		{"styleSlug", func(in *ProductInput) { in.StyleSlug = "\t" }},
	}
	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			input := sampleInput()
			tc.mutate(&input)
			_, err := NewBuilder(identity.NewDeriver("")).Build(input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
			assert.Equal(t, tc.field, typed.Details().(pkgerrors.FieldDetails).Field)
		})
	}
}

func TestBuildRejectsDuplicatePairs(t *testing.T) {
	input := sampleInput()
	input.Variants = append(input.Variants, VariantInput{
		Color: "black",
		Sizes: []SizeInput{{Size: "m", Quantity: qty(2)}},
	})
	_, err := NewBuilder(identity.NewDeriver("")).Build(input)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestBuildAllowsNegativeStockButFlagsIt(t *testing.T) {
	input := sampleInput()
	input.Variants[0].Sizes[1].Quantity = qty(-3)
	product, err := NewBuilder(identity.NewDeriver("")).Build(input)
	require.NoError(t, err)
	assert.Equal(t, -3, product.Variants.Data[0].Sizes[1].Quantity)
	assert.Equal(t, []string{"MUSTT-CW-COT-F-B-L"}, NegativeStock(product))
}

func TestBuildAbsentNumbersDefaultToZero(t *testing.T) {
	input := sampleInput()
	input.Variants[0].Sizes = []SizeInput{{Size: "S"}}
	product, err := NewBuilder(identity.NewDeriver("")).Build(input)
	require.NoError(t, err)
	entry := product.Variants.Data[0].Sizes[0]
	assert.Equal(t, 0, entry.Quantity)
	assert.True(t, entry.PriceDelta.IsZero())
	assert.True(t, UnitPrice(product, &entry).Equal(mustDecimal("20")))
}

func TestBuildRejectsNegativeBasePrice(t *testing.T) {
	input := sampleInput()
	input.BasePrice = types.FlexDecimal{Set: true, Value: mustDecimal("-1")}
	_, err := NewBuilder(identity.NewDeriver("")).Build(input)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Cotton Wrap Dress":   "cotton-wrap-dress",
		"  Café  Crème!! ":    "cafe-creme",
		"Kurta -- Set (2 pc)": "kurta-set-2-pc",
		"!!!":                 "",
		"Ñandú Linen & Silk":  "nandu-linen-silk",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}
}
