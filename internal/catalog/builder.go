package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mustt-clothing/storefront/internal/identity"
	"github.com/mustt-clothing/storefront/pkg/db/models"
	dbtypes "github.com/mustt-clothing/storefront/pkg/db/types"
	pkgerrors "github.com/mustt-clothing/storefront/pkg/errors"
)

// Builder turns a product form into a stored product with its derived variant tree.
type Builder struct {
	deriver identity.Deriver
}

func NewBuilder(deriver identity.Deriver) *Builder {
	return &Builder{deriver: deriver}
}

// Build validates input and derives SKU, barcode and label for every
// (color, size) pair. Slug and timestamps are left to the caller.
func (b *Builder) Build(input ProductInput) (*models.Product, error) {
	if err := validateRequired(input); err != nil {
		return nil, err
	}

	details := make([]models.Detail, 0, len(input.Details))
	fabricRows := make([]identity.Detail, 0, len(input.Details))
	for _, d := range input.Details {
		key := strings.TrimSpace(d.Key)
		if key == "" && strings.TrimSpace(d.ValueHTML) == "" {
			continue
		}
		details = append(details, models.Detail{Key: key, ValueHTML: d.ValueHTML})
		fabricRows = append(fabricRows, identity.Detail{Key: key, ValueHTML: d.ValueHTML})
	}

	title := strings.TrimSpace(input.Title)
	collection := strings.TrimSpace(input.Collection)
	style := input.Style.Joined()
	fabric := identity.FabricFromDetails(fabricRows)

	seen := make(map[string]struct{})
	variants := make([]models.Variant, 0, len(input.Variants))
	for vi, vin := range input.Variants {
		color := strings.TrimSpace(vin.Color)
		variant := models.Variant{
			Color:  color,
			Images: make([]models.Image, 0, len(vin.Images)),
			Sizes:  make([]models.SizeEntry, 0, len(vin.Sizes)),
		}
		for _, img := range vin.Images {
			url := strings.TrimSpace(img.URL)
			if url == "" {
				continue
			}
			variant.Images = append(variant.Images, models.Image{URL: url, Alt: strings.TrimSpace(img.Alt)})
		}
		for si, sin := range vin.Sizes {
			size := strings.TrimSpace(sin.Size)
			pair := strings.ToLower(color) + "\x00" + strings.ToLower(size)
			if _, dup := seen[pair]; dup {
				return nil, pkgerrors.Validation(
					fmt.Sprintf("variants[%d].sizes[%d].size", vi, si),
					fmt.Sprintf("duplicates color %q size %q", color, size),
				)
			}
			seen[pair] = struct{}{}

			sku := b.deriver.SKU(collection, fabric, style, color, size)
			variant.Sizes = append(variant.Sizes, models.SizeEntry{
				Size:       size,
				Quantity:   sin.Quantity.Value,
				PriceDelta: sin.PriceDelta.Value,
				SKU:        sku,
				Barcode:    identity.GenerateBarcode(sku),
				Label:      identity.SizeLabel(title, color, size),
			})
		}
		variants = append(variants, variant)
	}

	basePrice := input.BasePrice.Value
	if basePrice.IsNegative() {
		return nil, pkgerrors.Validation("basePrice", "must not be negative")
	}

	return &models.Product{
		Title:            title,
		Slug:             strings.TrimSpace(input.Slug),
		Collection:       collection,
		CollectionSlug:   strings.TrimSpace(input.CollectionSlug),
		Style:            append(dbtypes.StringList{}, input.Style...),
		StyleSlug:        strings.TrimSpace(input.StyleSlug),
		BasePrice:        basePrice.Round(2),
		ProductCode:      strings.TrimSpace(input.ProductCode),
		Details:          dbtypes.NewJSON(details),
		Variants:         dbtypes.NewJSON(variants),
		DisplayOnWebsite: input.DisplayOnWebsite,
	}, nil
}

func validateRequired(input ProductInput) error {
	required := []struct {
		field string
		value string
	}{
		{"title", input.Title},
		{"collection", input.Collection},
		{"collectionSlug", input.CollectionSlug},
		{"style", input.Style.Joined()},
		{"styleSlug", input.StyleSlug},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return pkgerrors.Validation(r.field, "is required")
		}
	}
	return nil
}

// NegativeStock lists the SKUs whose stock on hand is below zero. Such
// entries are accepted but reported.
func NegativeStock(p *models.Product) []string {
	var skus []string
	for _, v := range p.Variants.Data {
		for _, s := range v.Sizes {
			if s.Quantity < 0 {
				skus = append(skus, s.SKU)
			}
		}
	}
	return skus
}

// UnitPrice is base price plus the size's price delta.
func UnitPrice(p *models.Product, entry *models.SizeEntry) decimal.Decimal {
	if entry == nil {
		return p.BasePrice
	}
	return p.BasePrice.Add(entry.PriceDelta)
}
