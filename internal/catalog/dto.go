package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mustt-clothing/storefront/pkg/db/models"
	dbtypes "github.com/mustt-clothing/storefront/pkg/db/types"
	"github.com/mustt-clothing/storefront/pkg/types"
)

// ProductInput is the admin product form.
type ProductInput struct {
	Title            string             `json:"title" validate:"max=200"`
	Slug             string             `json:"slug,omitempty" validate:"omitempty,max=200"`
	Collection       string             `json:"collection"`
	CollectionSlug   string             `json:"collectionSlug"`
	Style            dbtypes.StringList `json:"style"`
	StyleSlug        string             `json:"styleSlug"`
	BasePrice        types.FlexDecimal  `json:"basePrice"`
	ProductCode      string             `json:"productCode,omitempty"`
	Details          []DetailInput      `json:"details" validate:"dive"`
	Variants         []VariantInput     `json:"variants" validate:"dive"`
	DisplayOnWebsite *bool              `json:"displayOnWebsite,omitempty"`
}

type DetailInput struct {
	Key       string `json:"key"`
	ValueHTML string `json:"valueHtml"`
}

type VariantInput struct {
	Color  string       `json:"color"`
	Images []ImageInput `json:"images"`
	Sizes  []SizeInput  `json:"sizes"`
}

type ImageInput struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

type SizeInput struct {
	Size       string            `json:"size"`
	Quantity   types.FlexInt     `json:"quantity"`
	PriceDelta types.FlexDecimal `json:"priceDelta"`
}

// UpdateProductInput is a partial product edit; nil fields are left untouched.
type UpdateProductInput struct {
	Title            *string             `json:"title,omitempty"`
	Slug             *string             `json:"slug,omitempty"`
	Collection       *string             `json:"collection,omitempty"`
	CollectionSlug   *string             `json:"collectionSlug,omitempty"`
	Style            *dbtypes.StringList `json:"style,omitempty"`
	StyleSlug        *string             `json:"styleSlug,omitempty"`
	BasePrice        *types.FlexDecimal  `json:"basePrice,omitempty"`
	ProductCode      *string             `json:"productCode,omitempty"`
	Details          *[]DetailInput      `json:"details,omitempty"`
	Variants         *[]VariantInput     `json:"variants,omitempty"`
	DisplayOnWebsite *bool               `json:"displayOnWebsite,omitempty"`
}

// ProductDTO is the product payload returned to clients.
type ProductDTO struct {
	ID               uuid.UUID       `json:"id"`
	Title            string          `json:"title"`
	Slug             string          `json:"slug"`
	Collection       string          `json:"collection"`
	CollectionSlug   string          `json:"collectionSlug"`
	Style            []string        `json:"style"`
	StyleSlug        string          `json:"styleSlug"`
	BasePrice        decimal.Decimal `json:"basePrice"`
	ProductCode      string          `json:"productCode,omitempty"`
	Details          []DetailDTO     `json:"details"`
	Variants         []VariantDTO    `json:"variants"`
	DisplayOnWebsite bool            `json:"displayOnWebsite"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type DetailDTO struct {
	Key       string `json:"key"`
	ValueHTML string `json:"valueHtml"`
}

type VariantDTO struct {
	Color  string     `json:"color"`
	Images []ImageDTO `json:"images"`
	Sizes  []SizeDTO  `json:"sizes"`
}

type ImageDTO struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

type SizeDTO struct {
	Size       string          `json:"size"`
	Quantity   int             `json:"quantity"`
	PriceDelta decimal.Decimal `json:"priceDelta"`
	Price      decimal.Decimal `json:"price"`
	InStock    bool            `json:"inStock"`
	SKU        string          `json:"sku"`
	Barcode    string          `json:"barcode"`
	Label      string          `json:"label"`
}

// ProductSummary is the list-row projection.
type ProductSummary struct {
	ID               uuid.UUID       `json:"id"`
	Title            string          `json:"title"`
	Slug             string          `json:"slug"`
	Collection       string          `json:"collection"`
	CollectionSlug   string          `json:"collectionSlug"`
	Style            []string        `json:"style"`
	StyleSlug        string          `json:"styleSlug"`
	BasePrice        decimal.Decimal `json:"basePrice"`
	ImageURL         string          `json:"imageUrl,omitempty"`
	Colors           []string        `json:"colors"`
	TotalStock       int             `json:"totalStock"`
	DisplayOnWebsite bool            `json:"displayOnWebsite"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// ProductListResult is one page of products.
type ProductListResult struct {
	Products   []ProductSummary `json:"products"`
	NextCursor string           `json:"nextCursor,omitempty"`
}

// BarcodeMatch is the scan-to-view result.
type BarcodeMatch struct {
	Product ProductDTO `json:"product"`
	Color   string     `json:"color"`
	Size    SizeDTO    `json:"size"`
}

// NewProductDTO maps the stored product into its client shape.
func NewProductDTO(p *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:               p.ID,
		Title:            p.Title,
		Slug:             p.Slug,
		Collection:       p.Collection,
		CollectionSlug:   p.CollectionSlug,
		Style:            append([]string{}, p.Style...),
		StyleSlug:        p.StyleSlug,
		BasePrice:        p.BasePrice,
		ProductCode:      p.ProductCode,
		Details:          make([]DetailDTO, 0, len(p.Details.Data)),
		Variants:         make([]VariantDTO, 0, len(p.Variants.Data)),
		DisplayOnWebsite: p.Visible(),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	for _, d := range p.Details.Data {
		dto.Details = append(dto.Details, DetailDTO{Key: d.Key, ValueHTML: d.ValueHTML})
	}
	for _, v := range p.Variants.Data {
		variant := VariantDTO{
			Color:  v.Color,
			Images: make([]ImageDTO, 0, len(v.Images)),
			Sizes:  make([]SizeDTO, 0, len(v.Sizes)),
		}
		for _, img := range v.Images {
			variant.Images = append(variant.Images, ImageDTO{URL: img.URL, Alt: img.Alt})
		}
		for _, s := range v.Sizes {
			variant.Sizes = append(variant.Sizes, newSizeDTO(p.BasePrice, s))
		}
		dto.Variants = append(dto.Variants, variant)
	}
	return dto
}

func newSizeDTO(base decimal.Decimal, s models.SizeEntry) SizeDTO {
	return SizeDTO{
		Size:       s.Size,
		Quantity:   s.Quantity,
		PriceDelta: s.PriceDelta,
		Price:      base.Add(s.PriceDelta),
		InStock:    s.Quantity > 0,
		SKU:        s.SKU,
		Barcode:    s.Barcode,
		Label:      s.Label,
	}
}

func newProductSummary(p *models.Product) ProductSummary {
	summary := ProductSummary{
		ID:               p.ID,
		Title:            p.Title,
		Slug:             p.Slug,
		Collection:       p.Collection,
		CollectionSlug:   p.CollectionSlug,
		Style:            append([]string{}, p.Style...),
		StyleSlug:        p.StyleSlug,
		BasePrice:        p.BasePrice,
		ImageURL:         p.PrimaryImage(""),
		Colors:           []string{},
		DisplayOnWebsite: p.Visible(),
		CreatedAt:        p.CreatedAt,
	}
	for _, v := range p.Variants.Data {
		if v.Color != "" {
			summary.Colors = append(summary.Colors, v.Color)
		}
		for _, s := range v.Sizes {
			if s.Quantity > 0 {
				summary.TotalStock += s.Quantity
			}
		}
	}
	return summary
}

// inputFromProduct rebuilds the form from a stored product so edits can be
// replayed through the builder.
func inputFromProduct(p *models.Product) ProductInput {
	input := ProductInput{
		Title:            p.Title,
		Slug:             p.Slug,
		Collection:       p.Collection,
		CollectionSlug:   p.CollectionSlug,
		Style:            append(dbtypes.StringList{}, p.Style...),
		StyleSlug:        p.StyleSlug,
		BasePrice:        types.FlexDecimal{Set: true, Value: p.BasePrice},
		ProductCode:      p.ProductCode,
		DisplayOnWebsite: p.DisplayOnWebsite,
	}
	for _, d := range p.Details.Data {
		input.Details = append(input.Details, DetailInput{Key: d.Key, ValueHTML: d.ValueHTML})
	}
	for _, v := range p.Variants.Data {
		variant := VariantInput{Color: v.Color}
		for _, img := range v.Images {
			variant.Images = append(variant.Images, ImageInput{URL: img.URL, Alt: img.Alt})
		}
		for _, s := range v.Sizes {
			variant.Sizes = append(variant.Sizes, SizeInput{
				Size:       s.Size,
				Quantity:   types.FlexInt{Set: true, Value: s.Quantity},
				PriceDelta: types.FlexDecimal{Set: true, Value: s.PriceDelta},
			})
		}
		input.Variants = append(input.Variants, variant)
	}
	return input
}

// apply merges the non-nil fields of patch into input.
func (patch UpdateProductInput) apply(input *ProductInput) {
	if patch.Title != nil {
		input.Title = *patch.Title
	}
	if patch.Slug != nil {
		input.Slug = *patch.Slug
	}
	if patch.Collection != nil {
		input.Collection = *patch.Collection
	}
	if patch.CollectionSlug != nil {
		input.CollectionSlug = *patch.CollectionSlug
	}
	if patch.Style != nil {
		input.Style = *patch.Style
	}
	if patch.StyleSlug != nil {
		input.StyleSlug = *patch.StyleSlug
	}
	if patch.BasePrice != nil {
		input.BasePrice = *patch.BasePrice
	}
	if patch.ProductCode != nil {
		input.ProductCode = *patch.ProductCode
	}
	if patch.Details != nil {
		input.Details = *patch.Details
	}
	if patch.Variants != nil {
		input.Variants = *patch.Variants
	}
	if patch.DisplayOnWebsite != nil {
		v := *patch.DisplayOnWebsite
		input.DisplayOnWebsite = &v
	}
}
