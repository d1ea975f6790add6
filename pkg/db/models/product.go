package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	dbtypes "github.com/mustt-clothing/storefront/pkg/db/types"
)

// Product is a catalog entry with its full variant tree embedded.
type Product struct {
	ID               uuid.UUID                  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title            string                     `gorm:"column:title;not null" json:"title"`
	Slug             string                     `gorm:"column:slug;not null;uniqueIndex:products_slug_key" json:"slug"`
	Collection       string                     `gorm:"column:collection;not null" json:"collection"`
	CollectionSlug   string                     `gorm:"column:collection_slug;not null;index" json:"collectionSlug"`
	Style            dbtypes.StringList         `gorm:"column:style;not null" json:"style"`
	StyleSlug        string                     `gorm:"column:style_slug;not null;index" json:"styleSlug"`
	BasePrice        decimal.Decimal            `gorm:"column:base_price;type:numeric(12,2);not null" json:"basePrice"`
	ProductCode      string                     `gorm:"column:product_code" json:"productCode,omitempty"`
	Details          dbtypes.JSON[[]Detail]     `gorm:"column:details;not null" json:"details"`
	Variants         dbtypes.JSON[[]Variant]    `gorm:"column:variants;not null" json:"variants"`
	DisplayOnWebsite *bool                      `gorm:"column:display_on_website" json:"displayOnWebsite,omitempty"`
	CreatedAt        time.Time                  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time                  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Visible reports whether the storefront may show the product. Absent means visible.
func (p *Product) Visible() bool {
	return p.DisplayOnWebsite == nil || *p.DisplayOnWebsite
}

// Detail is an ordered key/HTML pair shown on the product page.
type Detail struct {
	Key       string `json:"key"`
	ValueHTML string `json:"valueHtml"`
}

// Variant groups the images and sizes of one color.
type Variant struct {
	Color  string      `json:"color"`
	Images []Image     `json:"images"`
	Sizes  []SizeEntry `json:"sizes"`
}

type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// SizeEntry is the sellable unit for one (color, size) pair.
type SizeEntry struct {
	Size       string          `json:"size"`
	Quantity   int             `json:"quantity"`
	PriceDelta decimal.Decimal `json:"priceDelta"`
	SKU        string          `json:"sku"`
	Barcode    string          `json:"barcode"`
	Label      string          `json:"label"`
}

// FindSize returns the variant and size entry for a (color, size) pair,
// matched case-insensitively after trimming.
func (p *Product) FindSize(color, size string) (*Variant, *SizeEntry, bool) {
	for i := range p.Variants.Data {
		v := &p.Variants.Data[i]
		if !equalFold(v.Color, color) {
			continue
		}
		for j := range v.Sizes {
			if equalFold(v.Sizes[j].Size, size) {
				return v, &v.Sizes[j], true
			}
		}
	}
	return nil, nil, false
}

// FindBarcode returns the variant and size entry carrying barcode.
func (p *Product) FindBarcode(barcode string) (*Variant, *SizeEntry, bool) {
	for i := range p.Variants.Data {
		v := &p.Variants.Data[i]
		for j := range v.Sizes {
			if v.Sizes[j].Barcode == barcode {
				return v, &v.Sizes[j], true
			}
		}
	}
	return nil, nil, false
}

// PrimaryImage returns the first image URL of the color, falling back to the first variant.
func (p *Product) PrimaryImage(color string) string {
	var fallback string
	for _, v := range p.Variants.Data {
		if len(v.Images) == 0 {
			continue
		}
		if equalFold(v.Color, color) {
			return v.Images[0].URL
		}
		if fallback == "" {
			fallback = v.Images[0].URL
		}
	}
	return fallback
}
