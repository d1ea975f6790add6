package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartLine is one row of a shopper's cart, keyed by (user_id, row_key).
type CartLine struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID       string          `gorm:"column:user_id;not null;uniqueIndex:cart_lines_user_row_key,priority:1" json:"userId"`
	RowKey       string          `gorm:"column:row_key;not null;uniqueIndex:cart_lines_user_row_key,priority:2" json:"rowKey"`
	ProductID    string          `gorm:"column:product_id;not null" json:"productId"`
	ProductTitle string          `gorm:"column:product_title;not null" json:"productTitle"`
	ProductSlug  string          `gorm:"column:product_slug" json:"productSlug"`
	ImageURL     string          `gorm:"column:image_url" json:"imageUrl"`
	Category     string          `gorm:"column:category" json:"category"`
	Style        string          `gorm:"column:style" json:"style"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unitPrice"`
	Size         *string         `gorm:"column:size" json:"size"`
	Color        *string         `gorm:"column:color" json:"color"`
	Quantity     int             `gorm:"column:quantity;not null" json:"quantity"`
	Description  string          `gorm:"column:description" json:"description,omitempty"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (CartLine) TableName() string { return "cart_lines" }

func (l *CartLine) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// LineTotal is unitPrice × quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
