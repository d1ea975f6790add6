package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	dbtypes "github.com/mustt-clothing/storefront/pkg/db/types"
	"github.com/mustt-clothing/storefront/pkg/enums"
	"github.com/mustt-clothing/storefront/pkg/types"
)

// Order is the snapshot persisted when a checkout session completes.
type Order struct {
	ID                uuid.UUID                   `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID            string                      `gorm:"column:user_id;not null;index" json:"userId"`
	CheckoutSessionID string                      `gorm:"column:checkout_session_id;not null;uniqueIndex:orders_checkout_session_key" json:"checkoutSessionId"`
	Status            enums.OrderStatus           `gorm:"column:status;not null" json:"status"`
	Currency          string                      `gorm:"column:currency;not null" json:"currency"`
	AmountTotal       decimal.Decimal             `gorm:"column:amount_total;type:numeric(12,2);not null" json:"amountTotal"`
	Subtotal          decimal.Decimal             `gorm:"column:subtotal;type:numeric(12,2);not null" json:"subtotal"`
	ItemCount         int                         `gorm:"column:item_count;not null" json:"itemCount"`
	Lines             dbtypes.JSON[[]OrderLine]   `gorm:"column:lines;not null" json:"lines"`
	CustomerEmail     string                      `gorm:"column:customer_email" json:"customerEmail,omitempty"`
	ShippingAddress   dbtypes.JSON[types.Address] `gorm:"column:shipping_address" json:"shippingAddress"`
	CreatedAt         time.Time                   `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderLine is a denormalized copy of a cart line at checkout time.
type OrderLine struct {
	RowKey       string          `json:"rowKey"`
	ProductID    string          `json:"productId"`
	ProductTitle string          `json:"productTitle"`
	ProductSlug  string          `json:"productSlug,omitempty"`
	ImageURL     string          `json:"imageUrl,omitempty"`
	Category     string          `json:"category,omitempty"`
	Style        string          `json:"style,omitempty"`
	Size         *string         `json:"size"`
	Color        *string         `json:"color"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Quantity     int             `json:"quantity"`
}

// OrderLineFromCart snapshots a cart line.
func OrderLineFromCart(l CartLine) OrderLine {
	return OrderLine{
		RowKey:       l.RowKey,
		ProductID:    l.ProductID,
		ProductTitle: l.ProductTitle,
		ProductSlug:  l.ProductSlug,
		ImageURL:     l.ImageURL,
		Category:     l.Category,
		Style:        l.Style,
		Size:         l.Size,
		Color:        l.Color,
		UnitPrice:    l.UnitPrice,
		Quantity:     l.Quantity,
	}
}
