package orders

import (
	"github.com/shopspring/decimal"

	"github.com/mustt-clothing/storefront/pkg/db/models"
	"github.com/mustt-clothing/storefront/pkg/types"
)

// Completion describes a finished checkout session as reported by the payment provider.
type Completion struct {
	SessionID     string
	UserID        string
	PaymentStatus string
	Currency      string
	AmountTotal   decimal.Decimal
	CustomerEmail string
	Shipping      types.Address
}

// PlacedEvent is the data of the order.placed event.
type PlacedEvent struct {
	OrderID           string             `json:"orderId"`
	UserID            string             `json:"userId"`
	CheckoutSessionID string             `json:"checkoutSessionId"`
	Status            string             `json:"status"`
	Currency          string             `json:"currency"`
	AmountTotal       decimal.Decimal    `json:"amountTotal"`
	ItemCount         int                `json:"itemCount"`
	Lines             []models.OrderLine `json:"lines"`
}

type OrderList struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"nextCursor,omitempty"`
}

func newPlacedEvent(o *models.Order) PlacedEvent {
	return PlacedEvent{
		OrderID:           o.ID.String(),
		UserID:            o.UserID,
		CheckoutSessionID: o.CheckoutSessionID,
		Status:            o.Status.String(),
		Currency:          o.Currency,
		AmountTotal:       o.AmountTotal,
		ItemCount:         o.ItemCount,
		Lines:             o.Lines.Data,
	}
}
