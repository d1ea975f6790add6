package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mustt-clothing/storefront/pkg/db/models"
)

// AddInput carries everything needed to write a cart line. Display fields are
// snapshotted onto the line and refreshed on every repeat add.
type AddInput struct {
	UserID       string
	ProductID    string
	Size         *string
	Color        *string
	Quantity     int
	UnitPrice    decimal.Decimal
	ProductTitle string
	ProductSlug  string
	ImageURL     string
	Category     string
	Style        string
	Description  string
}

// SelectionInput is a shopper's pick resolved against the catalog before adding.
type SelectionInput struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Size      *string   `json:"size"`
	Color     *string   `json:"color"`
	Quantity  int       `json:"quantity" validate:"gte=0"`
}

// LineRef addresses a line either by row key or by (productId, size, color).
type LineRef struct {
	RowKey    string  `json:"rowKey"`
	ProductID string  `json:"productId"`
	Size      *string `json:"size"`
	Color     *string `json:"color"`
}

type Totals struct {
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	LineCount int             `json:"lineCount"`
}

type View struct {
	Lines  []models.CartLine `json:"lines"`
	Totals Totals            `json:"totals"`
}

// ComputeTotals sums quantities over every line; lines without a positive
// unit price add nothing to the subtotal.
func ComputeTotals(lines []models.CartLine) Totals {
	totals := Totals{Subtotal: decimal.Zero, LineCount: len(lines)}
	for _, line := range lines {
		totals.Quantity += line.Quantity
		if line.UnitPrice.Sign() <= 0 {
			continue
		}
		totals.Subtotal = totals.Subtotal.Add(line.LineTotal())
	}
	totals.Subtotal = totals.Subtotal.Round(2)
	return totals
}
