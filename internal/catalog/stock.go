package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mustt-clothing/storefront/pkg/db"
	"github.com/mustt-clothing/storefront/pkg/db/models"
	pkgerrors "github.com/mustt-clothing/storefront/pkg/errors"
)

// StockQuery asks whether Quantity more units of a selection can go into a
// cart that already holds InCart of them.
type StockQuery struct {
	ProductID uuid.UUID
	Size      *string
	Color     *string
	Quantity  int
	InCart    int
}

// Selection is a purchasable product selection resolved against the catalog.
// Size and Color carry the catalog's spelling, nil when the product has none.
type Selection struct {
	Product   *models.Product
	Size      *string
	Color     *string
	Tracked   bool
	Available int
	UnitPrice decimal.Decimal
	ImageURL  string
}

// StockDetails is attached to insufficient-stock conflicts.
type StockDetails struct {
	Available int `json:"available"`
	InCart    int `json:"inCart"`
	Requested int `json:"requested"`
}

// CheckStock resolves the selection and rejects it when the cart would exceed stock on hand.
func (s *service) CheckStock(ctx context.Context, query StockQuery) (*Selection, error) {
	if query.Quantity < 1 {
		return nil, pkgerrors.Validation("quantity", "must be at least 1")
	}
	product, err := s.repo.FindByID(ctx, query.ProductID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound("product", query.ProductID.String())
		}
		return nil, pkgerrors.Storage(err, "db: load product")
	}
	if !product.Visible() {
		return nil, pkgerrors.NotFound("product", query.ProductID.String())
	}

	if !hasSizeEntries(product) {
		return &Selection{
			Product:   product,
			Size:      blankToNil(query.Size),
			Color:     blankToNil(query.Color),
			UnitPrice: product.BasePrice,
			ImageURL:  product.PrimaryImage(deref(query.Color)),
		}, nil
	}

	variant, entry, ok := product.FindSize(deref(query.Color), deref(query.Size))
	if !ok {
		return nil, pkgerrors.Validation("size", "selected size and color are not offered")
	}

	if query.Quantity+query.InCart > entry.Quantity {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
			WithDetails(StockDetails{Available: entry.Quantity, InCart: query.InCart, Requested: query.Quantity})
	}

	return &Selection{
		Product:   product,
		Size:      blankToNil(&entry.Size),
		Color:     blankToNil(&variant.Color),
		Tracked:   true,
		Available: entry.Quantity,
		UnitPrice: UnitPrice(product, entry),
		ImageURL:  product.PrimaryImage(variant.Color),
	}, nil
}

func hasSizeEntries(p *models.Product) bool {
	for _, v := range p.Variants.Data {
		if len(v.Sizes) > 0 {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
