package cart

import (
	"context"

	"gorm.io/gorm"

	"github.com/mustt-clothing/storefront/internal/catalog"
	"github.com/mustt-clothing/storefront/pkg/db/models"
)

// LineRepository defines the persistence surface required by the cart service.
type LineRepository interface {
	WithTx(tx *gorm.DB) LineRepository
	Upsert(ctx context.Context, line *models.CartLine) error
	SetQuantity(ctx context.Context, userID, rowKey string, quantity int) (bool, error)
	Delete(ctx context.Context, userID, rowKey string) (bool, error)
	DeleteAll(ctx context.Context, userID string) (int64, error)
	FindLine(ctx context.Context, userID, rowKey string) (*models.CartLine, error)
	ListByUser(ctx context.Context, userID string) ([]models.CartLine, error)
}

type stockChecker interface {
	CheckStock(ctx context.Context, query catalog.StockQuery) (*catalog.Selection, error)
}

type opRecorder interface {
	Observe(op, outcome string)
}
