package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/mustt-clothing/storefront/internal/cart"
	"github.com/mustt-clothing/storefront/pkg/db/models"
	"github.com/mustt-clothing/storefront/pkg/outbox"
	"github.com/mustt-clothing/storefront/pkg/pagination"
)

// Repository defines persistence operations for order snapshots.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindBySession(ctx context.Context, sessionID string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string, params pagination.Params) ([]models.Order, string, error)
}

type cartReader interface {
	Get(ctx context.Context, userID string) (*cart.View, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}
