package orders

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mustt-clothing/storefront/pkg/db"
	"github.com/mustt-clothing/storefront/pkg/db/models"
	dbtypes "github.com/mustt-clothing/storefront/pkg/db/types"
	"github.com/mustt-clothing/storefront/pkg/enums"
	pkgerrors "github.com/mustt-clothing/storefront/pkg/errors"
	"github.com/mustt-clothing/storefront/pkg/logger"
	"github.com/mustt-clothing/storefront/pkg/outbox"
	"github.com/mustt-clothing/storefront/pkg/pagination"
)

type Service interface {
	// PlaceFromCart snapshots the user's cart into an order. A second call for
	// the same session returns the stored order with created=false.
	PlaceFromCart(ctx context.Context, completion Completion) (order *models.Order, created bool, err error)
	ListForUser(ctx context.Context, userID string, params pagination.Params) (*OrderList, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	carts  cartReader
	events eventEmitter
	logg   *logger.Logger
}

// NewService builds the orders service. events may be nil, in which case no
// order.placed event is queued.
func NewService(repo Repository, tx txRunner, carts cartReader, events eventEmitter, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, carts: carts, events: events, logg: logg}, nil
}

func (s *service) PlaceFromCart(ctx context.Context, c Completion) (*models.Order, bool, error) {
	sessionID := strings.TrimSpace(c.SessionID)
	if sessionID == "" {
		return nil, false, pkgerrors.Validation("checkoutSessionId", "is required")
	}
	userID := strings.TrimSpace(c.UserID)
	if userID == "" {
		return nil, false, pkgerrors.Validation("userId", "is required")
	}
	ctx = s.logg.WithFields(s.logg.WithUserID(ctx, userID), map[string]any{"checkout_session_id": sessionID})

	if existing, err := s.findBySession(ctx, sessionID); err != nil || existing != nil {
		return existing, false, err
	}

	view, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if len(view.Lines) == 0 {
		s.logg.Warn(ctx, "checkout completed with an empty cart")
	}

	lines := make([]models.OrderLine, 0, len(view.Lines))
	for _, line := range view.Lines {
		lines = append(lines, models.OrderLineFromCart(line))
	}

	amount := c.AmountTotal
	if amount.IsZero() {
		amount = view.Totals.Subtotal
	}

	order := &models.Order{
		UserID:            userID,
		CheckoutSessionID: sessionID,
		Status:            enums.OrderStatusFromPayment(c.PaymentStatus),
		Currency:          strings.ToUpper(strings.TrimSpace(c.Currency)),
		AmountTotal:       amount.Round(2),
		Subtotal:          view.Totals.Subtotal,
		ItemCount:         view.Totals.Quantity,
		Lines:             dbtypes.NewJSON(lines),
		CustomerEmail:     strings.TrimSpace(c.CustomerEmail),
		ShippingAddress:   dbtypes.NewJSON(c.Shipping),
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		if s.events == nil {
			return nil
		}
		if err := s.events.Emit(ctx, tx, placedDomainEvent(order)); err != nil {
			return fmt.Errorf("queue %s: %w", enums.EventOrderPlaced, err)
		}
		return nil
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			existing, findErr := s.findBySession(ctx, sessionID)
			if findErr != nil {
				return nil, false, findErr
			}
			if existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, pkgerrors.Storage(err, "db: insert order")
	}

	ctx = s.logg.WithField(ctx, "order_id", order.ID.String())
	s.logg.Info(ctx, "order placed")
	return order, true, nil
}

func (s *service) ListForUser(ctx context.Context, userID string, params pagination.Params) (*OrderList, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, pkgerrors.Validation("userId", "is required")
	}
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, pkgerrors.Validation("cursor", "is invalid")
	}
	rows, next, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Storage(err, "db: list orders")
	}
	if rows == nil {
		rows = []models.Order{}
	}
	return &OrderList{Orders: rows, NextCursor: next}, nil
}

func (s *service) findBySession(ctx context.Context, sessionID string) (*models.Order, error) {
	order, err := s.repo.FindBySession(ctx, sessionID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, pkgerrors.Storage(err, "db: load order")
	}
	return order, nil
}

func placedDomainEvent(order *models.Order) outbox.DomainEvent {
	return outbox.DomainEvent{
		EventType:     enums.EventOrderPlaced,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Key:           order.CheckoutSessionID,
		Actor:         &outbox.ActorRef{UserID: order.UserID, Role: enums.RoleShopper.String()},
		Data:          newPlacedEvent(order),
	}
}
