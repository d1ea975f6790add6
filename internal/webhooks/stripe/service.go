package stripewebhook

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"

	"github.com/mustt-clothing/storefront/internal/orders"
	"github.com/mustt-clothing/storefront/pkg/db/models"
	pkgerrors "github.com/mustt-clothing/storefront/pkg/errors"
	"github.com/mustt-clothing/storefront/pkg/logger"
	"github.com/mustt-clothing/storefront/pkg/types"
)

type orderPlacer interface {
	PlaceFromCart(ctx context.Context, completion orders.Completion) (*models.Order, bool, error)
}

type Service struct {
	orders orderPlacer
	logg   *logger.Logger
}

func NewService(placer orderPlacer, logg *logger.Logger) (*Service, error) {
	if placer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order placer required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{orders: placer, logg: logg}, nil
}

// HandleEvent turns completed checkout sessions into orders. Other event
// types are acknowledged and ignored.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode checkout session")
		}
		return s.completeCheckout(ctx, &session)
	default:
		return nil
	}
}

func (s *Service) completeCheckout(ctx context.Context, session *stripe.CheckoutSession) error {
	ctx = s.logg.WithField(ctx, "checkout_session_id", session.ID)
	userID := strings.TrimSpace(session.ClientReferenceID)
	if userID == "" {
		// Sessions created outside the storefront carry no cart owner.
		s.logg.Warn(ctx, "checkout session without client_reference_id ignored")
		return nil
	}

	completion := orders.Completion{
		SessionID:     session.ID,
		UserID:        userID,
		PaymentStatus: string(session.PaymentStatus),
		Currency:      string(session.Currency),
		AmountTotal:   fromMinorUnits(session.AmountTotal, string(session.Currency)),
		CustomerEmail: session.CustomerEmail,
	}
	if details := session.CustomerDetails; details != nil {
		if details.Email != "" {
			completion.CustomerEmail = details.Email
		}
		completion.Shipping = addressFrom(details.Name, details.Address)
	}

	order, created, err := s.orders.PlaceFromCart(ctx, completion)
	if err != nil {
		return err
	}
	if !created {
		s.logg.Info(s.logg.WithField(ctx, "order_id", order.ID.String()), "checkout session already recorded")
	}
	return nil
}

func addressFrom(name string, addr *stripe.Address) types.Address {
	if addr == nil {
		return types.Address{Name: name}
	}
	return types.Address{
		Name:       name,
		Line1:      addr.Line1,
		Line2:      addr.Line2,
		City:       addr.City,
		State:      addr.State,
		PostalCode: addr.PostalCode,
		Country:    addr.Country,
	}
}

var zeroDecimalCurrencies = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true,
	"krw": true, "mga": true, "pyg": true, "rwf": true, "ugx": true, "vnd": true,
	"vuv": true, "xaf": true, "xof": true, "xpf": true,
}

func fromMinorUnits(amount int64, currency string) decimal.Decimal {
	if zeroDecimalCurrencies[strings.ToLower(currency)] {
		return decimal.NewFromInt(amount)
	}
	return decimal.New(amount, -2)
}
