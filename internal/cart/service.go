package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/mustt-clothing/storefront/internal/catalog"
	"github.com/mustt-clothing/storefront/internal/identity"
	"github.com/mustt-clothing/storefront/pkg/db"
	"github.com/mustt-clothing/storefront/pkg/db/models"
	pkgerrors "github.com/mustt-clothing/storefront/pkg/errors"
	"github.com/mustt-clothing/storefront/pkg/logger"
)

// Service reconciles a shopper's cart lines.
type Service interface {
	Add(ctx context.Context, input AddInput) (*models.CartLine, error)
	AddSelection(ctx context.Context, userID string, input SelectionInput) (*models.CartLine, error)
	UpdateQuantity(ctx context.Context, userID string, ref LineRef, quantity int) (*models.CartLine, error)
	Remove(ctx context.Context, userID string, ref LineRef) error
	Clear(ctx context.Context, userID string) (int64, error)
	Get(ctx context.Context, userID string) (*View, error)
}

type service struct {
	repo    LineRepository
	stock   stockChecker
	metrics opRecorder
	logg    *logger.Logger
}

// NewService wires the cart service. metrics may be nil.
func NewService(repo LineRepository, stock stockChecker, metrics opRecorder, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock checker required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		stock:   stock,
		metrics: metrics,
		logg:    logg,
	}, nil
}

func (s *service) Add(ctx context.Context, input AddInput) (line *models.CartLine, err error) {
	defer func() { s.observe("add", err) }()

	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, pkgerrors.Validation("userId", "is required")
	}
	productID := strings.TrimSpace(input.ProductID)
	if productID == "" {
		return nil, pkgerrors.Validation("productId", "is required")
	}
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, pkgerrors.Validation("quantity", "must be at least 1")
	}
	if input.UnitPrice.IsNegative() {
		return nil, pkgerrors.Validation("unitPrice", "must not be negative")
	}

	rowKey := identity.RowKey(productID, input.Size, input.Color)
	ctx = s.logg.WithRowKey(s.logg.WithUserID(ctx, userID), rowKey)

	row := &models.CartLine{
		UserID:       userID,
		RowKey:       rowKey,
		ProductID:    productID,
		ProductTitle: strings.TrimSpace(input.ProductTitle),
		ProductSlug:  strings.TrimSpace(input.ProductSlug),
		ImageURL:     strings.TrimSpace(input.ImageURL),
		Category:     strings.TrimSpace(input.Category),
		Style:        strings.TrimSpace(input.Style),
		UnitPrice:    input.UnitPrice.Round(2),
		Size:         trimmed(input.Size),
		Color:        trimmed(input.Color),
		Quantity:     quantity,
		Description:  strings.TrimSpace(input.Description),
	}
	if err := s.repo.Upsert(ctx, row); err != nil {
		return nil, pkgerrors.Storage(err, "db: upsert cart line")
	}

	stored, err := s.repo.FindLine(ctx, userID, rowKey)
	if err != nil {
		return nil, pkgerrors.Storage(err, "db: load cart line")
	}
	s.logg.Info(ctx, "cart line added")
	return stored, nil
}

func (s *service) AddSelection(ctx context.Context, userID string, input SelectionInput) (*models.CartLine, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, pkgerrors.Validation("userId", "is required")
	}
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, pkgerrors.Validation("quantity", "must be at least 1")
	}

	inCart := 0
	existing, err := s.repo.FindLine(ctx, userID, identity.RowKey(input.ProductID.String(), input.Size, input.Color))
	switch {
	case err == nil:
		inCart = existing.Quantity
	case !db.IsNotFound(err):
		return nil, pkgerrors.Storage(err, "db: load cart line")
	}

	sel, err := s.stock.CheckStock(ctx, catalog.StockQuery{
		ProductID: input.ProductID,
		Size:      input.Size,
		Color:     input.Color,
		Quantity:  quantity,
		InCart:    inCart,
	})
	if err != nil {
		s.observe("add", err)
		return nil, err
	}

	product := sel.Product
	return s.Add(ctx, AddInput{
		UserID:       userID,
		ProductID:    product.ID.String(),
		Size:         sel.Size,
		Color:        sel.Color,
		Quantity:     quantity,
		UnitPrice:    sel.UnitPrice,
		ProductTitle: product.Title,
		ProductSlug:  product.Slug,
		ImageURL:     sel.ImageURL,
		Category:     product.Collection,
		Style:        product.Style.Joined(),
		Description:  identity.SizeLabel(product.Title, deref(sel.Color), deref(sel.Size)),
	})
}

// UpdateQuantity overwrites a line's quantity; values below 1 become 1.
func (s *service) UpdateQuantity(ctx context.Context, userID string, ref LineRef, quantity int) (line *models.CartLine, err error) {
	defer func() { s.observe("update", err) }()

	userID, rowKey, err := resolve(userID, ref)
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		quantity = 1
	}

	matched, err := s.repo.SetQuantity(ctx, userID, rowKey, quantity)
	if err != nil {
		return nil, pkgerrors.Storage(err, "db: update cart line")
	}
	if !matched {
		return nil, pkgerrors.NotFound("cart line", rowKey)
	}
	stored, err := s.repo.FindLine(ctx, userID, rowKey)
	if err != nil {
		return nil, pkgerrors.Storage(err, "db: load cart line")
	}
	return stored, nil
}

func (s *service) Remove(ctx context.Context, userID string, ref LineRef) (err error) {
	defer func() { s.observe("remove", err) }()

	userID, rowKey, err := resolve(userID, ref)
	if err != nil {
		return err
	}
	matched, err := s.repo.Delete(ctx, userID, rowKey)
	if err != nil {
		return pkgerrors.Storage(err, "db: delete cart line")
	}
	if !matched {
		return pkgerrors.NotFound("cart line", rowKey)
	}
	s.logg.Info(s.logg.WithRowKey(ctx, rowKey), "cart line removed")
	return nil
}

// Clear removes every line of the user and reports how many went.
func (s *service) Clear(ctx context.Context, userID string) (count int64, err error) {
	defer func() { s.observe("clear", err) }()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, pkgerrors.Validation("userId", "is required")
	}
	count, err = s.repo.DeleteAll(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Storage(err, "db: clear cart")
	}
	return count, nil
}

func (s *service) Get(ctx context.Context, userID string) (*View, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, pkgerrors.Validation("userId", "is required")
	}
	lines, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Storage(err, "db: list cart lines")
	}
	if lines == nil {
		lines = []models.CartLine{}
	}
	return &View{Lines: lines, Totals: ComputeTotals(lines)}, nil
}

func (s *service) observe(op string, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = strings.ToLower(string(pkgerrors.CodeInternal))
		if typed := pkgerrors.As(err); typed != nil {
			outcome = strings.ToLower(string(typed.Code()))
		}
	}
	s.metrics.Observe(op, outcome)
}

// resolve returns the row key named by ref, computing it from the
// selection when no key is given.
func resolve(userID string, ref LineRef) (string, string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", "", pkgerrors.Validation("userId", "is required")
	}
	if key := strings.TrimSpace(ref.RowKey); key != "" {
		return userID, key, nil
	}
	productID := strings.TrimSpace(ref.ProductID)
	if productID == "" {
		return "", "", pkgerrors.Validation("rowKey", "rowKey or productId is required")
	}
	return userID, identity.RowKey(productID, ref.Size, ref.Color), nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
