package controllers

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mustt-clothing/storefront/api/middleware"
	"github.com/mustt-clothing/storefront/api/responses"
	"github.com/mustt-clothing/storefront/api/validators"
	"github.com/mustt-clothing/storefront/internal/cart"
	"github.com/mustt-clothing/storefront/pkg/db/models"
	pkgerrors "github.com/mustt-clothing/storefront/pkg/errors"
	"github.com/mustt-clothing/storefront/pkg/logger"
)

type cartService interface {
	AddSelection(ctx context.Context, userID string, input cart.SelectionInput) (*models.CartLine, error)
	UpdateQuantity(ctx context.Context, userID string, ref cart.LineRef, quantity int) (*models.CartLine, error)
	Remove(ctx context.Context, userID string, ref cart.LineRef) error
	Clear(ctx context.Context, userID string) (int64, error)
	Get(ctx context.Context, userID string) (*cart.View, error)
}

type quantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type selectionQuantityRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	Size      *string `json:"size"`
	Color     *string `json:"color"`
	Quantity  *int    `json:"quantity" validate:"required"`
}

func CartGet(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireShopper(w, r, svc, logg)
		if !ok {
			return
		}
		view, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartAddItem resolves the selection against the catalog and upserts the line.
func CartAddItem(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireShopper(w, r, svc, logg)
		if !ok {
			return
		}
		var input cart.SelectionInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		line, err := svc.AddSelection(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, line)
	}
}

// CartUpdateItem sets the quantity of the line addressed by the rowKey path param.
func CartUpdateItem(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireShopper(w, r, svc, logg)
		if !ok {
			return
		}
		rowKey, err := rowKeyParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload quantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		line, err := svc.UpdateQuantity(r.Context(), userID, cart.LineRef{RowKey: rowKey}, *payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, line)
	}
}

// CartUpdateSelection sets the quantity of the line addressed by (productId, size, color).
func CartUpdateSelection(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireShopper(w, r, svc, logg)
		if !ok {
			return
		}
		var payload selectionQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ref := cart.LineRef{ProductID: payload.ProductID, Size: payload.Size, Color: payload.Color}
		line, err := svc.UpdateQuantity(r.Context(), userID, ref, *payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, line)
	}
}

func CartRemoveItem(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireShopper(w, r, svc, logg)
		if !ok {
			return
		}
		rowKey, err := rowKeyParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Remove(r.Context(), userID, cart.LineRef{RowKey: rowKey}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"removed": true, "rowKey": rowKey})
	}
}

// CartRemoveSelection removes the line named by the productId, size and color query params.
func CartRemoveSelection(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireShopper(w, r, svc, logg)
		if !ok {
			return
		}
		q := r.URL.Query()
		ref := cart.LineRef{
			ProductID: strings.TrimSpace(q.Get("productId")),
			Size:      optionalQuery(q, "size"),
			Color:     optionalQuery(q, "color"),
		}
		if ref.ProductID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Validation("productId", "is required"))
			return
		}
		if err := svc.Remove(r.Context(), userID, ref); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"removed": true})
	}
}

func CartClear(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireShopper(w, r, svc, logg)
		if !ok {
			return
		}
		removed, err := svc.Clear(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"removed": removed})
	}
}

func requireShopper(w http.ResponseWriter, r *http.Request, svc cartService, logg *logger.Logger) (string, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
		return "", false
	}
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context"))
		return "", false
	}
	return userID, true
}

func rowKeyParam(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "rowKey")
	rowKey, err := url.PathUnescape(raw)
	if err != nil {
		return "", pkgerrors.Validation("rowKey", "is not a valid path segment")
	}
	rowKey = strings.TrimSpace(rowKey)
	if rowKey == "" {
		return "", pkgerrors.Validation("rowKey", "is required")
	}
	return rowKey, nil
}

func optionalQuery(q url.Values, key string) *string {
	if !q.Has(key) {
		return nil
	}
	v := q.Get(key)
	return &v
}
