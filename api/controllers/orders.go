package controllers

import (
	"context"
	"net/http"

	"github.com/mustt-clothing/storefront/api/middleware"
	"github.com/mustt-clothing/storefront/api/responses"
	"github.com/mustt-clothing/storefront/api/validators"
	"github.com/mustt-clothing/storefront/internal/orders"
	pkgerrors "github.com/mustt-clothing/storefront/pkg/errors"
	"github.com/mustt-clothing/storefront/pkg/logger"
	"github.com/mustt-clothing/storefront/pkg/pagination"
)

type orderHistory interface {
	ListForUser(ctx context.Context, userID string, params pagination.Params) (*orders.OrderList, error)
}

// OrderHistory returns the shopper's placed orders, newest first.
func OrderHistory(svc orderHistory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context"))
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListForUser(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
