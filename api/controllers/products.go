package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mustt-clothing/storefront/api/responses"
	"github.com/mustt-clothing/storefront/api/validators"
	"github.com/mustt-clothing/storefront/internal/catalog"
	pkgerrors "github.com/mustt-clothing/storefront/pkg/errors"
	"github.com/mustt-clothing/storefront/pkg/logger"
)

type storefrontCatalog interface {
	ListVisible(ctx context.Context, query catalog.ListQuery) (*catalog.ProductListResult, error)
	GetVisibleBySlug(ctx context.Context, slug string) (*catalog.ProductDTO, error)
}

// StorefrontProductList lists visible products, filtered by collection and style slugs.
func StorefrontProductList(svc storefrontCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		query, err := parseListQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.ListVisible(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func StorefrontProductBySlug(svc storefrontCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Validation("slug", "is required"))
			return
		}
		product, err := svc.GetVisibleBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func parseListQuery(r *http.Request) (catalog.ListQuery, error) {
	page, err := validators.ParsePagination(r)
	if err != nil {
		return catalog.ListQuery{}, err
	}
	q := r.URL.Query()
	return catalog.ListQuery{
		CollectionSlug: validators.SanitizeString(q.Get("collection"), 120),
		StyleSlug:      validators.SanitizeString(q.Get("style"), 120),
		Search:         validators.SanitizeString(q.Get("q"), 120),
		Pagination:     page,
	}, nil
}
