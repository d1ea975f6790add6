package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/mustt-clothing/storefront/pkg/errors"
	"github.com/mustt-clothing/storefront/pkg/pagination"
)

type sampleBody struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

func TestDecodeJSONBody(t *testing.T) {
	var ok sampleBody
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"wrap","quantity":2}`))
	require.NoError(t, DecodeJSONBody(req, &ok))
	require.Equal(t, "wrap", ok.Name)

	var missing sampleBody
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":-1}`))
	err := DecodeJSONBody(req, &missing)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details, isMap := typed.Details().(map[string]string)
	require.True(t, isMap)
	require.Equal(t, "is required", details["name"])
	require.Contains(t, details["quantity"], "greater than or equal")

	var unknown sampleBody
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","extra":true}`))
	require.True(t, pkgerrors.HasCode(DecodeJSONBody(req, &unknown), pkgerrors.CodeValidation))
}

func TestParsePagination(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=5&cursor=abc", nil)
	params, err := ParsePagination(req)
	require.NoError(t, err)
	require.Equal(t, pagination.Params{Limit: 5, Cursor: "abc"}, params)

	req = httptest.NewRequest(http.MethodGet, "/?limit=1000", nil)
	_, err = ParsePagination(req)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	params, err = ParsePagination(req)
	require.NoError(t, err)
	require.Equal(t, pagination.DefaultLimit, params.Limit)
}

func TestParseQueryBool(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?includeHidden=true&bad=maybe", nil)
	v, err := ParseQueryBool(req, "includeHidden", false)
	require.NoError(t, err)
	require.True(t, v)

	_, err = ParseQueryBool(req, "bad", false)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestParseUUIDParam(t *testing.T) {
	id := uuid.New()
	rc := chi.NewRouteContext()
	rc.URLParams.Add("productId", id.String())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))

	got, err := ParseUUIDParam(req, "productId")
	require.NoError(t, err)
	require.Equal(t, id, got)

	_, err = ParseUUIDParam(req, "missing")
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestSanitizeString(t *testing.T) {
	require.Equal(t, "abc", SanitizeString("  abcdef ", 3))
	require.Equal(t, "abc", SanitizeString(" abc ", 0))
	require.Equal(t, "Café", SanitizeString("Café crème", 4))
	require.Equal(t, "クルタ", SanitizeString("クルタドレス", 3))
	require.Equal(t, "ab", SanitizeString("a\xffb", 5))
	require.True(t, utf8.ValidString(SanitizeString("éééé", 3)))
}
