package cart

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"github.com/mustt-clothing/storefront/internal/catalog"
	"github.com/mustt-clothing/storefront/pkg/db"
	"github.com/mustt-clothing/storefront/pkg/db/models"
	"github.com/mustt-clothing/storefront/pkg/logger"
)

func newTestClient(t *testing.T) *db.Client {
	t.Helper()
	conn, err := db.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())))
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	client := db.NewFromConn(conn)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

type stubStock struct {
	selection *catalog.Selection
	err       error
	queries   []catalog.StockQuery
}

func (s *stubStock) CheckStock(_ context.Context, query catalog.StockQuery) (*catalog.Selection, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.selection, nil
}

type recordingMetrics struct {
	ops []string
}

func (r *recordingMetrics) Observe(op, outcome string) {
	r.ops = append(r.ops, op+":"+outcome)
}

func newTestService(t *testing.T) (Service, *Repository, *stubStock, *recordingMetrics) {
	t.Helper()
	repo := NewRepository(newTestClient(t).DB())
	stock := &stubStock{}
	rec := &recordingMetrics{}
	svc, err := NewService(repo, stock, rec, logger.Nop())
	require.NoError(t, err)
	return svc, repo, stock, rec
}

func strPtr(s string) *string { return &s }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ctx() context.Context { return context.Background() }

func wrapInput(userID string) AddInput {
	return AddInput{
		UserID:       userID,
		ProductID:    "p1",
		Size:         strPtr("M"),
		Color:        strPtr("Black"),
		Quantity:     2,
		UnitPrice:    dec("25"),
		ProductTitle: "Cotton Wrap Dress",
		ProductSlug:  "cotton-wrap-dress",
		Category:     "Casual Wears",
		Style:        "Formal",
	}
}
