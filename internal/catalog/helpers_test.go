package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"github.com/mustt-clothing/storefront/internal/identity"
	"github.com/mustt-clothing/storefront/pkg/db"
	"github.com/mustt-clothing/storefront/pkg/db/models"
	dbtypes "github.com/mustt-clothing/storefront/pkg/db/types"
	"github.com/mustt-clothing/storefront/pkg/logger"
	"github.com/mustt-clothing/storefront/pkg/redis"
	"github.com/mustt-clothing/storefront/pkg/types"
)

func newTestClient(t *testing.T) *db.Client {
	t.Helper()
	conn, err := db.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())))
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))
	client := db.NewFromConn(conn)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func newTestService(t *testing.T, cache productCache) (Service, *Repository) {
	t.Helper()
	client := newTestClient(t)
	repo := NewRepository(client.DB())
	svc, err := NewService(repo, client, NewBuilder(identity.NewDeriver("")), cache, time.Minute, logger.Nop())
	require.NoError(t, err)
	return svc, repo
}

func qty(n int) types.FlexInt { return types.FlexInt{Set: true, Value: n} }

func sampleInput() ProductInput {
	return ProductInput{
		Title:          "Cotton Wrap Dress",
		Collection:     "Casual Wears",
		CollectionSlug: "casual-wears",
		Style:          dbtypes.StringList{"Formal"},
		StyleSlug:      "formal",
		BasePrice:      types.FlexDecimal{Set: true, Value: mustDecimal("20")},
		Details: []DetailInput{
			{Key: "Fabric", ValueHTML: "<p>Cotton</p>"},
		},
		Variants: []VariantInput{
			{
				Color:  "Black",
				Images: []ImageInput{{URL: " "}, {URL: "https://cdn.example.com/black.jpg", Alt: "front"}},
				Sizes: []SizeInput{
					{Size: "M", Quantity: qty(10), PriceDelta: types.FlexDecimal{Set: true, Value: mustDecimal("5")}},
					{Size: "L", Quantity: qty(1)},
				},
			},
		},
	}
}

func strPtr(s string) *string { return &s }

func ctx() context.Context { return context.Background() }

// memoryCache satisfies productCache for service tests.
type memoryCache struct {
	data map[string]string
	gets int
}

func newMemoryCache() *memoryCache { return &memoryCache{data: map[string]string{}} }

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	m.gets++
	v, ok := m.data[key]
	if !ok {
		return "", redis.ErrNil
	}
	return v, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *memoryCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryCache) ProductKey(slug string) string { return "product:" + slug }
