package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mustt-clothing/storefront/pkg/db"
	"github.com/mustt-clothing/storefront/pkg/db/models"
	dbtypes "github.com/mustt-clothing/storefront/pkg/db/types"
	"github.com/mustt-clothing/storefront/pkg/enums"
	"github.com/mustt-clothing/storefront/pkg/logger"
)

func setupOutboxTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())))
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.OutboxEvent{}))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func placedEvent(aggregateID uuid.UUID) DomainEvent {
	return DomainEvent{
		EventType:     enums.EventOrderPlaced,
		AggregateType: enums.AggregateOrder,
		AggregateID:   aggregateID,
		Key:           "cs_test_1",
		Actor:         &ActorRef{UserID: "u1", Role: "shopper"},
		Data:          map[string]any{"orderId": aggregateID.String()},
	}
}

func TestEmitStoresEnvelope(t *testing.T) {
	conn := setupOutboxTestDB(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo, logger.Nop())
	require.NoError(t, err)
	fixed := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	orderID := uuid.New()
	err = db.NewFromConn(conn).WithTx(context.Background(), func(tx *gorm.DB) error {
		return svc.Emit(context.Background(), tx, placedEvent(orderID))
	})
	require.NoError(t, err)

	rows, err := repo.FindByAggregate(context.Background(), orderID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, enums.EventOrderPlaced, rows[0].EventType)
	require.Nil(t, rows[0].PublishedAt)

	env, err := DecodeEnvelope(rows[0].Payload.Data)
	require.NoError(t, err)
	require.Equal(t, 1, env.Version)
	require.Equal(t, "order.placed", env.Type)
	require.Equal(t, "cs_test_1", env.Key)
	require.True(t, env.OccurredAt.Equal(fixed))
	require.NotEmpty(t, env.EventID)
	require.Equal(t, "u1", env.Actor.UserID)
	require.JSONEq(t, fmt.Sprintf(`{"orderId":%q}`, orderID.String()), string(env.Data))
}

func TestEmitIsDiscardedOnRollback(t *testing.T) {
	conn := setupOutboxTestDB(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo, nil)
	require.NoError(t, err)

	orderID := uuid.New()
	boom := errors.New("order insert failed")
	err = db.NewFromConn(conn).WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := svc.Emit(context.Background(), tx, placedEvent(orderID)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	rows, err := repo.FindByAggregate(context.Background(), orderID)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestEmitRejectsUnknownTypesAndMissingTx(t *testing.T) {
	svc, err := NewService(NewRepository(setupOutboxTestDB(t)), nil)
	require.NoError(t, err)

	require.Error(t, svc.Emit(context.Background(), nil, placedEvent(uuid.New())))

	conn := setupOutboxTestDB(t)
	evt := placedEvent(uuid.New())
	evt.EventType = "order.shipped"
	require.Error(t, svc.Emit(context.Background(), conn, evt))

	evt = placedEvent(uuid.New())
	evt.AggregateType = "cart"
	require.Error(t, svc.Emit(context.Background(), conn, evt))

	_, err = NewService(nil, nil)
	require.Error(t, err)
}

func TestRepositoryPublishLifecycle(t *testing.T) {
	conn := setupOutboxTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	rows := make([]*models.OutboxEvent, 3)
	for i := range rows {
		rows[i] = &models.OutboxEvent{
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateOrder,
			AggregateID:   uuid.New(),
			Payload:       dbtypes.NewJSON(json.RawMessage(`{}`)),
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Insert(conn, rows[i]))
	}
	require.Error(t, repo.Insert(nil, rows[0]))

	pending, err := repo.FetchUnpublished(ctx, 10, 3)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	require.Equal(t, rows[0].ID, pending[0].ID)

	require.NoError(t, repo.MarkPublished(ctx, rows[0].ID))
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.MarkFailed(ctx, rows[1].ID, errors.New("unavailable")))
	}

	pending, err = repo.FetchUnpublished(ctx, 10, 3)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, rows[2].ID, pending[0].ID)

	// no attempt cap
	pending, err = repo.FetchUnpublished(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, 3, pending[0].AttemptCount)
	require.Equal(t, "unavailable", *pending[0].LastError)

	deleted, err := repo.DeletePublishedBefore(ctx, nil, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)

	deleted, err = repo.DeletePublishedBefore(ctx, conn, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 0, deleted)
}

func TestTopicRegistry(t *testing.T) {
	reg := NewTopicRegistry()
	_, err := reg.Resolve(enums.EventOrderPlaced)
	require.Error(t, err)

	reg.Register(enums.EventOrderPlaced, "mustt-orders")
	topic, err := reg.Resolve(enums.EventOrderPlaced)
	require.NoError(t, err)
	require.Equal(t, "mustt-orders", topic)
}
