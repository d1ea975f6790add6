package cart

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mustt-clothing/storefront/pkg/db"
	"github.com/mustt-clothing/storefront/pkg/db/models"
)

func TestRepositoryUpsertIncrementsExistingLine(t *testing.T) {
	repo := NewRepository(newTestClient(t).DB())

	first := &models.CartLine{UserID: "u1", RowKey: "p1__m__black", ProductID: "p1", ProductTitle: "Old", UnitPrice: dec("10"), Quantity: 2}
	require.NoError(t, repo.Upsert(ctx(), first))

	second := &models.CartLine{UserID: "u1", RowKey: "p1__m__black", ProductID: "p1", ProductTitle: "New", UnitPrice: dec("12"), Quantity: 3}
	require.NoError(t, repo.Upsert(ctx(), second))

	lines, err := repo.ListByUser(ctx(), "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, 5, lines[0].Quantity)
	require.Equal(t, "New", lines[0].ProductTitle)
	require.True(t, lines[0].UnitPrice.Equal(dec("12")))
	require.Equal(t, first.ID, lines[0].ID)
}

func TestRepositoryScopesByUser(t *testing.T) {
	repo := NewRepository(newTestClient(t).DB())
	require.NoError(t, repo.Upsert(ctx(), &models.CartLine{UserID: "u1", RowKey: "k", ProductID: "p", ProductTitle: "t", Quantity: 1}))
	require.NoError(t, repo.Upsert(ctx(), &models.CartLine{UserID: "u2", RowKey: "k", ProductID: "p", ProductTitle: "t", Quantity: 4}))

	matched, err := repo.SetQuantity(ctx(), "u1", "k", 9)
	require.NoError(t, err)
	require.True(t, matched)

	other, err := repo.FindLine(ctx(), "u2", "k")
	require.NoError(t, err)
	require.Equal(t, 4, other.Quantity)

	matched, err = repo.Delete(ctx(), "u3", "k")
	require.NoError(t, err)
	require.False(t, matched)

	removed, err := repo.DeleteAll(ctx(), "u1")
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	_, err = repo.FindLine(ctx(), "u1", "k")
	require.True(t, db.IsNotFound(err))
}
