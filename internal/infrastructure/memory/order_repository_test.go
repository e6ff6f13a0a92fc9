package memory

import (
	"context"
	"testing"
	"time"

	domain "github.com/campusbazaar/marketplace/internal/domain/order"
	"github.com/stretchr/testify/require"
)

func TestOrderRepositoryInsert(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()

	first, err := repo.Insert(ctx, "a@x.com", time.Now().UTC())
	require.NoError(t, err)
	second, err := repo.Insert(ctx, "a@x.com", time.Now().UTC())
	require.NoError(t, err)

	require.Equal(t, int64(1), first.ID)
	require.Equal(t, int64(2), second.ID)

	_, err = repo.Insert(ctx, "", time.Now().UTC())
	require.ErrorIs(t, err, domain.ErrInvalidBuyer)
}

func TestOrderRepositoryListByBuyer(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()

	day := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	_, err := repo.Insert(ctx, "a@x.com", day.Add(-48*time.Hour))
	require.NoError(t, err)
	// Same timestamp: newer id wins the tiebreak.
	_, err = repo.Insert(ctx, "a@x.com", day)
	require.NoError(t, err)
	_, err = repo.Insert(ctx, "a@x.com", day)
	require.NoError(t, err)
	_, err = repo.Insert(ctx, "b@x.com", day)
	require.NoError(t, err)

	orders, err := repo.ListByBuyer(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, orders, 3)
	require.Equal(t, int64(3), orders[0].ID)
	require.Equal(t, int64(2), orders[1].ID)
	require.Equal(t, int64(1), orders[2].ID)
}

func TestOrderRepositoryLines(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()

	order, err := repo.Insert(ctx, "a@x.com", time.Now().UTC())
	require.NoError(t, err)

	err = repo.AddLine(ctx, domain.Line{OrderID: 99, ProductID: "PROD1", Quantity: 1})
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.AddLine(ctx, domain.Line{OrderID: order.ID, ProductID: "PROD1", Quantity: 2}))
	require.NoError(t, repo.AddLine(ctx, domain.Line{OrderID: order.ID, ProductID: "PROD2", Quantity: 1}))

	lines, err := repo.Lines(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	has, err := repo.ProductHasOrders(ctx, "PROD1")
	require.NoError(t, err)
	require.True(t, has)

	has, err = repo.ProductHasOrders(ctx, "PROD3")
	require.NoError(t, err)
	require.False(t, has)
}
