package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inErrors "github.com/Alturino/fooddelivery/internal/errors"
	"github.com/Alturino/fooddelivery/internal/repository"
	"github.com/Alturino/fooddelivery/internal/testutil"
)

func insertOrder(t *testing.T, c context.Context, pool *pgxpool.Pool, userId uuid.UUID, createdAt time.Time) int64 {
	t.Helper()
	var orderId int64
	err := pool.QueryRow(
		c,
		`INSERT INTO orders (user_id, restaurant_id, total_price, created_at)
		VALUES ($1, $2, 26.68, $3) RETURNING id`,
		userId,
		testutil.RestaurantPasta,
		createdAt,
	).Scan(&orderId)
	require.NoError(t, err)
	_, err = pool.Exec(
		c,
		`INSERT INTO order_items (order_id, item_id, quantity, price)
		VALUES ($1, $2, 2, 12.99), ($1, $3, 1, 0.10), ($1, $4, 3, 0.20)`,
		orderId,
		testutil.ItemCarbonara,
		testutil.ItemGarlicBread,
		testutil.ItemTiramisu,
	)
	require.NoError(t, err)
	return orderId
}

func TestTrackingService(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container backed test in short mode")
	}

	c := context.Background()
	pool := testutil.StartPostgres(t, c)

	createdAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	now := createdAt.Add(20 * time.Minute)
	svc := NewTrackingService(repository.New(pool), WithClock(func() time.Time { return now }))

	first := insertOrder(t, c, pool, testutil.Alice, createdAt)
	second := insertOrder(t, c, pool, testutil.Alice, createdAt)
	foreign := insertOrder(t, c, pool, testutil.Bob, createdAt)

	t.Run("should list own orders newest first", func(t *testing.T) {
		orders, err := svc.ListOrders(c, testutil.Alice)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, second, orders[0].ID)
		assert.Equal(t, first, orders[1].ID)
		assert.Equal(t, "Pasta Palace", orders[0].RestaurantName)
		assert.Equal(t, "Pending", orders[0].Status)
		assert.Equal(t, "26.68", orders[0].TotalPrice.StringFixed(2))
	})

	t.Run("given user without orders should list empty", func(t *testing.T) {
		orders, err := svc.ListOrders(c, uuid.New())
		require.NoError(t, err)
		assert.NotNil(t, orders)
		assert.Empty(t, orders)
	})

	t.Run("should return order detail with snapshot prices", func(t *testing.T) {
		order, err := svc.GetOrder(c, testutil.Alice, first)
		require.NoError(t, err)
		assert.Equal(t, first, order.ID)
		require.Len(t, order.Items, 3)
		assert.Equal(t, "Spaghetti Carbonara", order.Items[0].Name)
		assert.Equal(t, int32(2), order.Items[0].Quantity)
		assert.Equal(t, "12.99", order.Items[0].Price.StringFixed(2))
	})

	t.Run("given order of another user should return not found", func(t *testing.T) {
		_, err := svc.GetOrder(c, testutil.Alice, foreign)
		assert.ErrorIs(t, err, inErrors.ErrNotFound)
	})

	t.Run("given unknown order should return not found", func(t *testing.T) {
		_, err := svc.GetOrder(c, testutil.Alice, 9999)
		assert.ErrorIs(t, err, inErrors.ErrNotFound)
	})

	t.Run("given twenty minutes elapsed should return ten minutes left", func(t *testing.T) {
		timeLeft, err := svc.TimeLeft(c, first)
		require.NoError(t, err)
		assert.Equal(t, "10m 0s", timeLeft)
	})

	t.Run("given elapsed window should return zero", func(t *testing.T) {
		late := NewTrackingService(repository.New(pool), WithClock(func() time.Time { return createdAt.Add(31 * time.Minute) }))
		timeLeft, err := late.TimeLeft(c, first)
		require.NoError(t, err)
		assert.Equal(t, "0m 0s", timeLeft)
	})

	t.Run("given unknown order should return not found for time left", func(t *testing.T) {
		_, err := svc.TimeLeft(c, 9999)
		assert.ErrorIs(t, err, inErrors.ErrNotFound)
	})
}
