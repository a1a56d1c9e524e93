package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/fooddelivery/internal/constants"
	inErrors "github.com/Alturino/fooddelivery/internal/errors"
	"github.com/Alturino/fooddelivery/internal/repository"
	"github.com/Alturino/fooddelivery/internal/testutil"
	"github.com/Alturino/fooddelivery/order/pkg/event"
	"github.com/Alturino/fooddelivery/order/pkg/response"
)

type line struct {
	itemId   int64
	quantity int
}

func setup(t *testing.T) (context.Context, *pgxpool.Pool, *redis.Client, *OrderService) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container backed test in short mode")
	}
	c := context.Background()
	pool := testutil.StartPostgres(t, c)
	cache := testutil.StartRedis(t, c)
	return c, pool, cache, NewOrderService(pool, repository.New(pool), cache)
}

func fillCart(t *testing.T, c context.Context, pool *pgxpool.Pool, userId uuid.UUID, lines ...line) {
	t.Helper()
	_, err := pool.Exec(c, "DELETE FROM cart_items WHERE cart_id IN (SELECT id FROM carts WHERE user_id = $1)", userId)
	require.NoError(t, err)
	cartId, err := repository.New(pool).UpsertCart(c, userId)
	require.NoError(t, err)
	for _, l := range lines {
		_, err = pool.Exec(c, "INSERT INTO cart_items (cart_id, item_id, quantity) VALUES ($1, $2, $3)", cartId, l.itemId, l.quantity)
		require.NoError(t, err)
	}
}

func count(t *testing.T, c context.Context, pool *pgxpool.Pool, sql string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(c, sql, args...).Scan(&n))
	return n
}

func TestPlaceOrder(t *testing.T) {
	c, pool, cache, svc := setup(t)

	t.Run("given user without cart should return empty cart and create nothing", func(t *testing.T) {
		_, err := svc.PlaceOrder(c, testutil.Bob)
		assert.ErrorIs(t, err, inErrors.ErrEmptyCart)
		assert.Zero(t, count(t, c, pool, "SELECT count(*) FROM orders"))
	})

	t.Run("given empty cart should return empty cart and create nothing", func(t *testing.T) {
		fillCart(t, c, pool, testutil.Alice)
		_, err := svc.PlaceOrder(c, testutil.Alice)
		assert.ErrorIs(t, err, inErrors.ErrEmptyCart)
		assert.Zero(t, count(t, c, pool, "SELECT count(*) FROM orders"))
		assert.Zero(t, count(t, c, pool, "SELECT count(*) FROM order_items"))
	})

	t.Run("given items from two restaurants should reject and keep cart", func(t *testing.T) {
		fillCart(t, c, pool, testutil.Alice, line{testutil.ItemCarbonara, 1}, line{testutil.ItemSalmonNigiri, 2})
		_, err := svc.PlaceOrder(c, testutil.Alice)
		assert.ErrorIs(t, err, inErrors.ErrMixedRestaurants)
		assert.Zero(t, count(t, c, pool, "SELECT count(*) FROM orders"))
		assert.Equal(t, 2, count(t, c, pool, "SELECT count(*) FROM cart_items"))
	})

	t.Run("given cart should place order atomically with exact total", func(t *testing.T) {
		fillCart(
			t, c, pool, testutil.Alice,
			line{testutil.ItemCarbonara, 2},
			line{testutil.ItemGarlicBread, 1},
			line{testutil.ItemTiramisu, 3},
		)

		sub := cache.Subscribe(c, constants.ChannelOrderPlaced)
		defer sub.Close()
		_, err := sub.Receive(c)
		require.NoError(t, err)

		order, err := svc.PlaceOrder(c, testutil.Alice)
		require.NoError(t, err)

		assert.Equal(t, testutil.Alice, order.UserID)
		assert.Equal(t, testutil.RestaurantPasta, order.RestaurantID)
		assert.Equal(t, "Pending", order.Status)
		assert.Equal(t, "26.68", order.TotalPrice.StringFixed(2))
		assert.WithinDuration(t, time.Now(), order.CreatedAt, time.Minute)

		assert.Equal(t, 3, count(t, c, pool, "SELECT count(*) FROM order_items WHERE order_id = $1", order.ID))
		var snapshotTotal decimal.Decimal
		require.NoError(t, pool.QueryRow(
			c,
			"SELECT sum(quantity * price)::text FROM order_items WHERE order_id = $1",
			order.ID,
		).Scan(&snapshotTotal))
		assert.True(t, snapshotTotal.Equal(order.TotalPrice))

		assert.Zero(t, count(t, c, pool, "SELECT count(*) FROM cart_items"))
		assert.Equal(t, 1, count(t, c, pool, "SELECT count(*) FROM carts WHERE user_id = $1", testutil.Alice))

		select {
		case msg := <-sub.Channel():
			placed := event.OrderPlaced{}
			require.NoError(t, json.Unmarshal([]byte(msg.Payload), &placed))
			assert.Equal(t, order.ID, placed.OrderID)
			assert.Equal(t, testutil.Alice, placed.UserID)
			assert.True(t, order.TotalPrice.Equal(placed.TotalPrice))
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for order placed event")
		}
	})

	t.Run("given cheap items should sum without float drift", func(t *testing.T) {
		fillCart(t, c, pool, testutil.Bob, line{testutil.ItemGarlicBread, 3}, line{testutil.ItemTiramisu, 1})
		order, err := svc.PlaceOrder(c, testutil.Bob)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("0.50").Equal(order.TotalPrice))
	})

	t.Run("given later price change should keep order snapshot", func(t *testing.T) {
		fillCart(t, c, pool, testutil.Bob, line{testutil.ItemSalmonNigiri, 2})
		order, err := svc.PlaceOrder(c, testutil.Bob)
		require.NoError(t, err)

		_, err = pool.Exec(c, "UPDATE items SET price = 99.99 WHERE id = $1", testutil.ItemSalmonNigiri)
		require.NoError(t, err)

		var total, price decimal.Decimal
		require.NoError(t, pool.QueryRow(c, "SELECT total_price::text FROM orders WHERE id = $1", order.ID).Scan(&total))
		require.NoError(t, pool.QueryRow(c, "SELECT price::text FROM order_items WHERE order_id = $1", order.ID).Scan(&price))
		assert.Equal(t, "14.90", total.StringFixed(2))
		assert.Equal(t, "7.45", price.StringFixed(2))
	})
}

func TestPlaceOrderConcurrentCheckout(t *testing.T) {
	c, pool, _, svc := setup(t)
	fillCart(t, c, pool, testutil.Alice, line{testutil.ItemCarbonara, 1})

	const n = 4
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.PlaceOrder(c, testutil.Alice)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	placed := 0
	for err := range errs {
		if err == nil {
			placed++
			continue
		}
		assert.ErrorIs(t, err, inErrors.ErrEmptyCart)
	}
	assert.Equal(t, 1, placed)
	assert.Equal(t, 1, count(t, c, pool, "SELECT count(*) FROM orders WHERE user_id = $1", testutil.Alice))
}

// addOne runs the cart add path: upsert the cart under its row lock, then
// increment the line, in one transaction.
func addOne(c context.Context, pool *pgxpool.Pool, userId uuid.UUID, itemId int64) error {
	tx, err := pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err := tx.Rollback(c); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			panic(err)
		}
	}()
	queries := repository.New(pool).WithTx(tx)
	cartId, err := queries.UpsertCart(c, userId)
	if err != nil {
		return err
	}
	if _, err = queries.IncrementCartItem(c, repository.IncrementCartItemParams{CartID: cartId, ItemID: itemId}); err != nil {
		return err
	}
	return tx.Commit(c)
}

func TestPlaceOrderConcurrentAdds(t *testing.T) {
	c, pool, _, svc := setup(t)
	const start, adds = 2, 8
	fillCart(t, c, pool, testutil.Alice, line{testutil.ItemCarbonara, start})

	var wg sync.WaitGroup
	ready := make(chan struct{})
	addErrs := make(chan error, adds)
	var order response.PlacedOrder
	var orderErr error

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ready
		order, orderErr = svc.PlaceOrder(c, testutil.Alice)
	}()
	for range adds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-ready
			addErrs <- addOne(c, pool, testutil.Alice, testutil.ItemCarbonara)
		}()
	}
	close(ready)
	wg.Wait()
	close(addErrs)

	require.NoError(t, orderErr)
	for err := range addErrs {
		require.NoError(t, err)
	}

	ordered := count(t, c, pool, "SELECT coalesce(sum(quantity), 0) FROM order_items WHERE order_id = $1", order.ID)
	remaining := count(
		t, c, pool,
		"SELECT coalesce(sum(ci.quantity), 0) FROM cart_items ci JOIN carts ca ON ca.id = ci.cart_id WHERE ca.user_id = $1",
		testutil.Alice,
	)
	assert.GreaterOrEqual(t, ordered, start)
	assert.Equal(t, start+adds, ordered+remaining)

	price := decimal.RequireFromString("12.99")
	assert.True(t, price.Mul(decimal.NewFromInt(int64(ordered))).Equal(order.TotalPrice))
	assert.Equal(t, 1, count(t, c, pool, "SELECT count(*) FROM orders WHERE user_id = $1", testutil.Alice))
}

func TestPlaceOrderRollsBackLateFailure(t *testing.T) {
	c, pool, _, svc := setup(t)

	_, err := pool.Exec(c, `
		CREATE FUNCTION reject_write() RETURNS trigger LANGUAGE plpgsql AS $$
		BEGIN
			RAISE EXCEPTION 'write rejected';
		END
		$$`)
	require.NoError(t, err)

	tests := []struct {
		name    string
		trigger string
	}{
		{
			name:    "given order items insert failing should leave no order and keep cart",
			trigger: "CREATE TRIGGER reject_write BEFORE INSERT ON order_items FOR EACH ROW EXECUTE FUNCTION reject_write()",
		},
		{
			name:    "given cart clearing failing should leave no order and keep cart",
			trigger: "CREATE TRIGGER reject_write BEFORE DELETE ON cart_items FOR EACH ROW EXECUTE FUNCTION reject_write()",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fillCart(t, c, pool, testutil.Alice, line{testutil.ItemCarbonara, 2}, line{testutil.ItemTiramisu, 1})
			_, err := pool.Exec(c, tt.trigger)
			require.NoError(t, err)
			defer func() {
				_, err := pool.Exec(c, "DROP TRIGGER IF EXISTS reject_write ON order_items; DROP TRIGGER IF EXISTS reject_write ON cart_items")
				require.NoError(t, err)
			}()

			_, err = svc.PlaceOrder(c, testutil.Alice)
			assert.ErrorIs(t, err, inErrors.ErrStoreUnavailable)

			assert.Zero(t, count(t, c, pool, "SELECT count(*) FROM orders"))
			assert.Zero(t, count(t, c, pool, "SELECT count(*) FROM order_items"))
			assert.Equal(t, 2, count(t, c, pool, "SELECT quantity FROM cart_items WHERE item_id = $1", testutil.ItemCarbonara))
			assert.Equal(t, 1, count(t, c, pool, "SELECT quantity FROM cart_items WHERE item_id = $1", testutil.ItemTiramisu))
		})
	}

	t.Run("given writes allowed again should place order from kept cart", func(t *testing.T) {
		order, err := svc.PlaceOrder(c, testutil.Alice)
		require.NoError(t, err)
		assert.Equal(t, 3, count(t, c, pool, "SELECT sum(quantity) FROM order_items WHERE order_id = $1", order.ID))
	})
}

func TestPublishOrderPlacedOutlivesCaller(t *testing.T) {
	c, _, cache, svc := setup(t)

	sub := cache.Subscribe(c, constants.ChannelOrderPlaced)
	defer sub.Close()
	_, err := sub.Receive(c)
	require.NoError(t, err)

	gone, cancel := context.WithCancel(c)
	cancel()
	placed := response.PlacedOrder{
		ID:           42,
		UserID:       testutil.Alice,
		RestaurantID: testutil.RestaurantPasta,
		TotalPrice:   decimal.RequireFromString("12.99"),
		Status:       "Pending",
		CreatedAt:    time.Now(),
	}
	svc.publishOrderPlaced(gone, placed)

	select {
	case msg := <-sub.Channel():
		got := event.OrderPlaced{}
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, placed.ID, got.OrderID)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for order placed event")
	}
}
