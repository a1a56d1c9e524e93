package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inErrors "github.com/Alturino/fooddelivery/internal/errors"
	"github.com/Alturino/fooddelivery/internal/repository"
	"github.com/Alturino/fooddelivery/internal/testutil"
)

func setup(t *testing.T) (context.Context, *pgxpool.Pool, *CartService) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container backed test in short mode")
	}
	c := context.Background()
	pool := testutil.StartPostgres(t, c)
	return c, pool, NewCartService(pool, repository.New(pool))
}

func quantities(t *testing.T, c context.Context, svc *CartService, userId uuid.UUID) map[int64]int32 {
	t.Helper()
	items, err := svc.ListCart(c, userId)
	require.NoError(t, err)
	actual := map[int64]int32{}
	for _, item := range items {
		actual[item.ItemID] = item.Quantity
	}
	return actual
}

func TestCartService(t *testing.T) {
	c, pool, svc := setup(t)

	t.Run("given repeated calls should return the same cart", func(t *testing.T) {
		first, err := svc.GetOrCreateCart(c, testutil.Alice)
		require.NoError(t, err)
		second, err := svc.GetOrCreateCart(c, testutil.Alice)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		var count int
		require.NoError(t, pool.QueryRow(c, "SELECT count(*) FROM carts WHERE user_id = $1", testutil.Alice).Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("given user without cart should list empty cart", func(t *testing.T) {
		items, err := svc.ListCart(c, testutil.Bob)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("given duplicate ids in one call should equal separate calls", func(t *testing.T) {
		_, err := pool.Exec(c, "DELETE FROM cart_items")
		require.NoError(t, err)

		require.NoError(t, svc.MergeAdd(c, testutil.Alice, []int64{testutil.ItemCarbonara, testutil.ItemGarlicBread, testutil.ItemCarbonara}))
		require.NoError(t, svc.MergeAdd(c, testutil.Bob, []int64{testutil.ItemCarbonara}))
		require.NoError(t, svc.MergeAdd(c, testutil.Bob, []int64{testutil.ItemGarlicBread}))
		require.NoError(t, svc.MergeAdd(c, testutil.Bob, []int64{testutil.ItemCarbonara}))

		expected := map[int64]int32{testutil.ItemCarbonara: 2, testutil.ItemGarlicBread: 1}
		assert.Equal(t, expected, quantities(t, c, svc, testutil.Alice))
		assert.Equal(t, expected, quantities(t, c, svc, testutil.Bob))
	})

	t.Run("given list cart should carry catalog details", func(t *testing.T) {
		items, err := svc.ListCart(c, testutil.Alice)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, testutil.ItemCarbonara, items[0].ItemID)
		assert.Equal(t, "Spaghetti Carbonara", items[0].Name)
		assert.Equal(t, "12.99", items[0].Price.StringFixed(2))
		assert.NotEmpty(t, items[0].ImageUrl)
	})

	t.Run("given unknown item should return bad request and add nothing", func(t *testing.T) {
		before := quantities(t, c, svc, testutil.Alice)
		err := svc.MergeAdd(c, testutil.Alice, []int64{testutil.ItemTiramisu, 9999})
		assert.ErrorIs(t, err, inErrors.ErrBadRequest)
		assert.Equal(t, before, quantities(t, c, svc, testutil.Alice))
	})

	t.Run("given decrement should floor at zero by deleting the line", func(t *testing.T) {
		_, err := pool.Exec(c, "DELETE FROM cart_items")
		require.NoError(t, err)
		require.NoError(t, svc.MergeAdd(c, testutil.Alice, []int64{testutil.ItemTiramisu, testutil.ItemTiramisu}))

		require.NoError(t, svc.Decrement(c, testutil.Alice, testutil.ItemTiramisu))
		assert.Equal(t, map[int64]int32{testutil.ItemTiramisu: 1}, quantities(t, c, svc, testutil.Alice))

		require.NoError(t, svc.Decrement(c, testutil.Alice, testutil.ItemTiramisu))
		assert.Empty(t, quantities(t, c, svc, testutil.Alice))

		var count int
		require.NoError(t, pool.QueryRow(c, "SELECT count(*) FROM cart_items WHERE quantity <= 0").Scan(&count))
		assert.Zero(t, count)
	})

	t.Run("given absent line should be a no-op", func(t *testing.T) {
		require.NoError(t, svc.MergeAdd(c, testutil.Alice, []int64{testutil.ItemGarlicBread}))
		require.NoError(t, svc.Decrement(c, testutil.Alice, testutil.ItemSalmonNigiri))
		assert.Equal(t, map[int64]int32{testutil.ItemGarlicBread: 1}, quantities(t, c, svc, testutil.Alice))
	})

	t.Run("given user without cart should decrement as no-op", func(t *testing.T) {
		stranger := uuid.New()
		assert.NoError(t, svc.Decrement(c, stranger, testutil.ItemGarlicBread))
	})
}

func TestCartServiceConcurrentAdds(t *testing.T) {
	c, pool, svc := setup(t)

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- svc.MergeAdd(c, testutil.Bob, []int64{testutil.ItemSalmonNigiri})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, map[int64]int32{testutil.ItemSalmonNigiri: n}, quantities(t, c, svc, testutil.Bob))

	var carts int
	require.NoError(t, pool.QueryRow(c, "SELECT count(*) FROM carts WHERE user_id = $1", testutil.Bob).Scan(&carts))
	assert.Equal(t, 1, carts)
}
