package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/fooddelivery/catalog/pkg/response"
	inErrors "github.com/Alturino/fooddelivery/internal/errors"
	"github.com/Alturino/fooddelivery/internal/infra"
	"github.com/Alturino/fooddelivery/internal/repository"
	"github.com/Alturino/fooddelivery/internal/testutil"
)

func TestCatalogService(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container backed test in short mode")
	}

	c := context.Background()
	pool := testutil.StartPostgres(t, c)
	cache := testutil.StartRedis(t, c)
	svc := NewCatalogService(repository.New(pool), cache)

	t.Run("given seeded item should return it and cache it", func(t *testing.T) {
		item, err := svc.LookupItem(c, testutil.ItemCarbonara)
		require.NoError(t, err)
		assert.Equal(t, "Spaghetti Carbonara", item.Name)
		assert.Equal(t, testutil.RestaurantPasta, item.RestaurantID)
		assert.True(t, decimal.RequireFromString("12.99").Equal(item.Price))

		cached, err := cache.Get(c, fmt.Sprintf(keyItem, testutil.ItemCarbonara)).Bytes()
		require.NoError(t, err)
		actual := response.Item{}
		require.NoError(t, json.Unmarshal(cached, &actual))
		assert.Equal(t, item.Name, actual.Name)
		assert.True(t, item.Price.Equal(actual.Price))
	})

	t.Run("given cached item should answer from cache", func(t *testing.T) {
		stale, err := json.Marshal(response.Item{ID: testutil.ItemTiramisu, Name: "cached tiramisu"})
		require.NoError(t, err)
		require.NoError(t, cache.Set(c, fmt.Sprintf(keyItem, testutil.ItemTiramisu), stale, itemTTL).Err())

		item, err := svc.LookupItem(c, testutil.ItemTiramisu)
		require.NoError(t, err)
		assert.Equal(t, "cached tiramisu", item.Name)
	})

	t.Run("given unknown item should return not found", func(t *testing.T) {
		_, err := svc.LookupItem(c, 9999)
		assert.ErrorIs(t, err, inErrors.ErrNotFound)
	})

	t.Run("should list restaurants in id order", func(t *testing.T) {
		restaurants, err := svc.ListRestaurants(c)
		require.NoError(t, err)
		require.Len(t, restaurants, 2)
		assert.Equal(t, "Pasta Palace", restaurants[0].Name)
		assert.Equal(t, "Sushi Corner", restaurants[1].Name)
	})

	t.Run("should list the menu of one restaurant", func(t *testing.T) {
		items, err := svc.ListMenu(c, testutil.RestaurantPasta)
		require.NoError(t, err)
		require.Len(t, items, 3)
		for _, item := range items {
			assert.Equal(t, testutil.RestaurantPasta, item.RestaurantID)
		}
	})

	t.Run("given unknown restaurant should return empty menu", func(t *testing.T) {
		items, err := svc.ListMenu(c, 9999)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("given unreachable database should return store unavailable", func(t *testing.T) {
		closed, err := infra.NewPool(c, pool.Config().ConnString(), 1, 0)
		require.NoError(t, err)
		closed.Close()
		broken := NewCatalogService(repository.New(closed), cache)

		_, err = broken.LookupItem(c, testutil.ItemSalmonNigiri)
		assert.ErrorIs(t, err, inErrors.ErrStoreUnavailable)
		assert.NotErrorIs(t, err, inErrors.ErrNotFound)

		_, err = broken.ListRestaurants(c)
		assert.ErrorIs(t, err, inErrors.ErrStoreUnavailable)

		_, err = broken.ListMenu(c, testutil.RestaurantPasta)
		assert.ErrorIs(t, err, inErrors.ErrStoreUnavailable)
	})
}
