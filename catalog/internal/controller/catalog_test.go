package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/fooddelivery/catalog/pkg/response"
	inErrors "github.com/Alturino/fooddelivery/internal/errors"
)

type fakeCatalogService struct {
	items       map[int64]response.Item
	restaurants []response.Restaurant
	err         error
}

func (f fakeCatalogService) LookupItem(c context.Context, itemId int64) (response.Item, error) {
	item, ok := f.items[itemId]
	if !ok {
		return response.Item{}, fmt.Errorf("failed finding itemId=%d with error=%w", itemId, inErrors.ErrNotFound)
	}
	return item, nil
}

func (f fakeCatalogService) ListRestaurants(c context.Context) ([]response.Restaurant, error) {
	return f.restaurants, f.err
}

func (f fakeCatalogService) ListMenu(c context.Context, restaurantId int64) ([]response.Item, error) {
	menu := []response.Item{}
	for _, item := range f.items {
		if item.RestaurantID == restaurantId {
			menu = append(menu, item)
		}
	}
	return menu, f.err
}

func TestCatalogController(t *testing.T) {
	svc := fakeCatalogService{
		items: map[int64]response.Item{
			1: {ID: 1, RestaurantID: 1, Name: "Spaghetti Carbonara", Price: decimal.RequireFromString("12.99")},
		},
		restaurants: []response.Restaurant{{ID: 1, Name: "Pasta Palace"}},
	}
	router := mux.NewRouter()
	AttachCatalogController(router, svc)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedKey    string
	}{
		{name: "should list restaurants", path: "/restaurants", expectedStatus: http.StatusOK, expectedKey: "restaurants"},
		{name: "should list menu", path: "/restaurants/1/items", expectedStatus: http.StatusOK, expectedKey: "items"},
		{name: "given invalid restaurantId should return bad request", path: "/restaurants/abc/items", expectedStatus: http.StatusBadRequest, expectedKey: "error"},
		{name: "should return item", path: "/items/1", expectedStatus: http.StatusOK, expectedKey: "item"},
		{name: "given unknown item should return not found", path: "/items/2", expectedStatus: http.StatusNotFound, expectedKey: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			body := map[string]json.RawMessage{}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Contains(t, body, tt.expectedKey)
		})
	}
}
