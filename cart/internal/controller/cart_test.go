package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/fooddelivery/cart/pkg/response"
	"github.com/Alturino/fooddelivery/internal/auth"
)

type fakeCartService struct {
	added       []int64
	decremented []int64
	items       []response.CartItem
}

func (f *fakeCartService) MergeAdd(c context.Context, userId uuid.UUID, itemIds []int64) error {
	f.added = append(f.added, itemIds...)
	return nil
}

func (f *fakeCartService) Decrement(c context.Context, userId uuid.UUID, itemId int64) error {
	f.decremented = append(f.decremented, itemId)
	return nil
}

func (f *fakeCartService) ListCart(c context.Context, userId uuid.UUID) ([]response.CartItem, error) {
	return f.items, nil
}

func withUser(userId uuid.UUID) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userId != uuid.Nil {
				r = r.WithContext(auth.AttachUserIdToContext(r.Context(), userId))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func TestCartController(t *testing.T) {
	userId := uuid.New()

	tests := []struct {
		name           string
		userId         uuid.UUID
		method         string
		path           string
		body           string
		expectedStatus int
		expectedBody   string
		expectedAdded  []int64
		expectedRemove []int64
	}{
		{
			name:           "given no identity should return unauthorized",
			method:         http.MethodGet,
			path:           "/cart",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"error":"unauthorized"}`,
		},
		{
			name:           "given item ids should add them",
			userId:         userId,
			method:         http.MethodPost,
			path:           "/cart/add",
			body:           `{"itemIds":[1,1,2]}`,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"Items added to cart successfully"}`,
			expectedAdded:  []int64{1, 1, 2},
		},
		{
			name:           "given item ids not an array should return bad request",
			userId:         userId,
			method:         http.MethodPost,
			path:           "/cart/add",
			body:           `{"itemIds":"1"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"bad request"}`,
		},
		{
			name:           "given missing item ids should return bad request",
			userId:         userId,
			method:         http.MethodPost,
			path:           "/cart/add",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"bad request"}`,
		},
		{
			name:           "should list cart",
			userId:         userId,
			method:         http.MethodGet,
			path:           "/cart",
			expectedStatus: http.StatusOK,
			expectedBody:   `{"cartItems":[{"item_id":1,"quantity":2,"name":"Tiramisu","price":"0","image_url":""}]}`,
		},
		{
			name:           "given item id should remove one unit",
			userId:         userId,
			method:         http.MethodDelete,
			path:           "/cart/items/3",
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"Item removed from cart successfully"}`,
			expectedRemove: []int64{3},
		},
		{
			name:           "given non numeric item id should return bad request",
			userId:         userId,
			method:         http.MethodDelete,
			path:           "/cart/items/abc",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"bad request"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeCartService{items: []response.CartItem{{ItemID: 1, Quantity: 2, Name: "Tiramisu"}}}
			router := mux.NewRouter()
			router.Use(withUser(tt.userId))
			AttachCartController(router, svc)

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			assert.Equal(t, tt.expectedAdded, svc.added)
			assert.Equal(t, tt.expectedRemove, svc.decremented)
		})
	}
}

func TestCartControllerEmptyCartEncodesArray(t *testing.T) {
	router := mux.NewRouter()
	router.Use(withUser(uuid.New()))
	AttachCartController(router, &fakeCartService{items: []response.CartItem{}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))

	body := map[string][]any{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.NotNil(t, body["cartItems"])
	assert.Empty(t, body["cartItems"])
}
