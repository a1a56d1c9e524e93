package controller

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/fooddelivery/internal/auth"
	inErrors "github.com/Alturino/fooddelivery/internal/errors"
	"github.com/Alturino/fooddelivery/internal/middleware"
	"github.com/Alturino/fooddelivery/tracking/pkg/response"
)

const secret = "tracking-secret"

type fakeTrackingService struct {
	owner uuid.UUID
}

func (f fakeTrackingService) ListOrders(c context.Context, userId uuid.UUID) ([]response.Order, error) {
	if userId != f.owner {
		return []response.Order{}, nil
	}
	return []response.Order{{ID: 2, TotalPrice: decimal.RequireFromString("7.45"), Status: "Pending"}}, nil
}

func (f fakeTrackingService) GetOrder(c context.Context, userId uuid.UUID, orderId int64) (response.OrderDetail, error) {
	if userId != f.owner || orderId != 2 {
		return response.OrderDetail{}, fmt.Errorf("failed finding orderId=%d with error=%w", orderId, inErrors.ErrNotFound)
	}
	return response.OrderDetail{
		Order: response.Order{ID: 2, TotalPrice: decimal.RequireFromString("7.45"), Status: "Pending"},
		Items: []response.OrderItem{{ItemID: 4, Quantity: 1, Price: decimal.RequireFromString("7.45")}},
	}, nil
}

func (f fakeTrackingService) TimeLeft(c context.Context, orderId int64) (string, error) {
	if orderId != 2 {
		return "", inErrors.ErrNotFound
	}
	return "10m 0s", nil
}

func TestTrackingController(t *testing.T) {
	owner := uuid.New()
	ownerToken, err := auth.IssueToken(context.Background(), secret, owner, time.Now())
	require.NoError(t, err)
	strangerToken, err := auth.IssueToken(context.Background(), secret, uuid.New(), time.Now())
	require.NoError(t, err)

	router := mux.NewRouter()
	AttachTrackingController(router, middleware.Auth(secret), fakeTrackingService{owner: owner})

	tests := []struct {
		name           string
		path           string
		token          string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "given no token should not list orders",
			path:           "/orders",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"error":"unauthorized"}`,
		},
		{
			name:           "given owner token should list orders",
			path:           "/orders",
			token:          ownerToken,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"orders":[{"order_id":2,"total_price":"7.45","status":"Pending","restaurant_name":"","logo_url":"","created_at":"0001-01-01T00:00:00Z"}]}`,
		},
		{
			name:           "given owner token should return order detail",
			path:           "/orders/2",
			token:          ownerToken,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"order":{"order_id":2,"total_price":"7.45","status":"Pending","restaurant_name":"","logo_url":"","created_at":"0001-01-01T00:00:00Z","items":[{"item_id":4,"quantity":1,"name":"","price":"7.45","image_url":""}]}}`,
		},
		{
			name:           "given stranger token should not reveal order",
			path:           "/orders/2",
			token:          strangerToken,
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"not found"}`,
		},
		{
			name:           "given no token should return time left",
			path:           "/orders/time-left/2",
			expectedStatus: http.StatusOK,
			expectedBody:   `{"time_left":"10m 0s"}`,
		},
		{
			name:           "given unknown order should return not found for time left",
			path:           "/orders/time-left/3",
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"not found"}`,
		},
		{
			name:           "given non numeric order id should return bad request",
			path:           "/orders/time-left/abc",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"bad request"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
		})
	}
}
