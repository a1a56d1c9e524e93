// Package event holds the messages the order service publishes after a
// checkout commits.
package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alturino/fooddelivery/order/pkg/response"
)

type OrderPlaced struct {
	OrderID      int64           `json:"order_id"`
	UserID       uuid.UUID       `json:"user_id"`
	RestaurantID int64           `json:"restaurant_id"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	CreatedAt    time.Time       `json:"created_at"`
}

func NewOrderPlaced(order response.PlacedOrder) OrderPlaced {
	return OrderPlaced{
		OrderID:      order.ID,
		UserID:       order.UserID,
		RestaurantID: order.RestaurantID,
		TotalPrice:   order.TotalPrice,
		CreatedAt:    order.CreatedAt,
	}
}
