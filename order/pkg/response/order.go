package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PlacedOrder struct {
	ID           int64           `json:"order_id"`
	UserID       uuid.UUID       `json:"user_id"`
	RestaurantID int64           `json:"restaurant_id"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}
