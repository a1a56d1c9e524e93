package response

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID             int64           `json:"order_id"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	Status         string          `json:"status"`
	RestaurantName string          `json:"restaurant_name"`
	LogoUrl        string          `json:"logo_url"`
	CreatedAt      time.Time       `json:"created_at"`
}

type OrderDetail struct {
	Order
	Items []OrderItem `json:"items"`
}

type OrderItem struct {
	ItemID   int64           `json:"item_id"`
	Quantity int32           `json:"quantity"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageUrl string          `json:"image_url"`
}
