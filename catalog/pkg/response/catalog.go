package response

import "github.com/shopspring/decimal"

type Restaurant struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	LogoUrl string `json:"logo_url"`
}

type Item struct {
	ID           int64           `json:"id"`
	RestaurantID int64           `json:"restaurant_id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	ImageUrl     string          `json:"image_url"`
}
