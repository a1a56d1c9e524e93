package response

import "github.com/shopspring/decimal"

type CartItem struct {
	ItemID   int64           `json:"item_id"`
	Quantity int32           `json:"quantity"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageUrl string          `json:"image_url"`
}
