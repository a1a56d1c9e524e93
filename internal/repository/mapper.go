package repository

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	cartResponse "github.com/Alturino/fooddelivery/cart/pkg/response"
	catalogResponse "github.com/Alturino/fooddelivery/catalog/pkg/response"
	gatewayResponse "github.com/Alturino/fooddelivery/gateway/pkg/response"
	orderResponse "github.com/Alturino/fooddelivery/order/pkg/response"
	trackingResponse "github.com/Alturino/fooddelivery/tracking/pkg/response"
)

func NumericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func DecimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:              d.Coefficient(),
		Exp:              d.Exponent(),
		InfinityModifier: pgtype.Finite,
		Valid:            true,
	}
}

func (r Restaurant) Response() catalogResponse.Restaurant {
	return catalogResponse.Restaurant{ID: r.ID, Name: r.Name, LogoUrl: r.LogoUrl}
}

func (i Item) Response() catalogResponse.Item {
	return catalogResponse.Item{
		ID:           i.ID,
		RestaurantID: i.RestaurantID,
		Name:         i.Name,
		Price:        NumericToDecimal(i.Price),
		ImageUrl:     i.ImageUrl,
	}
}

func (f FindCartItemsByUserIdRow) Response() cartResponse.CartItem {
	return cartResponse.CartItem{
		ItemID:   f.ItemID,
		Quantity: f.Quantity,
		Name:     f.Name,
		Price:    NumericToDecimal(f.Price),
		ImageUrl: f.ImageUrl,
	}
}

func (o Order) Response() orderResponse.PlacedOrder {
	return orderResponse.PlacedOrder{
		ID:           o.ID,
		UserID:       o.UserID,
		RestaurantID: o.RestaurantID,
		TotalPrice:   NumericToDecimal(o.TotalPrice),
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt.Time,
	}
}

func (f FindOrdersByUserIdRow) Response() trackingResponse.Order {
	return trackingResponse.Order{
		ID:             f.ID,
		TotalPrice:     NumericToDecimal(f.TotalPrice),
		Status:         string(f.Status),
		RestaurantName: f.RestaurantName,
		LogoUrl:        f.LogoUrl,
		CreatedAt:      f.CreatedAt.Time,
	}
}

func (f FindOrderByIdAndUserIdRow) Response() trackingResponse.Order {
	return trackingResponse.Order{
		ID:             f.ID,
		TotalPrice:     NumericToDecimal(f.TotalPrice),
		Status:         string(f.Status),
		RestaurantName: f.RestaurantName,
		LogoUrl:        f.LogoUrl,
		CreatedAt:      f.CreatedAt.Time,
	}
}

func (f FindOrderItemsByOrderIdRow) Response() trackingResponse.OrderItem {
	return trackingResponse.OrderItem{
		ItemID:   f.ItemID,
		Quantity: f.Quantity,
		Name:     f.Name,
		Price:    NumericToDecimal(f.Price),
		ImageUrl: f.ImageUrl,
	}
}

func (u User) Response() gatewayResponse.User {
	return gatewayResponse.User{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt.Time}
}
