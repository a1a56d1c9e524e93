package log

const (
	KeyAppName        = "app"
	KeyRequestID      = "requestId"
	KeyTraceID        = "traceId"
	KeySpanID         = "spanId"
	KeyProcess        = "process"
	KeyToken          = "token"
	KeyEmail          = "email"
	KeyTag            = "tag"
	KeyRequest        = "request"
	KeyRequestBody    = "requestBody"
	KeyRequestHeader  = "requestHeader"
	KeyRequestHost    = "host"
	KeyRequestIp      = "requesterIP"
	KeyRequestMethod  = "requestMethod"
	KeyRequestURI     = "requestURI"
	KeyRequestURL     = "requestURL"
	KeyConfig         = "config"
	KeyDbURL          = "dbUrl"
	KeyCacheKey       = "cacheKey"
	KeyChannel        = "channel"
	KeyPathValues     = "pathValues"
	KeyUserID         = "userId"
	KeyCartID         = "cartId"
	KeyCartItems      = "cartItems"
	KeyCartItemCount  = "cartItemCount"
	KeyItemID         = "itemId"
	KeyItemIDs        = "itemIds"
	KeyItem           = "item"
	KeyItems          = "items"
	KeyQuantity       = "quantity"
	KeyRestaurantID   = "restaurantId"
	KeyRestaurants    = "restaurants"
	KeyOrder          = "order"
	KeyOrderID        = "orderId"
	KeyOrders         = "orders"
	KeyOrderItems     = "orderItems"
	KeyTotalPrice     = "totalPrice"
	KeyTimeLeft       = "timeLeft"
	KeyEvent          = "event"
	KeyUpstream       = "upstream"
	KeyStatusCode     = "statusCode"
	KeyDeletedCount   = "deletedCount"
	KeyInsertedCount  = "insertedCount"
)
