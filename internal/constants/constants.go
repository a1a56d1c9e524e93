package constants

const (
	AppCatalogService      = "catalog-service"
	AppCartService         = "cart-service"
	AppOrderService        = "order-service"
	AppTrackingService     = "tracking-service"
	AppGatewayService      = "gateway-service"
	AppNotificationService = "notification-service"
	AppMain                = "fooddelivery"
	AudienceUser           = "audience-user"
)

const ChannelOrderPlaced = "order.placed"

const (
	HeaderRequestID     = "X-Request-Id"
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	ValueJson           = "application/json"
)
