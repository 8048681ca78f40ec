package constants

const (
	APP_STOREFRONT           = "storefront"
	APP_CART_SERVICE         = "cart-service"
	APP_ORDER_SERVICE        = "order-service"
	APP_PRODUCT_SERVICE      = "product-service"
	APP_NOTIFICATION_SERVICE = "notification-service"
	APP_WAREHOUSE_CONSUMER   = "warehouse-consumer"
	APP_MIGRATION            = "migration"
	AUDIENCE_USER            = "audience-user"
	ISSUER                   = "storefront"
)
