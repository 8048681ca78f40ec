package constants

import "time"

const (
	CACHE_KEY_PRODUCT = "products:%s"
	CACHE_TTL_PRODUCT = 5 * time.Minute

	CHANNEL_ORDER_EVENTS   = "orders.events"
	QUEUE_WAREHOUSE_ORDERS = "warehouse.orders"
)
