package constants

const (
	KEY_APP_NAME       = "app"
	KEY_TAG            = "tag"
	KEY_PROCESS        = "process"
	KEY_CONFIG         = "config"
	KEY_DB_URL         = "dbUrl"
	KEY_TOKEN          = "token"
	KEY_REQUEST        = "request"
	KEY_REQUEST_ID     = "requestId"
	KEY_REQUEST_BODY   = "requestBody"
	KEY_REQUEST_HOST   = "host"
	KEY_REQUEST_IP     = "requesterIp"
	KEY_REQUEST_METHOD = "requestMethod"
	KEY_REQUEST_URI    = "requestUri"
	KEY_REQUEST_URL    = "requestUrl"
	KEY_HEADER         = "header"
	KEY_BODY           = "body"
	KEY_TRACE_ID       = "traceId"
	KEY_SPAN_ID        = "spanId"
	KEY_STATUS_CODE    = "statusCode"

	KEY_USER_ID      = "userId"
	KEY_CART_ID      = "cartId"
	KEY_CART         = "cart"
	KEY_CART_ITEM_ID = "cartItemId"
	KEY_CART_ITEM    = "cartItem"
	KEY_CART_ITEMS   = "cartItems"
	KEY_PRODUCT_ID   = "productId"
	KEY_PRODUCT      = "product"
	KEY_PRODUCTS     = "products"
	KEY_QUANTITY     = "quantity"
	KEY_DELTA        = "delta"
	KEY_ORDER_ID     = "orderId"
	KEY_ORDER        = "order"
	KEY_ORDERS       = "orders"
	KEY_ORDER_ITEMS  = "orderItems"
	KEY_TOTAL_AMOUNT = "totalAmount"
	KEY_STATUS       = "status"
	KEY_PAYMENT      = "payment"
	KEY_SHIPPING     = "shipping"
	KEY_EVENT        = "event"
	KEY_CACHE_KEY    = "cacheKey"
	KEY_CHANNEL      = "channel"
	KEY_QUEUE        = "queue"
	KEY_WORKER_ID    = "workerId"
)
