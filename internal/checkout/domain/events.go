package domain

// Events emitted through the transactional outbox on ledger mutations.

type OrderCreated struct {
	OrderID          string     `json:"order_id"`
	MerchantOrderRef string     `json:"merchant_order_ref"`
	UserID           string     `json:"user_id"`
	StoreID          string     `json:"store_id"`
	TotalAmount      float64    `json:"total_amount"`
	Items            []LineItem `json:"items"`
}

type OrderStatusChanged struct {
	OrderID          string      `json:"order_id"`
	MerchantOrderRef string      `json:"merchant_order_ref"`
	Status           OrderStatus `json:"status"`
	GatewayTxnRef    string      `json:"gateway_txn_ref,omitempty"`
}
