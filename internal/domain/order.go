package domain

// UTR payment-verification statuses accepted by the upstream API.
const (
	UTRStatusPending   = "Pending"
	UTRStatusCompleted = "Completed"
	UTRStatusFailed    = "Failed"
)

// Order fulfillment statuses accepted by the upstream API.
const (
	OrderStatusPending   = "Pending"
	OrderStatusShipped   = "Shipped"
	OrderStatusDelivered = "Delivered"
	OrderStatusCanceled  = "Canceled"
)

// ValidUTRStatus reports whether s is one of the payment-verification statuses.
func ValidUTRStatus(s string) bool {
	switch s {
	case UTRStatusPending, UTRStatusCompleted, UTRStatusFailed:
		return true
	}
	return false
}

// ValidOrderStatus reports whether s is one of the fulfillment statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// OrderItem is a line item on an order. Only the count of items is shown
// in the dashboard, but the upstream payload carries the full list.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Order represents a customer order as returned by the upstream API.
// Orders are never created or deleted through the dashboard; only the
// two status fields are mutated.
type Order struct {
	OrderID       string      `json:"orderId"`
	OrderTime     string      `json:"orderTime"`
	CustomerName  string      `json:"customerName"`
	PaymentMethod string      `json:"paymentMethod"`
	TotalAmount   float64     `json:"totalAmount"`
	UTRNumber     string      `json:"utrNumber"`
	UTRStatus     string      `json:"utrStatus"`
	OrderStatus   string      `json:"orderStatus"`
	Items         []OrderItem `json:"items"`
}

// OrderPatch updates exactly one of the two order status fields. The
// upstream PUT body must contain only the field being changed.
type OrderPatch struct {
	OrderStatus *string `json:"orderStatus,omitempty"`
	UTRStatus   *string `json:"utrStatus,omitempty"`
}
