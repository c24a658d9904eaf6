package models

type OrderEventKind string

const (
	OrderEventCreated       OrderEventKind = "order_created"
	OrderEventStatusChanged OrderEventKind = "status_changed"
)

type OrderEvent struct {
	OrderID      string         `json:"orderId"`
	CustomerID   string         `json:"customerId"`
	Kind         OrderEventKind `json:"kind"`
	Status       OrderStatus    `json:"status"`
	TotalPayable float64        `json:"totalPayable,omitempty"`
}
