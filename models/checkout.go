package models

type PlaceOrderRequest struct {
	CustomerID      string         `json:"-"`
	CartLines       []CartLine     `json:"cartLines"`
	DeliveryChoice  DeliveryChoice `json:"deliveryChoice"`
	DeliveryAddress string         `json:"deliveryAddress,omitempty"`
	PointsToRedeem  int            `json:"pointsToRedeem"`
}

type OrderConfirmation struct {
	OrderID         string      `json:"orderId"`
	Subtotal        float64     `json:"subtotal"`
	ShippingFee     float64     `json:"shippingFee"`
	DiscountPercent int         `json:"discountPercent"`
	DiscountAmount  float64     `json:"discountAmount"`
	TotalPayable    float64     `json:"totalPayable"`
	PointsEarned    int         `json:"pointsEarned"`
	PointsRedeemed  int         `json:"pointsRedeemed"`
	Status          OrderStatus `json:"status"`
	Adjustments     []string    `json:"adjustments,omitempty"`
}

type StatusChangeRequest struct {
	NewStatus OrderStatus `json:"newStatus"`
	ActorID   string      `json:"actorId"`
}

type StatusChangeResponse struct {
	OrderID     string      `json:"orderId"`
	Status      OrderStatus `json:"status"`
	DeliveredAt *string     `json:"deliveredAt,omitempty"`
}
