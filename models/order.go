package models

import (
	"time"
)

type OrderStatus string

func (s OrderStatus) String() string {
	return string(s)
}

const (
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderShipping  OrderStatus = "shipping"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

type DeliveryChoice string

func (c DeliveryChoice) String() string {
	return string(c)
}

const (
	DeliveryPickup DeliveryChoice = "pickup"
	DeliveryHome   DeliveryChoice = "delivery"
)

func (c DeliveryChoice) Valid() bool {
	return c == DeliveryPickup || c == DeliveryHome
}

type Order struct {
	UUID            string         `json:"orderId"`
	CustomerUUID    string         `json:"-"`
	Subtotal        float64        `json:"subtotal"`
	ShippingFee     float64        `json:"shippingFee"`
	DiscountPercent int            `json:"discountPercent"`
	DiscountAmount  float64        `json:"discountAmount"`
	PointsRedeemed  int            `json:"pointsRedeemed"`
	PointsEarned    int            `json:"pointsEarned"`
	TotalPayable    float64        `json:"totalPayable"`
	DeliveryChoice  DeliveryChoice `json:"deliveryChoice"`
	DeliveryAddress string         `json:"deliveryAddress,omitempty"`
	Status          OrderStatus    `json:"status"`
	Lines           CartSnapshot   `json:"-"`
	CreatedAt       time.Time      `json:"createdAt"`
	DeliveredAt     *time.Time     `json:"deliveredAt,omitempty"`
}
