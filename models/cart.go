package models

type CartLine struct {
	ProductID     string  `json:"productId"`
	UnitPrice     float64 `json:"unitPrice"`
	Quantity      int     `json:"quantity"`
	PointsPerUnit int     `json:"pointsPerUnit"`
}

// CartSnapshot is the cart as captured at checkout time. It is never
// mutated after an order has been created from it.
type CartSnapshot []CartLine
