// Package settlement composes an order's final payable amount from the
// cart, the delivery choice and the discount already granted.
package settlement

import (
	"errors"
	"fmt"
	"math"

	"github.com/Farouk-MY/PFE-sub001/models"
)

const (
	// DeliveryFee is charged on home delivery below the threshold.
	DeliveryFee = 5.99
	// FreeShippingThreshold is the subtotal above which home delivery
	// ships free.
	FreeShippingThreshold = 100
)

// ErrInvalidTotal marks a settlement whose computed total is negative
// or non-finite. It is a server-side defect, never a user input error.
var ErrInvalidTotal = errors.New("invalid order total")

type Totals struct {
	Subtotal     float64
	ShippingFee  float64
	DiscountAmt  float64
	TotalPayable float64
	PointsEarned int
}

// Subtotal sums the cart at unit prices, before any discount.
func Subtotal(cart models.CartSnapshot) float64 {
	var sum float64
	for _, line := range cart {
		sum += line.UnitPrice * float64(line.Quantity)
	}
	return sum
}

// ComputeTotal derives the binding totals for one checkout. Points are
// earned on the pre-discount cart value.
func ComputeTotal(cart models.CartSnapshot, delivery models.DeliveryChoice, discountAmount float64) (Totals, error) {
	var t Totals

	t.Subtotal = Subtotal(cart)
	for _, line := range cart {
		t.PointsEarned += line.PointsPerUnit * line.Quantity
	}

	t.ShippingFee = shippingFee(t.Subtotal, delivery)
	t.DiscountAmt = discountAmount
	t.TotalPayable = t.Subtotal + t.ShippingFee - discountAmount

	if math.IsNaN(t.TotalPayable) || math.IsInf(t.TotalPayable, 0) || t.TotalPayable < 0 {
		return Totals{}, fmt.Errorf("%w: subtotal %.3f shipping %.3f discount %.3f", ErrInvalidTotal, t.Subtotal, t.ShippingFee, discountAmount)
	}

	return t, nil
}

func shippingFee(subtotal float64, delivery models.DeliveryChoice) float64 {
	if delivery == models.DeliveryPickup {
		return 0
	}
	if subtotal > FreeShippingThreshold {
		return 0
	}
	return DeliveryFee
}
