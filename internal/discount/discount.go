// Package discount converts a requested points redemption into a
// percentage discount and a monetary amount.
//
// The scheme is block based: 2000 points buy a 10% discount on the
// order subtotal. Redemptions that are out of range are not rejected,
// they are corrected (clamped or floored) and the correction is
// reported back as a violation flag so the caller can re-confirm with
// the customer instead of failing the whole checkout.
package discount

import "math"

const (
	// PointsPerBlock is the smallest redeemable unit of points.
	PointsPerBlock = 2000
	// PercentPerBlock is the discount bought by one block.
	PercentPerBlock = 10
)

type Violation string

const (
	NegativePoints Violation = "NegativePoints"
	ExceedsMax     Violation = "ExceedsMax"
	NotMultiple    Violation = "NotMultiple"
)

type Result struct {
	Percent        int
	Amount         float64
	AdjustedPoints int
	Violations     []Violation
}

// MaxRedeemable returns the largest points value that may be redeemed
// against the given subtotal and balance: points can never buy more
// than a 100% discount, and never exceed what the customer owns.
func MaxRedeemable(availablePoints int, subtotal float64) int {
	bySubtotal := int(math.Floor(subtotal/0.1)) * PointsPerBlock
	if availablePoints < bySubtotal {
		return availablePoints
	}
	return bySubtotal
}

// Compute is pure and deterministic: same inputs, same result, no side
// effects. AdjustedPoints is the value the ledger must be debited with,
// never the raw request.
func Compute(pointsToRedeem int, subtotal float64, availablePoints int) Result {
	var res Result

	points := pointsToRedeem
	if points < 0 {
		points = 0
		res.Violations = append(res.Violations, NegativePoints)
	}

	max := MaxRedeemable(availablePoints, subtotal)
	if points > max {
		points = max
		res.Violations = append(res.Violations, ExceedsMax)
	}

	if points > 0 && points%PointsPerBlock != 0 {
		points = (points / PointsPerBlock) * PointsPerBlock
		res.Violations = append(res.Violations, NotMultiple)
	}

	res.AdjustedPoints = points
	res.Percent = (points / PointsPerBlock) * PercentPerBlock
	res.Amount = roundMinorUnit(subtotal * (float64(res.Percent) / 100))

	return res
}

// roundMinorUnit rounds to the TND minor unit, three decimal places.
func roundMinorUnit(v float64) float64 {
	return math.Round(v*1000) / 1000
}
