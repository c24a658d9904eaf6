package models

import "time"

// PointsLedgerEntry is an immutable record of the points effect of one
// order. Cancellation adds a compensating entry with Reversal set, it
// never edits the original row.
type PointsLedgerEntry struct {
	OrderID        string    `json:"orderId"`
	PointsEarned   int       `json:"pointsEarned"`
	PointsRedeemed int       `json:"pointsRedeemed"`
	Reversal       bool      `json:"reversal,omitempty"`
	RecordedAt     time.Time `json:"recordedAt"`
}

type BalanceResponse struct {
	Balance int `json:"balance"`
}
