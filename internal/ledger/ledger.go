// Package ledger owns the points bookkeeping. The balance is always
// derived from the entry log, never kept as a mutable counter, so a
// cached number can not drift away from the entries that justify it.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Farouk-MY/PFE-sub001/models"
)

// ErrInsufficientPoints rejects a redemption larger than the balance.
var ErrInsufficientPoints = errors.New("insufficient points")

// Querier is satisfied by both *sql.DB and *sql.Tx so the same ledger
// operations run standalone or inside a settlement transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CurrentBalance derives the balance from the full entry log.
func CurrentBalance(ctx context.Context, q Querier, customerID string) (int, error) {
	var balance int
	err := q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(points_earned) - SUM(points_redeemed), 0)
		FROM points_ledger
		WHERE customer_uuid = $1
	`, customerID).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}

	return balance, nil
}

// LockBalance takes a row-level lock on the customer before reading the
// balance. Two concurrent settlements for the same customer serialize
// here, so neither can pass the redemption check against a stale sum.
func LockBalance(ctx context.Context, q Querier, customerID string) (int, error) {
	var uuid string
	err := q.QueryRowContext(ctx, `
		SELECT uuid FROM customers WHERE uuid = $1 FOR UPDATE
	`, customerID).Scan(&uuid)
	if err != nil {
		return 0, fmt.Errorf("failed to lock customer: %w", err)
	}

	return CurrentBalance(ctx, q, customerID)
}

// RecordEarn credits points earned by an order. Writing the same order
// twice updates the existing entry in place rather than duplicating it,
// so a retried request can not double-credit.
func RecordEarn(ctx context.Context, q Querier, customerID string, orderID string, points int) error {
	if points < 0 {
		return fmt.Errorf("earn points must be non-negative, got %d", points)
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO points_ledger (order_uuid, customer_uuid, points_earned)
		VALUES ($1, $2, $3)
		ON CONFLICT (order_uuid, reversal) DO UPDATE SET points_earned = EXCLUDED.points_earned
	`, orderID, customerID, points)
	if err != nil {
		return fmt.Errorf("failed to record earn: %w", err)
	}

	return nil
}

// RecordRedeem debits redeemed points against the same order entry.
// The balance check and the debit run over the same Querier; callers
// that need race safety pass a transaction that already holds the
// customer lock. Replays for an order that already redeemed are judged
// against the balance as it stood before that debit, so retrying the
// same redemption never trips the insufficiency check.
func RecordRedeem(ctx context.Context, q Querier, customerID string, orderID string, points int) error {
	if points < 0 {
		return fmt.Errorf("redeem points must be non-negative, got %d", points)
	}

	balance, err := CurrentBalance(ctx, q, customerID)
	if err != nil {
		return err
	}
	prior, err := redeemedForOrder(ctx, q, orderID)
	if err != nil {
		return err
	}
	if points > balance+prior {
		return fmt.Errorf("%w: requested %d, balance %d", ErrInsufficientPoints, points, balance+prior)
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO points_ledger (order_uuid, customer_uuid, points_redeemed)
		VALUES ($1, $2, $3)
		ON CONFLICT (order_uuid, reversal) DO UPDATE SET points_redeemed = EXCLUDED.points_redeemed
	`, orderID, customerID, points)
	if err != nil {
		return fmt.Errorf("failed to record redeem: %w", err)
	}

	return nil
}

// redeemedForOrder reads what the order's settlement entry has already
// debited, zero when the order has no entry yet.
func redeemedForOrder(ctx context.Context, q Querier, orderID string) (int, error) {
	var redeemed int
	err := q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(points_redeemed), 0)
		FROM points_ledger
		WHERE order_uuid = $1 AND reversal = FALSE
	`, orderID).Scan(&redeemed)
	if err != nil {
		return 0, fmt.Errorf("failed to read redeemed points for order: %w", err)
	}

	return redeemed, nil
}

// Reverse writes the compensating entry for a cancelled order: the
// earn is clawed back and the redeemed points are returned. The
// original entry is never edited.
func Reverse(ctx context.Context, q Querier, customerID string, orderID string, pointsEarned int, pointsRedeemed int) error {
	if pointsEarned == 0 && pointsRedeemed == 0 {
		return nil
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO points_ledger (order_uuid, customer_uuid, points_earned, points_redeemed, reversal)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (order_uuid, reversal) DO NOTHING
	`, orderID, customerID, pointsRedeemed, pointsEarned)
	if err != nil {
		return fmt.Errorf("failed to record reversal: %w", err)
	}

	return nil
}

// History returns the customer's entries, most recent first.
func History(ctx context.Context, q Querier, customerID string) ([]*models.PointsLedgerEntry, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT order_uuid, points_earned, points_redeemed, reversal, recorded_at
		FROM points_ledger
		WHERE customer_uuid = $1
		ORDER BY recorded_at DESC
	`, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	defer rows.Close()

	var entries []*models.PointsLedgerEntry
	for rows.Next() {
		var e models.PointsLedgerEntry
		if err = rows.Scan(&e.OrderID, &e.PointsEarned, &e.PointsRedeemed, &e.Reversal, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}

	return entries, nil
}
