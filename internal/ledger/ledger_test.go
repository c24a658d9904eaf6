package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

const (
	customerID = "customer-uuid"
	orderID    = "order-uuid"
)

func expectBalance(mock sqlmock.Sqlmock, balance int) {
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(points_earned\) - SUM\(points_redeemed\), 0\)`).
		WithArgs(customerID).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(balance))
}

func TestCurrentBalance(t *testing.T) {
	mockdb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer mockdb.Close()

	expectBalance(mock, 4200)

	balance, err := CurrentBalance(context.Background(), mockdb, customerID)

	assert.NoError(t, err)
	assert.Equal(t, 4200, balance)

	if err = mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("not all expectations were met: %v", err)
	}
}

func TestLockBalanceTakesRowLock(t *testing.T) {
	mockdb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer mockdb.Close()

	mock.ExpectQuery(`SELECT uuid FROM customers WHERE uuid = \$1 FOR UPDATE`).
		WithArgs(customerID).
		WillReturnRows(sqlmock.NewRows([]string{"uuid"}).AddRow(customerID))
	expectBalance(mock, 1000)

	balance, err := LockBalance(context.Background(), mockdb, customerID)

	assert.NoError(t, err)
	assert.Equal(t, 1000, balance)

	if err = mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("not all expectations were met: %v", err)
	}
}

func TestRecordEarnUpsertsPerOrder(t *testing.T) {
	mockdb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer mockdb.Close()

	// the same order credited twice hits the conflict clause instead
	// of inserting a second row
	mock.ExpectExec(`INSERT INTO points_ledger \(order_uuid, customer_uuid, points_earned\)`).
		WithArgs(orderID, customerID, 300).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`ON CONFLICT \(order_uuid, reversal\) DO UPDATE SET points_earned`).
		WithArgs(orderID, customerID, 300).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assert.NoError(t, RecordEarn(context.Background(), mockdb, customerID, orderID, 300))
	assert.NoError(t, RecordEarn(context.Background(), mockdb, customerID, orderID, 300))

	if err = mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("not all expectations were met: %v", err)
	}
}

func TestRecordEarnRejectsNegative(t *testing.T) {
	mockdb, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer mockdb.Close()

	assert.Error(t, RecordEarn(context.Background(), mockdb, customerID, orderID, -1))
}

func expectRedeemedForOrder(mock sqlmock.Sqlmock, redeemed int) {
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(points_redeemed\), 0\)\s+FROM points_ledger\s+WHERE order_uuid = \$1 AND reversal = FALSE`).
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows([]string{"redeemed"}).AddRow(redeemed))
}

func TestRecordRedeem(t *testing.T) {
	t.Run("within balance", func(t *testing.T) {
		mockdb, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to create sqlmock: %v", err)
		}
		defer mockdb.Close()

		expectBalance(mock, 5000)
		expectRedeemedForOrder(mock, 0)
		mock.ExpectExec(`INSERT INTO points_ledger \(order_uuid, customer_uuid, points_redeemed\)`).
			WithArgs(orderID, customerID, 4000).
			WillReturnResult(sqlmock.NewResult(1, 1))

		assert.NoError(t, RecordRedeem(context.Background(), mockdb, customerID, orderID, 4000))

		if err = mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("not all expectations were met: %v", err)
		}
	})

	t.Run("insufficient points", func(t *testing.T) {
		mockdb, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to create sqlmock: %v", err)
		}
		defer mockdb.Close()

		expectBalance(mock, 1000)
		expectRedeemedForOrder(mock, 0)

		err = RecordRedeem(context.Background(), mockdb, customerID, orderID, 2000)

		assert.ErrorIs(t, err, ErrInsufficientPoints)

		if err = mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("not all expectations were met: %v", err)
		}
	})
}

func TestRecordRedeemReplaySameOrder(t *testing.T) {
	mockdb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer mockdb.Close()

	// first redemption spends the whole balance
	expectBalance(mock, 4000)
	expectRedeemedForOrder(mock, 0)
	mock.ExpectExec(`INSERT INTO points_ledger \(order_uuid, customer_uuid, points_redeemed\)`).
		WithArgs(orderID, customerID, 4000).
		WillReturnResult(sqlmock.NewResult(1, 1))

	// the retried request sees a zero balance, but its own prior debit
	// is netted out so the upsert goes through as a no-op update
	expectBalance(mock, 0)
	expectRedeemedForOrder(mock, 4000)
	mock.ExpectExec(`INSERT INTO points_ledger \(order_uuid, customer_uuid, points_redeemed\)`).
		WithArgs(orderID, customerID, 4000).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assert.NoError(t, RecordRedeem(context.Background(), mockdb, customerID, orderID, 4000))
	assert.NoError(t, RecordRedeem(context.Background(), mockdb, customerID, orderID, 4000))

	if err = mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("not all expectations were met: %v", err)
	}
}

func TestReverse(t *testing.T) {
	mockdb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer mockdb.Close()

	// the compensating entry swaps the columns: earned points are
	// clawed back as a redemption, redeemed points come back as an earn
	mock.ExpectExec(`INSERT INTO points_ledger \(order_uuid, customer_uuid, points_earned, points_redeemed, reversal\)`).
		WithArgs(orderID, customerID, 2000, 350).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assert.NoError(t, Reverse(context.Background(), mockdb, customerID, orderID, 350, 2000))

	if err = mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("not all expectations were met: %v", err)
	}
}

func TestReverseNothingToCompensate(t *testing.T) {
	mockdb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer mockdb.Close()

	assert.NoError(t, Reverse(context.Background(), mockdb, customerID, orderID, 0, 0))

	if err = mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("not all expectations were met: %v", err)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	mockdb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer mockdb.Close()

	newer := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	older := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM points_ledger\s+WHERE customer_uuid = \$1\s+ORDER BY recorded_at DESC`).
		WithArgs(customerID).
		WillReturnRows(sqlmock.NewRows([]string{"order_uuid", "points_earned", "points_redeemed", "reversal", "recorded_at"}).
			AddRow("order-2", 500, 0, false, newer).
			AddRow("order-1", 120, 2000, false, older))

	entries, err := History(context.Background(), mockdb, customerID)

	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "order-2", entries[0].OrderID)
	assert.Equal(t, "order-1", entries[1].OrderID)
	assert.Equal(t, 2000, entries[1].PointsRedeemed)

	if err = mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("not all expectations were met: %v", err)
	}
}
