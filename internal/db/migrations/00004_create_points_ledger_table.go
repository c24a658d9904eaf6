package migrations

import (
	"context"
	"database/sql"
	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(UpPointsLedgerTable, DownPointsLedgerTable)
}

func UpPointsLedgerTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `CREATE TABLE points_ledger
(
    order_uuid UUID NOT NULL,
    customer_uuid UUID NOT NULL,
    points_earned INT DEFAULT 0 NOT NULL,
    points_redeemed INT DEFAULT 0 NOT NULL,
    reversal BOOLEAN DEFAULT FALSE NOT NULL,
    recorded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP NOT NULL,
    PRIMARY KEY (order_uuid, reversal)
);`)
	return err
}

func DownPointsLedgerTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, "DROP TABLE points_ledger;")
	return err
}
