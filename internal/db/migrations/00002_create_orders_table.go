package migrations

import (
	"context"
	"database/sql"
	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(UpOrdersTable, DownOrdersTable)
}

func UpOrdersTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `CREATE TABLE orders
(
    uuid UUID PRIMARY KEY,
    customer_uuid UUID NOT NULL,
    subtotal NUMERIC(12,3) NOT NULL,
    shipping_fee NUMERIC(12,3) NOT NULL,
    discount_percent INT DEFAULT 0 NOT NULL,
    discount_amount NUMERIC(12,3) DEFAULT 0 NOT NULL,
    points_redeemed INT DEFAULT 0 NOT NULL,
    points_earned INT DEFAULT 0 NOT NULL,
    total_payable NUMERIC(12,3) NOT NULL,
    delivery_choice VARCHAR(16) NOT NULL,
    delivery_address TEXT,
    status VARCHAR(16) NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP NOT NULL,
    delivered_at TIMESTAMP
);`)
	return err
}

func DownOrdersTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, "DROP TABLE orders;")
	return err
}
