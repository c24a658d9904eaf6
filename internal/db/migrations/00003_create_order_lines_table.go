package migrations

import (
	"context"
	"database/sql"
	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(UpOrderLinesTable, DownOrderLinesTable)
}

func UpOrderLinesTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `CREATE TABLE order_lines
(
    order_uuid UUID NOT NULL,
    product_id VARCHAR(255) NOT NULL,
    unit_price NUMERIC(12,3) NOT NULL,
    quantity INT NOT NULL,
    points_per_unit INT DEFAULT 0 NOT NULL
);`)
	return err
}

func DownOrderLinesTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, "DROP TABLE order_lines;")
	return err
}
