package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/Farouk-MY/PFE-sub001/config"
	_ "github.com/Farouk-MY/PFE-sub001/internal/db/migrations"
	"github.com/Farouk-MY/PFE-sub001/internal/ledger"
	"github.com/Farouk-MY/PFE-sub001/models"
)

type Manager struct {
	Db *sql.DB
}

func NewManager(cfg *config.Config) (*Manager, error) {
	db, err := sql.Open("pgx", cfg.DatabaseURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	manager := &Manager{
		Db: db,
	}

	if err = goose.Up(db, "./internal/db/migrations"); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	return manager, nil
}

func (m *Manager) PutUniqueCustomer(ctx context.Context, customer models.Customer) error {
	_, err := m.Db.ExecContext(ctx, `
        INSERT INTO customers (uuid, login, password, role)
        VALUES ($1, $2, $3, $4)
    `, customer.UUID, customer.Login, customer.Password, customer.Role)
	if err != nil {
		return fmt.Errorf("failed to insert customer: %v", err)
	}

	return nil
}

func (m *Manager) GetCustomer(ctx context.Context, login string) (models.Customer, error) {
	var customer models.Customer

	err := m.Db.QueryRowContext(ctx, `
		SELECT uuid, login, password, role
		FROM customers
		WHERE login = $1
	`, login).Scan(&customer.UUID, &customer.Login, &customer.Password, &customer.Role)

	if err != nil {
		return customer, fmt.Errorf("failed to get customer: %v", err)
	}

	return customer, nil
}

// RunSettlement is the atomic unit of checkout: customer lock, balance
// read, order row, cart snapshot and both ledger entries commit
// together or not at all.
func (m *Manager) RunSettlement(ctx context.Context, customerID string, settle func(balance int) (*models.Order, error)) (*models.Order, error) {
	tx, err := m.Db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin settlement: %w", err)
	}
	defer tx.Rollback()

	balance, err := ledger.LockBalance(ctx, tx, customerID)
	if err != nil {
		return nil, err
	}

	order, err := settle(balance)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (uuid, customer_uuid, subtotal, shipping_fee, discount_percent,
		                    discount_amount, points_redeemed, points_earned, total_payable,
		                    delivery_choice, delivery_address, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, order.UUID, order.CustomerUUID, order.Subtotal, order.ShippingFee, order.DiscountPercent,
		order.DiscountAmount, order.PointsRedeemed, order.PointsEarned, order.TotalPayable,
		order.DeliveryChoice, order.DeliveryAddress, order.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	for _, line := range order.Lines {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_lines (order_uuid, product_id, unit_price, quantity, points_per_unit)
			VALUES ($1, $2, $3, $4, $5)
		`, order.UUID, line.ProductID, line.UnitPrice, line.Quantity, line.PointsPerUnit)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order line: %w", err)
		}
	}

	if order.PointsRedeemed > 0 {
		if err = ledger.RecordRedeem(ctx, tx, customerID, order.UUID, order.PointsRedeemed); err != nil {
			return nil, err
		}
	}
	if order.PointsEarned > 0 {
		if err = ledger.RecordEarn(ctx, tx, customerID, order.UUID, order.PointsEarned); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit settlement: %w", err)
	}

	return order, nil
}

// RunStatusChange locks the order row, lets the caller decide the
// transition against the current state, then applies it with a
// compare-and-set on the status column.
func (m *Manager) RunStatusChange(ctx context.Context, orderID string, change func(current *models.Order) (*StatusUpdate, error)) (*models.Order, error) {
	tx, err := m.Db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin status change: %w", err)
	}
	defer tx.Rollback()

	var order models.Order
	err = tx.QueryRowContext(ctx, `
		SELECT uuid, customer_uuid, status, points_earned, points_redeemed, delivered_at
		FROM orders
		WHERE uuid = $1
		FOR UPDATE
	`, orderID).Scan(&order.UUID, &order.CustomerUUID, &order.Status,
		&order.PointsEarned, &order.PointsRedeemed, &order.DeliveredAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load order %s: %w", orderID, err)
	}

	update, err := change(&order)
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = $1, delivered_at = COALESCE($2, delivered_at)
		WHERE uuid = $3 AND status = $4
	`, update.To, update.DeliveredAt, orderID, order.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read status update result: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("order %s status changed concurrently", orderID)
	}

	if update.Compensate {
		if err = ledger.Reverse(ctx, tx, order.CustomerUUID, order.UUID, order.PointsEarned, order.PointsRedeemed); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit status change: %w", err)
	}

	order.Status = update.To
	if update.DeliveredAt != nil {
		order.DeliveredAt = update.DeliveredAt
	}

	return &order, nil
}

func (m *Manager) GetOrdersList(ctx context.Context, customerID string) ([]*models.Order, error) {
	rows, err := m.Db.QueryContext(ctx, `
		SELECT uuid, subtotal, shipping_fee, discount_percent, discount_amount,
		       points_redeemed, points_earned, total_payable, delivery_choice, status, created_at
		FROM orders
		WHERE customer_uuid = $1
		ORDER BY created_at DESC
	`, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		var o models.Order
		err = rows.Scan(&o.UUID, &o.Subtotal, &o.ShippingFee, &o.DiscountPercent, &o.DiscountAmount,
			&o.PointsRedeemed, &o.PointsEarned, &o.TotalPayable, &o.DeliveryChoice, &o.Status, &o.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		o.CustomerUUID = customerID
		orders = append(orders, &o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	return orders, nil
}

func (m *Manager) GetOrderByID(ctx context.Context, orderID string) (*models.Order, error) {
	var o models.Order
	err := m.Db.QueryRowContext(ctx, `
		SELECT uuid, customer_uuid, subtotal, shipping_fee, discount_percent, discount_amount,
		       points_redeemed, points_earned, total_payable, delivery_choice, status, created_at, delivered_at
		FROM orders
		WHERE uuid = $1
	`, orderID).Scan(&o.UUID, &o.CustomerUUID, &o.Subtotal, &o.ShippingFee, &o.DiscountPercent,
		&o.DiscountAmount, &o.PointsRedeemed, &o.PointsEarned, &o.TotalPayable,
		&o.DeliveryChoice, &o.Status, &o.CreatedAt, &o.DeliveredAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}

	return &o, nil
}

func (m *Manager) ReadBalance(ctx context.Context, customerID string) (int, error) {
	return ledger.CurrentBalance(ctx, m.Db, customerID)
}

func (m *Manager) ReadHistory(ctx context.Context, customerID string) ([]*models.PointsLedgerEntry, error) {
	return ledger.History(ctx, m.Db, customerID)
}

func (m *Manager) Close() error {
	return m.Db.Close()
}
