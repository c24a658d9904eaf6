package db

import (
	"context"
	"time"

	"github.com/Farouk-MY/PFE-sub001/models"
)

// StatusUpdate is what a status-change callback decides inside the
// transaction: the target status, the delivery stamp when moving to
// delivered, and whether the order's points must be compensated.
type StatusUpdate struct {
	To          models.OrderStatus
	DeliveredAt *time.Time
	Compensate  bool
}

type Database interface {
	PutUniqueCustomer(ctx context.Context, customer models.Customer) error
	GetCustomer(ctx context.Context, login string) (models.Customer, error)

	RunSettlement(ctx context.Context, customerID string, settle func(balance int) (*models.Order, error)) (*models.Order, error)
	RunStatusChange(ctx context.Context, orderID string, change func(current *models.Order) (*StatusUpdate, error)) (*models.Order, error)

	GetOrdersList(ctx context.Context, customerID string) ([]*models.Order, error)
	GetOrderByID(ctx context.Context, orderID string) (*models.Order, error)

	ReadBalance(ctx context.Context, customerID string) (int, error)
	ReadHistory(ctx context.Context, customerID string) ([]*models.PointsLedgerEntry, error)

	Close() error
}
