// Package engine is the settlement façade used by checkout and by the
// admin status surface. It coordinates the discount calculator, the
// total compositor, the state machine and the points ledger, and keeps
// every placeOrder or changeStatus an all-or-nothing unit of work.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Farouk-MY/PFE-sub001/internal/db"
	"github.com/Farouk-MY/PFE-sub001/internal/discount"
	"github.com/Farouk-MY/PFE-sub001/internal/ledger"
	"github.com/Farouk-MY/PFE-sub001/internal/settlement"
	"github.com/Farouk-MY/PFE-sub001/internal/status"
	"github.com/Farouk-MY/PFE-sub001/models"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrMissingAddress  = errors.New("delivery address is required")
	ErrInvalidDelivery = errors.New("unknown delivery choice")
	ErrUnknownStatus   = errors.New("unknown order status")
)

// Notifier receives order events after commit. Delivery is
// fire-and-forget, a failure here never rolls an order back.
type Notifier interface {
	Publish(event models.OrderEvent)
}

type Engine struct {
	Database db.Database
	Notifier Notifier
	Logger   *zap.SugaredLogger
}

func New(database db.Database, notifier Notifier, logger *zap.SugaredLogger) *Engine {
	return &Engine{
		Database: database,
		Notifier: notifier,
		Logger:   logger,
	}
}

// PlaceOrder turns a cart, a redemption request and a delivery choice
// into a binding order. The balance is read under the customer's row
// lock, so two concurrent checkouts can not both spend the same
// points.
func (e *Engine) PlaceOrder(ctx context.Context, req models.PlaceOrderRequest) (*models.OrderConfirmation, error) {
	if len(req.CartLines) == 0 {
		return nil, ErrEmptyCart
	}
	if !req.DeliveryChoice.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDelivery, req.DeliveryChoice)
	}
	if req.DeliveryChoice == models.DeliveryHome && req.DeliveryAddress == "" {
		return nil, ErrMissingAddress
	}

	var disc discount.Result

	order, err := e.Database.RunSettlement(ctx, req.CustomerID, func(balance int) (*models.Order, error) {
		if req.PointsToRedeem > balance {
			return nil, fmt.Errorf("%w: requested %d, balance %d", ledger.ErrInsufficientPoints, req.PointsToRedeem, balance)
		}

		cart := models.CartSnapshot(req.CartLines)
		disc = discount.Compute(req.PointsToRedeem, settlement.Subtotal(cart), balance)

		totals, err := settlement.ComputeTotal(cart, req.DeliveryChoice, disc.Amount)
		if err != nil {
			return nil, err
		}

		return &models.Order{
			UUID:            uuid.New().String(),
			CustomerUUID:    req.CustomerID,
			Subtotal:        totals.Subtotal,
			ShippingFee:     totals.ShippingFee,
			DiscountPercent: disc.Percent,
			DiscountAmount:  disc.Amount,
			PointsRedeemed:  disc.AdjustedPoints,
			PointsEarned:    totals.PointsEarned,
			TotalPayable:    totals.TotalPayable,
			DeliveryChoice:  req.DeliveryChoice,
			DeliveryAddress: req.DeliveryAddress,
			Status:          models.OrderPending,
			Lines:           cart,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	e.Notifier.Publish(models.OrderEvent{
		OrderID:      order.UUID,
		CustomerID:   order.CustomerUUID,
		Kind:         models.OrderEventCreated,
		Status:       order.Status,
		TotalPayable: order.TotalPayable,
	})

	confirmation := &models.OrderConfirmation{
		OrderID:         order.UUID,
		Subtotal:        order.Subtotal,
		ShippingFee:     order.ShippingFee,
		DiscountPercent: order.DiscountPercent,
		DiscountAmount:  order.DiscountAmount,
		TotalPayable:    order.TotalPayable,
		PointsEarned:    order.PointsEarned,
		PointsRedeemed:  order.PointsRedeemed,
		Status:          order.Status,
	}
	for _, v := range disc.Violations {
		confirmation.Adjustments = append(confirmation.Adjustments, string(v))
	}

	return confirmation, nil
}

// ChangeStatus applies one operator-invoked transition. Moving to
// delivered stamps the delivery time once; moving to cancelled writes
// the compensating ledger entry that undoes the order's points.
func (e *Engine) ChangeStatus(ctx context.Context, orderID string, newStatus models.OrderStatus, actorID string) (*models.Order, error) {
	if !status.Known(newStatus) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, newStatus)
	}

	order, err := e.Database.RunStatusChange(ctx, orderID, func(current *models.Order) (*db.StatusUpdate, error) {
		next, err := status.Transition(current.Status, newStatus)
		if err != nil {
			return nil, err
		}

		update := &db.StatusUpdate{To: next}
		if next == models.OrderDelivered && current.DeliveredAt == nil {
			now := time.Now().UTC()
			update.DeliveredAt = &now
		}
		if next == models.OrderCancelled {
			update.Compensate = true
		}

		return update, nil
	})
	if err != nil {
		return nil, err
	}

	e.Logger.Infow("order status changed",
		"order", orderID, "status", order.Status, "actor", actorID)

	e.Notifier.Publish(models.OrderEvent{
		OrderID:    order.UUID,
		CustomerID: order.CustomerUUID,
		Kind:       models.OrderEventStatusChanged,
		Status:     order.Status,
	})

	return order, nil
}
