// Package status is the order fulfillment state machine. Transitions
// are operator-invoked, nothing moves automatically.
package status

import (
	"fmt"

	"github.com/Farouk-MY/PFE-sub001/models"
)

// transitions lists every legal move. Absence means IllegalTransition.
var transitions = map[models.OrderStatus]map[models.OrderStatus]bool{
	models.OrderPending: {
		models.OrderPreparing: true,
		models.OrderShipping:  true,
		models.OrderDelivered: true,
		models.OrderCancelled: true,
	},
	models.OrderPreparing: {
		models.OrderShipping:  true,
		models.OrderDelivered: true,
		models.OrderCancelled: true,
	},
	models.OrderShipping: {
		models.OrderDelivered: true,
		models.OrderCancelled: true,
	},
	models.OrderDelivered: {},
	models.OrderCancelled: {},
}

type IllegalTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition from %q to %q", e.From, e.To)
}

func Known(s models.OrderStatus) bool {
	_, ok := transitions[s]
	return ok
}

func CanTransition(from, to models.OrderStatus) bool {
	return transitions[from][to]
}

// Transition validates the move and returns the new status. State is
// left to the caller to persist; on error the current status stands.
func Transition(from, to models.OrderStatus) (models.OrderStatus, error) {
	if !CanTransition(from, to) {
		return from, &IllegalTransitionError{From: from, To: to}
	}
	return to, nil
}

func Terminal(s models.OrderStatus) bool {
	return len(transitions[s]) == 0 && Known(s)
}
