package reconcile

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aquadesk/aquadesk-backend/pkg/db/models"
	"github.com/aquadesk/aquadesk-backend/pkg/enums"
)

// OrderState is the snapshot of the order fields that determine its ledger
// contribution. Two snapshots of the same order are enough to compute what
// must change on the customer aggregates; nothing else about the order
// matters to the ledger.
type OrderState struct {
	CustomerID       *uuid.UUID
	Status           enums.OrderStatus
	IsDeleted        bool
	IsPaid           bool
	BottlesDelivered int
	BottlesReturned  int
	TotalAmount      decimal.Decimal
}

// Effect is an order's contribution to its customer's aggregates. Bottles is
// the net bottles placed with the customer, Balance the amount owed against
// the account.
type Effect struct {
	Bottles int
	Balance decimal.Decimal
}

// IsZero reports whether the effect would leave the aggregates untouched.
func (e Effect) IsZero() bool {
	return e.Bottles == 0 && e.Balance.IsZero()
}

// Sub returns the differential e - other.
func (e Effect) Sub(other Effect) Effect {
	return Effect{
		Bottles: e.Bottles - other.Bottles,
		Balance: e.Balance.Sub(other.Balance),
	}
}

// EffectOf computes the ledger effect of an order state. Only a delivered,
// non-deleted order contributes; any other state is ledger-neutral. Unpaid
// deliveries still move bottles but carry no balance.
func EffectOf(state OrderState) Effect {
	if state.Status != enums.OrderStatusDelivered || state.IsDeleted {
		return Effect{Balance: decimal.Zero}
	}
	effect := Effect{
		Bottles: state.BottlesDelivered - state.BottlesReturned,
		Balance: decimal.Zero,
	}
	if state.IsPaid {
		effect.Balance = state.TotalAmount
	}
	return effect
}

// StateOf extracts the ledger-relevant snapshot from an order row.
func StateOf(order models.Order) OrderState {
	var customerID *uuid.UUID
	if order.CustomerID != nil {
		id := *order.CustomerID
		customerID = &id
	}
	return OrderState{
		CustomerID:       customerID,
		Status:           order.Status,
		IsDeleted:        order.IsDeleted,
		IsPaid:           order.IsPaid,
		BottlesDelivered: order.BottlesDelivered,
		BottlesReturned:  order.BottlesReturned,
		TotalAmount:      order.TotalAmount,
	}
}
