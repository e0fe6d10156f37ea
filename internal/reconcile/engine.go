package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aquadesk/aquadesk-backend/internal/audit"
	"github.com/aquadesk/aquadesk-backend/pkg/db/models"
	"github.com/aquadesk/aquadesk-backend/pkg/enums"
	"github.com/aquadesk/aquadesk-backend/pkg/logger"
	"github.com/aquadesk/aquadesk-backend/pkg/metrics"
)

// customerAdjuster applies signed deltas to a customer's aggregates inside
// the caller's transaction.
type customerAdjuster interface {
	AdjustAggregates(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, bottlesDelta int, balanceDelta decimal.Decimal) error
}

// auditRecorder persists one audit entry inside the caller's transaction.
type auditRecorder interface {
	Record(ctx context.Context, tx *gorm.DB, input audit.RecordEntryInput) (*models.OrderAuditLog, error)
}

// Engine reconciles an order write against the customer ledger. It is
// invoked inside the transaction that wrote the order, so the order row, the
// aggregate adjustment and the audit entry commit or roll back together.
type Engine struct {
	customers customerAdjuster
	audit     auditRecorder
	metrics   *metrics.LedgerMetrics
	logg      *logger.Logger
}

// NewEngine wires a reconciliation engine. Metrics may be nil.
func NewEngine(customers customerAdjuster, recorder auditRecorder, m *metrics.LedgerMetrics, logg *logger.Logger) (*Engine, error) {
	if customers == nil {
		return nil, fmt.Errorf("customer adjuster required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Engine{customers: customers, audit: recorder, metrics: m, logg: logg}, nil
}

// OrderWritten reconciles a single order write. previous is nil for a fresh
// insert; otherwise it is the snapshot read under lock before the write.
// current is the snapshot after the write. Both snapshots must come from the
// same transaction tx that performed the write.
func (e *Engine) OrderWritten(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, previous *OrderState, current OrderState) error {
	if tx == nil {
		return fmt.Errorf("reconciliation requires a transaction")
	}
	if orderID == uuid.Nil {
		return fmt.Errorf("order id is required")
	}

	start := time.Now()
	path := "update"
	defer func() {
		e.metrics.ObserveReconcile(path, time.Since(start))
	}()

	if previous == nil {
		path = "create"
		return e.reconcileCreate(ctx, tx, orderID, current)
	}
	if customerChanged(previous.CustomerID, current.CustomerID) {
		path = "reassign"
		return e.reconcileReassignment(ctx, tx, orderID, *previous, current)
	}
	return e.reconcileSameCustomer(ctx, tx, orderID, *previous, current)
}

func (e *Engine) reconcileCreate(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, current OrderState) error {
	if current.CustomerID == nil {
		return nil
	}
	effect := EffectOf(current)
	if effect.IsZero() {
		return nil
	}
	return e.settle(ctx, tx, settlement{
		orderID:    orderID,
		customerID: *current.CustomerID,
		action:     enums.AuditActionInsertedAsDelivered,
		newStatus:  &current.Status,
		effect:     effect,
	})
}

// reconcileReassignment settles the move of an order between customers as
// two independent entries: a full reversal against the old customer and a
// full application against the new one. The legs are never merged, but a leg
// whose effect is zero is skipped entirely, so moving an order that carries
// no ledger weight touches neither customer and writes no audit entries.
func (e *Engine) reconcileReassignment(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, previous, current OrderState) error {
	oldEffect := EffectOf(previous)
	newEffect := EffectOf(current)

	if previous.CustomerID != nil && !oldEffect.IsZero() {
		err := e.settle(ctx, tx, settlement{
			orderID:    orderID,
			customerID: *previous.CustomerID,
			action:     enums.AuditActionCustomerChangedFrom,
			oldStatus:  &previous.Status,
			newStatus:  &current.Status,
			effect:     Effect{Bottles: -oldEffect.Bottles, Balance: oldEffect.Balance.Neg()},
			details:    reassignDetails(previous.CustomerID, current.CustomerID),
		})
		if err != nil {
			return err
		}
	}
	if current.CustomerID != nil && !newEffect.IsZero() {
		err := e.settle(ctx, tx, settlement{
			orderID:    orderID,
			customerID: *current.CustomerID,
			action:     enums.AuditActionCustomerChangedTo,
			oldStatus:  &previous.Status,
			newStatus:  &current.Status,
			effect:     newEffect,
			details:    reassignDetails(previous.CustomerID, current.CustomerID),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) reconcileSameCustomer(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, previous, current OrderState) error {
	if current.CustomerID == nil {
		return nil
	}
	diff := EffectOf(current).Sub(EffectOf(previous))
	if diff.IsZero() {
		return nil
	}
	return e.settle(ctx, tx, settlement{
		orderID:    orderID,
		customerID: *current.CustomerID,
		action:     classify(previous, current),
		oldStatus:  &previous.Status,
		newStatus:  &current.Status,
		effect:     diff,
	})
}

type settlement struct {
	orderID    uuid.UUID
	customerID uuid.UUID
	action     enums.AuditAction
	oldStatus  *enums.OrderStatus
	newStatus  *enums.OrderStatus
	effect     Effect
	details    string
}

// settle applies one settlement to the customer aggregates and records the
// matching audit entry. The balance sign is flipped exactly here: a positive
// effect balance (amount paid) reduces the stored account balance, and the
// audit entry stores the delta as applied.
func (e *Engine) settle(ctx context.Context, tx *gorm.DB, s settlement) error {
	appliedBalance := s.effect.Balance.Neg()

	if err := e.customers.AdjustAggregates(ctx, tx, s.customerID, s.effect.Bottles, appliedBalance); err != nil {
		return fmt.Errorf("adjust aggregates for customer %s: %w", s.customerID, err)
	}

	customerID := s.customerID
	_, err := e.audit.Record(ctx, tx, audit.RecordEntryInput{
		OrderID:      s.orderID,
		CustomerID:   &customerID,
		Action:       s.action,
		OldStatus:    s.oldStatus,
		NewStatus:    s.newStatus,
		BottlesDelta: s.effect.Bottles,
		BalanceDelta: appliedBalance,
		Details:      s.details,
	})
	if err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}

	e.metrics.IncSettlement(s.action.String())
	logCtx := e.logg.WithFields(ctx, map[string]any{
		"order_id":      s.orderID.String(),
		"customer_id":   s.customerID.String(),
		"action":        s.action.String(),
		"bottles_delta": s.effect.Bottles,
		"balance_delta": appliedBalance.String(),
	})
	e.logg.Info(logCtx, "ledger settlement applied")
	return nil
}

// classify names the most significant transition between two same-customer
// snapshots. Deletion state wins over delivery state; anything else that
// still moved the aggregates is a correction.
func classify(previous, current OrderState) enums.AuditAction {
	switch {
	case !previous.IsDeleted && current.IsDeleted:
		return enums.AuditActionSoftDeleted
	case previous.IsDeleted && !current.IsDeleted:
		return enums.AuditActionRestored
	case previous.Status != enums.OrderStatusDelivered && current.Status == enums.OrderStatusDelivered:
		return enums.AuditActionDelivered
	case previous.Status == enums.OrderStatusDelivered && current.Status != enums.OrderStatusDelivered:
		return enums.AuditActionDeliveryReverted
	default:
		return enums.AuditActionCorrection
	}
}

func customerChanged(previous, current *uuid.UUID) bool {
	if previous == nil && current == nil {
		return false
	}
	if previous == nil || current == nil {
		return true
	}
	return *previous != *current
}

func reassignDetails(from, to *uuid.UUID) string {
	fromLabel := "none"
	if from != nil {
		fromLabel = from.String()
	}
	toLabel := "none"
	if to != nil {
		toLabel = to.String()
	}
	return fmt.Sprintf("customer changed from %s to %s", fromLabel, toLabel)
}
