package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aquadesk/aquadesk-backend/pkg/db/models"
	"github.com/aquadesk/aquadesk-backend/pkg/enums"
	"github.com/aquadesk/aquadesk-backend/pkg/pagination"
)

// Service defines operations that record and read audit entries. Recording
// runs inside the caller's transaction so a ledger adjustment and its audit
// entry are always either both visible or both absent.
type Service interface {
	Record(ctx context.Context, tx *gorm.DB, input RecordEntryInput) (*models.OrderAuditLog, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderAuditLog, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.OrderAuditLog, string, error)
}

type service struct {
	repo Repository
}

// RecordEntryInput captures the immutable data an audit entry requires.
// Deltas are the values as applied to the customer aggregates, already
// sign-adjusted.
type RecordEntryInput struct {
	OrderID      uuid.UUID
	CustomerID   *uuid.UUID
	Action       enums.AuditAction
	OldStatus    *enums.OrderStatus
	NewStatus    *enums.OrderStatus
	BottlesDelta int
	BalanceDelta decimal.Decimal
	Details      string
}

// NewService wires an audit service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("audit repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, tx *gorm.DB, input RecordEntryInput) (*models.OrderAuditLog, error) {
	if input.OrderID == uuid.Nil {
		return nil, fmt.Errorf("order id is required")
	}
	if !input.Action.IsValid() {
		return nil, fmt.Errorf("invalid audit action %q", input.Action)
	}

	entry := &models.OrderAuditLog{
		ID:           uuid.New(),
		OrderID:      input.OrderID,
		CustomerID:   input.CustomerID,
		Action:       input.Action,
		OldStatus:    input.OldStatus,
		NewStatus:    input.NewStatus,
		BottlesDelta: input.BottlesDelta,
		BalanceDelta: input.BalanceDelta,
	}
	if input.Details != "" {
		details := input.Details
		entry.Details = &details
	}

	if err := s.repo.WithTx(tx).Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderAuditLog, error) {
	if orderID == uuid.Nil {
		return nil, fmt.Errorf("order id is required")
	}
	return s.repo.ListByOrderID(ctx, orderID)
}

func (s *service) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.OrderAuditLog, string, error) {
	if customerID == uuid.Nil {
		return nil, "", fmt.Errorf("customer id is required")
	}
	return s.repo.ListByCustomerID(ctx, customerID, params)
}
