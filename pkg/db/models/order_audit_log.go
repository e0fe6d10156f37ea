package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aquadesk/aquadesk-backend/pkg/enums"
)

// OrderAuditLog is the immutable record of one ledger settlement: which order
// mutation moved which customer aggregates, and by how much. Deltas are stored
// as applied to the account (already sign-adjusted). Append-only.
type OrderAuditLog struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID          `gorm:"column:order_id;type:uuid;not null;index"`
	CustomerID   *uuid.UUID         `gorm:"column:customer_id;type:uuid;index"`
	Action       enums.AuditAction  `gorm:"column:action;not null"`
	OldStatus    *enums.OrderStatus `gorm:"column:old_status;type:order_status"`
	NewStatus    *enums.OrderStatus `gorm:"column:new_status;type:order_status"`
	BottlesDelta int                `gorm:"column:bottles_delta"`
	BalanceDelta decimal.Decimal    `gorm:"column:balance_delta;type:numeric(10,2)"`
	Details      *string            `gorm:"column:details"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime;index"`
}

func (OrderAuditLog) TableName() string {
	return "order_audit_log"
}
