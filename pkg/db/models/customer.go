package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aquadesk/aquadesk-backend/pkg/enums"
)

// Customer represents a water-delivery account. The bottles_in_hand and
// account_balance aggregates are derived from orders and mutated only by the
// reconciliation engine; positive bottles means the customer holds our
// bottles, negative means we owe them bottles.
type Customer struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FullName       string              `gorm:"column:full_name;not null"`
	Email          *string             `gorm:"column:email"`
	BottlesInHand  int                 `gorm:"column:bottles_in_hand;not null;default:0"`
	AccountBalance decimal.Decimal     `gorm:"column:account_balance;type:numeric(12,2);not null;default:0"`
	Status         enums.AccountStatus `gorm:"column:status;type:account_status;not null;default:'active'"`
	InternalNotes  *string             `gorm:"column:internal_notes"`
	IsDeleted      bool                `gorm:"column:is_deleted;not null;default:false"`
	Phones         []CustomerPhone     `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	Addresses      []CustomerAddress   `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Customer) TableName() string {
	return "customers"
}
