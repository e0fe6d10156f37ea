package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aquadesk/aquadesk-backend/pkg/enums"
)

// CustomerPhone stores a normalized, system-unique phone number.
type CustomerPhone struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID  uuid.UUID        `gorm:"column:customer_id;type:uuid;not null"`
	PhoneNumber string           `gorm:"column:phone_number;not null;uniqueIndex:unique_phone_per_system"`
	Label       enums.PhoneLabel `gorm:"column:label;not null;default:'mobile'"`
	IsPrimary   bool             `gorm:"column:is_primary;not null;default:false"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
}

func (CustomerPhone) TableName() string {
	return "customer_phones"
}
