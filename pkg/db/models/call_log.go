package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aquadesk/aquadesk-backend/pkg/enums"
)

// CallLog records one telephony event, linked to a customer when the caller
// number matches a known phone.
type CallLog struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CallUUID          string              `gorm:"column:call_uuid;not null;uniqueIndex"`
	CallerNumber      string              `gorm:"column:caller_number;not null;index"`
	MatchedCustomerID *uuid.UUID          `gorm:"column:matched_customer_id;type:uuid"`
	TargetIdentifier  *string             `gorm:"column:target_identifier"`
	Source            enums.CallSource    `gorm:"column:source;type:call_source;not null;default:'FREEPBX'"`
	Direction         enums.CallDirection `gorm:"column:direction;type:call_direction;not null;default:'INBOUND'"`
	Status            *string             `gorm:"column:status"`
	Duration          int                 `gorm:"column:duration;not null;default:0"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (CallLog) TableName() string {
	return "call_logs"
}
