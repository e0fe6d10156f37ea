package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aquadesk/aquadesk-backend/pkg/enums"
)

// Staff is an internal user: admin, dispatcher or driver.
type Staff struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FullName  string          `gorm:"column:full_name;not null"`
	Email     *string         `gorm:"column:email;uniqueIndex"`
	Role      enums.StaffRole `gorm:"column:role;type:staff_role;not null;default:'dispatcher'"`
	IsActive  bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Staff) TableName() string {
	return "staff"
}
