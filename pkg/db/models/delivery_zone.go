package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// DeliveryZone groups neighborhoods served by one route.
type DeliveryZone struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string         `gorm:"column:name;not null"`
	Neighborhoods pq.StringArray `gorm:"column:neighborhoods;type:text[]"`
	IsActive      bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
}

func (DeliveryZone) TableName() string {
	return "delivery_zones"
}
