package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry (19L bottle, dispenser, etc).
type Product struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string          `gorm:"column:name;not null"`
	SKU             *string         `gorm:"column:sku;uniqueIndex"`
	UnitPrice       decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null;default:0"`
	DepositRequired bool            `gorm:"column:deposit_required;not null;default:false"`
	IsActive        bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Product) TableName() string {
	return "products"
}
