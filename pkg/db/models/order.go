package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aquadesk/aquadesk-backend/pkg/enums"
)

// Order is a delivery order. The tuple (status, is_deleted, is_paid,
// bottles_delivered, bottles_returned, total_amount, customer_id) is its
// effective state for ledger purposes; every write to it must go through the
// reconciliation engine in the same transaction.
type Order struct {
	ID                    uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID            *uuid.UUID        `gorm:"column:customer_id;type:uuid"`
	DriverID              *uuid.UUID        `gorm:"column:driver_id;type:uuid"`
	AddressID             *uuid.UUID        `gorm:"column:address_id;type:uuid"`
	Status                enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'pending'"`
	RequestedDeliveryDate *time.Time        `gorm:"column:requested_delivery_date;type:date"`
	DeliveryWindow        *string           `gorm:"column:delivery_window"`
	BottlesDelivered      int               `gorm:"column:bottles_delivered;not null;default:0"`
	BottlesReturned       int               `gorm:"column:bottles_returned;not null;default:0"`
	TotalAmount           decimal.Decimal   `gorm:"column:total_amount;type:numeric(10,2);not null;default:0"`
	PaymentMethod         *string           `gorm:"column:payment_method"`
	IsPaid                bool              `gorm:"column:is_paid;not null;default:false"`
	IsDeleted             bool              `gorm:"column:is_deleted;not null;default:false"`
	DeliveredAt           *time.Time        `gorm:"column:delivered_at"`
	Items                 []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string {
	return "orders"
}
