package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerAddress is a delivery destination with optional geolocation.
type CustomerAddress struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID     uuid.UUID        `gorm:"column:customer_id;type:uuid;not null"`
	Title          *string          `gorm:"column:title"`
	AddressLine1   string           `gorm:"column:address_line_1;not null"`
	AddressLine2   *string          `gorm:"column:address_line_2"`
	City           string           `gorm:"column:city;not null;default:'Istanbul'"`
	GeoLat         *decimal.Decimal `gorm:"column:geo_lat;type:numeric(9,6)"`
	GeoLng         *decimal.Decimal `gorm:"column:geo_lng;type:numeric(9,6)"`
	DeliveryZoneID *uuid.UUID       `gorm:"column:delivery_zone_id;type:uuid"`
	HasElevator    bool             `gorm:"column:has_elevator;not null;default:false"`
	IsDefault      bool             `gorm:"column:is_default;not null;default:false"`
}

func (CustomerAddress) TableName() string {
	return "customer_addresses"
}
