package enums

import "fmt"

// AuditAction identifies why a ledger settlement was applied to a customer.
type AuditAction string

const (
	AuditActionInsertedAsDelivered AuditAction = "INSERTED_AS_DELIVERED"
	AuditActionCustomerChangedFrom AuditAction = "CUSTOMER_CHANGED_FROM"
	AuditActionCustomerChangedTo   AuditAction = "CUSTOMER_CHANGED_TO"
	AuditActionSoftDeleted         AuditAction = "SOFT_DELETED"
	AuditActionRestored            AuditAction = "RESTORED"
	AuditActionDelivered           AuditAction = "DELIVERED"
	AuditActionDeliveryReverted    AuditAction = "DELIVERY_REVERTED"
	AuditActionCorrection          AuditAction = "CORRECTION"
)

var validAuditActions = []AuditAction{
	AuditActionInsertedAsDelivered,
	AuditActionCustomerChangedFrom,
	AuditActionCustomerChangedTo,
	AuditActionSoftDeleted,
	AuditActionRestored,
	AuditActionDelivered,
	AuditActionDeliveryReverted,
	AuditActionCorrection,
}

// String implements fmt.Stringer.
func (a AuditAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AuditAction.
func (a AuditAction) IsValid() bool {
	for _, candidate := range validAuditActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAuditAction converts raw input into an AuditAction.
func ParseAuditAction(value string) (AuditAction, error) {
	for _, candidate := range validAuditActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid audit action %q", value)
}
