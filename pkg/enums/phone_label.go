package enums

import "fmt"

// PhoneLabel categorizes a customer phone number.
type PhoneLabel string

const (
	PhoneLabelMobile PhoneLabel = "mobile"
	PhoneLabelHome   PhoneLabel = "home"
	PhoneLabelOffice PhoneLabel = "office"
)

var validPhoneLabels = []PhoneLabel{
	PhoneLabelMobile,
	PhoneLabelHome,
	PhoneLabelOffice,
}

// IsValid reports whether the value is a known PhoneLabel.
func (l PhoneLabel) IsValid() bool {
	for _, candidate := range validPhoneLabels {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParsePhoneLabel converts raw input into a PhoneLabel.
func ParsePhoneLabel(value string) (PhoneLabel, error) {
	for _, candidate := range validPhoneLabels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid phone label %q", value)
}
