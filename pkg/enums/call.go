package enums

import "fmt"

// CallDirection distinguishes inbound from outbound telephony traffic.
type CallDirection string

const (
	CallDirectionInbound  CallDirection = "INBOUND"
	CallDirectionOutbound CallDirection = "OUTBOUND"
)

var validCallDirections = []CallDirection{
	CallDirectionInbound,
	CallDirectionOutbound,
}

// IsValid reports whether the value is a known CallDirection.
func (d CallDirection) IsValid() bool {
	for _, candidate := range validCallDirections {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseCallDirection converts raw input into a CallDirection.
func ParseCallDirection(value string) (CallDirection, error) {
	for _, candidate := range validCallDirections {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid call direction %q", value)
}

// CallSource identifies which telephony integration produced a call event.
type CallSource string

const (
	CallSourceFreePBX   CallSource = "FREEPBX"
	CallSourceUSBClient CallSource = "USB_CLIENT"
	CallSourceMobileApp CallSource = "MOBILE_APP"
)

var validCallSources = []CallSource{
	CallSourceFreePBX,
	CallSourceUSBClient,
	CallSourceMobileApp,
}

// IsValid reports whether the value is a known CallSource.
func (s CallSource) IsValid() bool {
	for _, candidate := range validCallSources {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCallSource converts raw input into a CallSource.
func ParseCallSource(value string) (CallSource, error) {
	for _, candidate := range validCallSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid call source %q", value)
}
