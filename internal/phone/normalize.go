package phone

import "strings"

// Normalize canonicalizes a raw phone number to a single dialable form.
// Every character except digits and a leading '+' is stripped. Numbers
// without a leading '+' are treated as national: one leading '0' is dropped
// and the default country prefix (e.g. "+90") is prepended. The function is
// total; malformed input simply normalizes to a possibly-meaningless string,
// and format validation is left to the storage constraint.
func Normalize(raw, defaultCountryPrefix string) string {
	trimmed := strings.TrimSpace(raw)

	var b strings.Builder
	for i, r := range trimmed {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	number := b.String()

	if strings.HasPrefix(number, "+") {
		return number
	}

	number = strings.TrimPrefix(number, "0")
	return defaultCountryPrefix + number
}
