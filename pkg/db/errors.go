package db

import "strings"

// IsUniqueViolation reports whether err stems from a unique-constraint
// violation. Matching on the message covers both the postgres wording
// ("duplicate key") and the sqlite wording ("UNIQUE constraint failed")
// used in tests.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
