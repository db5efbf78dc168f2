package shared

import "strings"

// NormalizeEmail trims and lower-cases an email so lookups and the unique
// constraint agree on one spelling.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
