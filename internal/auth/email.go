package auth

import "strings"

// NormalizeEmail canonicalizes an email before any lookup or uniqueness
// check: whitespace trimmed, the whole address lower-cased. Addresses
// that differ only by case always refer to the same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
