// Package normalize provides canonical forms for user-supplied fields
// so that lookups and unique indexes behave predictably.
package normalize

import "strings"

// Email lowercases and trims an email address. Emails are compared and
// indexed in this form everywhere (token claims, user documents, borrow
// records).
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Title trims surrounding whitespace from a book title, preserving case.
func Title(s string) string {
	return strings.TrimSpace(s)
}

// Role lowercases and trims a role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
