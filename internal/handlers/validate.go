package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for studio form fields.
const (
	refLen          = 20
	maxAccessKeyLen = 200
	maxIdentLen     = 200
)

// validRef reports whether ref looks like a project reference: twenty
// lowercase ASCII letters.
func validRef(ref string) bool {
	if len(ref) != refLen {
		return false
	}
	for _, c := range ref {
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

// validateAccessKey checks the login form input and returns the first error
// found.
func validateAccessKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "Access key is required."
	}
	if utf8.RuneCountInString(key) > maxAccessKeyLen {
		return "Access key is too long (max 200 characters)."
	}
	return ""
}

// validateIdentifier checks a database identifier posted by the selector.
func validateIdentifier(id string) string {
	if strings.TrimSpace(id) == "" {
		return "Database is required."
	}
	if utf8.RuneCountInString(id) > maxIdentLen {
		return "Database identifier is too long."
	}
	return ""
}
