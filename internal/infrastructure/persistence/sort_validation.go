package persistence

import "strings"

// ValidateSortField returns the field if it is in the allowed set, otherwise
// the fallback. Sort fields come from query strings and are interpolated into
// ORDER BY, so they must be allow-listed.
func ValidateSortField(field string, allowed map[string]bool, fallback string) string {
	if allowed[field] {
		return field
	}
	return fallback
}

// ValidateSortOrder normalizes a sort direction to ASC or DESC.
func ValidateSortOrder(dir string) string {
	if strings.EqualFold(dir, "desc") {
		return "DESC"
	}
	return "ASC"
}
