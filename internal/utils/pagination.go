// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead. Handlers use it for
// query and path parameters such as page, tier, and page_size.
//
// Example:
//
//	page := utils.AtoiDefault(c.Query("page"), 1)
//	tier := utils.AtoiDefault(c.Param("viewerTier"), 0)
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
