package handlers

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// countPrinter renders integers with locale-aware digit grouping for the
// display fields of dashboard payloads.
var countPrinter = message.NewPrinter(language.English)

// formatCount formats n with thousands separators, e.g. 12845 -> "12,845".
func formatCount(n int64) string {
	return countPrinter.Sprintf("%d", n)
}
