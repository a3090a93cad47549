package parser

import "strings"

// cleanHumanText collapses runs of whitespace and trims the result.
// Entities are already decoded by the HTML parser.
func cleanHumanText(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
