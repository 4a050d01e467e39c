package validation

import "strings"

// NormalizeIdentifier canonicalizes project and award identifiers before
// matching: whitespace trimmed, case folded, and leading zeros dropped so
// "0042", " 42 ", and "42" all name the same project. Spreadsheet tools
// disagree about leading zeros depending on cell formatting.
func NormalizeIdentifier(id string) string {
	id = strings.ToUpper(strings.TrimSpace(id))
	trimmed := strings.TrimLeft(id, "0")
	if trimmed == "" && id != "" {
		return "0"
	}
	return trimmed
}
