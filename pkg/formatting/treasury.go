package formatting

import (
	"strconv"
	"strings"
	"unicode"
)

// Currency renders an amount with exactly two decimal places, rounding
// halves away from zero. Treasury rejects amounts with more precision.
func Currency(amount float64) string {
	cents := amount * 100
	if cents >= 0 {
		cents = float64(int64(cents + 0.5))
	} else {
		cents = float64(int64(cents - 0.5))
	}
	return strconv.FormatFloat(cents/100, 'f', 2, 64)
}

// RoundCents rounds an amount to two decimal places, halves away from zero.
func RoundCents(amount float64) float64 {
	if amount >= 0 {
		return float64(int64(amount*100+0.5)) / 100
	}
	return float64(int64(amount*100-0.5)) / 100
}

// TIN strips the separator dash from a taxpayer identification number.
func TIN(tin string) string {
	return strings.ReplaceAll(strings.TrimSpace(tin), "-", "")
}

// Zip left-pads a ZIP code to five digits. Spreadsheet tools routinely
// strip the leading zeros from New England ZIP codes.
func Zip(zip string) string {
	zip = strings.TrimSpace(zip)
	if zip == "" {
		return ""
	}
	return leftPad(zip, 5)
}

// Zip4 left-pads a ZIP+4 extension to four digits.
func Zip4(zip string) string {
	zip = strings.TrimSpace(zip)
	if zip == "" {
		return ""
	}
	return leftPad(zip, 4)
}

func leftPad(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// CapitalizeFirst uppercases the first letter of a value. Treasury pick
// list matching is case-sensitive on the first letter only.
func CapitalizeFirst(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Multiselect normalizes a semicolon-delimited multi-select value: each
// option trimmed, stripped of its bullet dash, and rejoined with "; ".
func Multiselect(s string) string {
	parts := strings.Split(s, ";")
	options := make([]string, 0, len(parts))
	for _, part := range parts {
		option := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "-"))
		if option != "" {
			options = append(options, option)
		}
	}
	return strings.Join(options, "; ")
}

// FlattenNewlines replaces embedded line breaks with a separator so a
// narrative field occupies a single CSV row.
func FlattenNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " -- ")
	s = strings.ReplaceAll(s, "\n", " -- ")
	s = strings.ReplaceAll(s, "\r", " -- ")
	return s
}
