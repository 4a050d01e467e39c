package validation

import (
	"math"
	"strings"

	"github.com/granite-reporting/granite/internal/records"
	"github.com/granite-reporting/granite/internal/rules"
	"github.com/granite-reporting/granite/pkg/formatting"
)

// ValidateRecord runs every catalog rule for the record's type against its
// content and accumulates all findings; one bad cell never hides another.
func ValidateRecord(vctx *Context, rec records.Record) []Item {
	var items []Item

	for _, rule := range vctx.Catalog.ForType(rec.Type) {
		if vctx.ECCode != "" && !rule.AppliesTo(vctx.ECCode) {
			continue
		}

		value := rec.Content.Get(rule.Key)
		if value.IsAbsent() {
			if vctx.Catalog.IsRequired(rule.Required, rec.Content) {
				items = append(items, errorAt(rec, rule, "Value is required for %s", rule.Key))
			}
			continue
		}

		formatted, failures := rule.FormatForValidation(value)
		if failures > 0 {
			items = append(items, errorAt(rec, rule, "Failed to normalize value for %s", rule.Key))
			continue
		}

		items = append(items, checkDataType(rec, rule, value, formatted)...)
	}

	return items
}

func checkDataType(rec records.Record, rule *rules.Rule, value, formatted rules.Value) []Item {
	var items []Item

	switch rule.DataType {
	case rules.TypeString:
		text := formatted.Text()
		if rule.MaxLength > 0 && len([]rune(text)) > rule.MaxLength {
			items = append(items, errorAt(rec, rule,
				"Value for %s cannot be longer than %d characters", rule.Key, rule.MaxLength))
		}
		if rule.Pattern != "" {
			if pattern, ok := rules.NamedPattern(rule.Pattern); ok && !pattern.MatchString(strings.TrimSpace(text)) {
				items = append(items, errorAt(rec, rule,
					"Value for %s must be a valid %s address", rule.Key, rule.Pattern))
			}
		}

	case rules.TypePickList:
		if !allowedValue(rule.ListVals, formatted.Text(), false) {
			items = append(items, errorAt(rec, rule,
				"Value for %s (%q) is not one of the allowed values", rule.Key, value.Text()))
		}

	case rules.TypeMultiSelect:
		for _, option := range strings.Split(formatted.Text(), ";") {
			option = strings.TrimSpace(option)
			if option == "" {
				continue
			}
			if !allowedValue(rule.ListVals, option, true) {
				items = append(items, errorAt(rec, rule,
					"Value for %s (%q) is not one of the allowed values", rule.Key, option))
			}
		}

	case rules.TypeCurrency:
		if value.Kind != rules.KindNumber {
			items = append(items, errorAt(rec, rule,
				"Value for %s (%q) must be a dollar amount", rule.Key, value.Text()))
			break
		}
		if math.Abs(value.Num-formatting.RoundCents(value.Num)) > 1e-9 {
			items = append(items, errorAt(rec, rule,
				"Value for %s can have at most two decimal places", rule.Key))
		}

	case rules.TypeNumeric:
		if value.Kind != rules.KindNumber {
			items = append(items, errorAt(rec, rule,
				"Value for %s (%q) must be a number", rule.Key, value.Text()))
		}

	case rules.TypeDate:
		if value.Kind != rules.KindDate {
			items = append(items, errorAt(rec, rule,
				"Value for %s (%q) must be a date", rule.Key, value.Text()))
		}
	}

	return items
}

// allowedValue matches a formatted (lowercased) value against the rule's
// list values. Multi-select options lost their commas to the validation
// formatter chain, so list values are compared the same way.
func allowedValue(listVals []string, value string, stripCommas bool) bool {
	value = strings.TrimSpace(value)
	for _, lv := range listVals {
		candidate := strings.ToLower(lv)
		if stripCommas {
			candidate = strings.ReplaceAll(candidate, ",", "")
		}
		if value == candidate {
			return true
		}
	}
	return false
}
