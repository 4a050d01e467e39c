package rules

// dropdownCorrection records a fix for a dropdown value. Two cases:
//
//  1. The committed input template carries an incorrect value. The rule is
//     altered to validate against CorrectedValue, and the template's value
//     becomes an allowable legacy spelling.
//  2. A dropdown value changed over time and the old spellings must stay
//     accepted as input.
//
// In both cases legacy spellings are forcibly coerced to the canonical
// value as soon as they are read from an upload, so validation and export
// both see the corrected form.
type dropdownCorrection struct {
	CorrectedValue        string
	AllowableLegacyValues []string
}

var dropdownCorrections = map[string]dropdownCorrection{
	"Affordable housing supportive housing or recovery housing": {
		CorrectedValue: "Affordable housing, supportive housing, or recovery housing",
	},
	"COVID-19 testing sites and laboratories and acquisition of related equipment": {
		CorrectedValue: "COVID-19 testing sites and laboratories, and acquisition of related equipment",
	},
	"Family or child care": {
		AllowableLegacyValues: []string{"Family or childcare"},
	},
}

// applyCorrections rewrites a rule's list values per the correction table
// and appends the matching coercion formatters to its persistent chain.
func applyCorrections(r *Rule) {
	for i, worksheetValue := range r.ListVals {
		correction, ok := dropdownCorrections[worksheetValue]
		if !ok {
			continue
		}

		canonical := correction.CorrectedValue
		if canonical == "" {
			canonical = worksheetValue
		}
		legacy := append([]string{}, correction.AllowableLegacyValues...)
		legacy = append(legacy, worksheetValue)

		r.ListVals[i] = canonical
		r.persistent = append(r.persistent, coerceFormatter(legacy, canonical))
	}
}
