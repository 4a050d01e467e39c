// Package rules builds the versioned rule catalog that drives upload
// validation and export formatting. The catalog is generated once from an
// embedded source document mirroring the official bulk-upload template and
// is immutable afterwards, so a single instance is shared read-only across
// all concurrent validations.
package rules

// DataType tags how a field's value is checked.
type DataType string

const (
	TypeString      DataType = "String"
	TypeNumeric     DataType = "Numeric"
	TypeCurrency    DataType = "Currency"
	TypeDate        DataType = "Date"
	TypePickList    DataType = "Pick List"
	TypeMultiSelect DataType = "Multi-Select"
)

// RequirementKind discriminates the requiredness variants.
type RequirementKind int

const (
	Never RequirementKind = iota
	Always
	Conditional
)

// Requirement captures whether a field must be present. Conditional
// requirements defer to a predicate looked up by id in the predicate
// registry and evaluated against the full record.
type Requirement struct {
	Kind        RequirementKind
	PredicateID string
}

// Rule is the validation rule for one (record type, field id) pair.
// ListVals, when non-empty, is the closed set of legal values. ECCodes,
// when non-empty, restricts the rule to uploads with a matching category
// code. Tags gate evaluation of cross-period rules against the active tag
// set in the validation context.
type Rule struct {
	Key          string
	Required     Requirement
	DataType     DataType
	MaxLength    int
	ListVals     []string
	Pattern      string
	ColumnName   string
	HumanColName string
	ECCodes      []string
	Tags         []string
	Cumulative   *CumulativeSpec

	validation []Formatter
	persistent []Formatter
}

// CumulativeSpec describes a cumulative reconciliation rule pair: the
// declared total in Key must equal the sum of IncrementField across all
// reporting periods up to the current one, matched per award.
type CumulativeSpec struct {
	IncrementField string `json:"incrementField"`
	AwardType      string `json:"awardType"`
}

// AppliesTo reports whether the rule applies to an upload with the given
// category code.
func (r *Rule) AppliesTo(ecCode string) bool {
	if len(r.ECCodes) == 0 {
		return true
	}
	for _, code := range r.ECCodes {
		if code == ecCode {
			return true
		}
	}
	return false
}

// Tagged reports whether the rule's tag set intersects active. Untagged
// rules are always live.
func (r *Rule) Tagged(active map[string]bool) bool {
	if len(r.Tags) == 0 {
		return true
	}
	for _, tag := range r.Tags {
		if active[tag] {
			return true
		}
	}
	return false
}

// FormatForValidation runs the validation-time formatter chain. The count
// of formatters that failed is returned alongside the formatted value;
// failures leave the value at its last good state.
func (r *Rule) FormatForValidation(v Value) (Value, int) {
	return applyChain(r.validation, v)
}

// FormatForPersistence runs the persistence-time formatter chain, applied
// as soon as a value is read from an upload so cached and exported values
// stay normalized.
func (r *Rule) FormatForPersistence(v Value) (Value, int) {
	return applyChain(r.persistent, v)
}

func applyChain(chain []Formatter, v Value) (Value, int) {
	failures := 0
	for _, f := range chain {
		next, err := f.Apply(v)
		if err != nil {
			failures++
			continue
		}
		v = next
	}
	return v, failures
}
