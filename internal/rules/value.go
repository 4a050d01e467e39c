package rules

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValueKind discriminates the variants a cell value can take once parsed
// out of an upload.
type ValueKind int

const (
	KindAbsent ValueKind = iota
	KindString
	KindNumber
	KindDate
)

// Value is a tagged cell value. Exactly one of Str, Num, or Date is
// meaningful, selected by Kind. The zero Value is absent.
type Value struct {
	Kind ValueKind `json:"kind"`
	Str  string    `json:"str,omitempty"`
	Num  float64   `json:"num,omitempty"`
	Date time.Time `json:"date,omitempty"`
}

// Content maps field identifiers to their values for a single record.
// The set of valid field identifiers per record type is closed and comes
// from the same source document the rule catalog is generated from.
type Content map[string]Value

func String(s string) Value  { return Value{Kind: KindString, Str: s} }
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }
func Date(t time.Time) Value { return Value{Kind: KindDate, Date: t} }
func Absent() Value          { return Value{Kind: KindAbsent} }

// IsAbsent reports whether the value is unset or a blank string.
// A numeric zero is a real value, not an absent one.
func (v Value) IsAbsent() bool {
	return v.Kind == KindAbsent || (v.Kind == KindString && strings.TrimSpace(v.Str) == "")
}

// Text renders the value the way it would appear in a cell. Dates use the
// MM/DD/YYYY convention of the federal template.
func (v Value) Text() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindDate:
		return v.Date.Format("01/02/2006")
	default:
		return ""
	}
}

// Float returns the numeric interpretation of the value.
func (v Value) Float() (float64, error) {
	switch v.Kind {
	case KindNumber:
		return v.Num, nil
	case KindString:
		f, err := strconv.ParseFloat(v.Str, 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not numeric", v.Str)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("value has no numeric form")
	}
}

// Get returns the value for a field, treating missing keys as absent.
func (c Content) Get(field string) Value {
	if v, ok := c[field]; ok {
		return v
	}
	return Absent()
}
