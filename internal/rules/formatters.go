package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// Formatter is a named value transform. Rules carry an ordered chain of
// formatters; the names come from the catalog source document so the chain
// is data, not code.
type Formatter struct {
	Name  string
	apply func(Value) (Value, error)
}

// Apply runs the transform.
func (f Formatter) Apply(v Value) (Value, error) {
	return f.apply(v)
}

var sepDashes = regexp.MustCompile(`;\s*-`)

// namedFormatters is the fixed registry of transforms the source document
// may reference by name.
var namedFormatters = map[string]func(Value) (Value, error){
	"makeString": func(v Value) (Value, error) {
		if v.IsAbsent() {
			return v, nil
		}
		return String(v.Text()), nil
	},
	"trimWhitespace": func(v Value) (Value, error) {
		if v.Kind != KindString {
			return v, nil
		}
		return String(strings.TrimSpace(v.Str)), nil
	},
	"removeCommas": func(v Value) (Value, error) {
		if v.Kind != KindString {
			return v, fmt.Errorf("removeCommas: not a string")
		}
		return String(strings.ReplaceAll(v.Str, ",", "")), nil
	},
	"removeSepDashes": func(v Value) (Value, error) {
		if v.Kind != KindString {
			return v, fmt.Errorf("removeSepDashes: not a string")
		}
		s := strings.TrimPrefix(v.Str, "-")
		return String(sepDashes.ReplaceAllString(s, ";")), nil
	},
	"toLowerCase": func(v Value) (Value, error) {
		if v.Kind != KindString {
			return v, fmt.Errorf("toLowerCase: not a string")
		}
		return String(strings.ToLower(v.Str)), nil
	},
}

func namedFormatter(name string) (Formatter, error) {
	fn, ok := namedFormatters[name]
	if !ok {
		return Formatter{}, fmt.Errorf("unknown formatter %q", name)
	}
	return Formatter{Name: name, apply: fn}, nil
}

// coerceFormatter maps any of the given legacy spellings onto the canonical
// dropdown value. Built dynamically from the correction table.
func coerceFormatter(legacy []string, canonical string) Formatter {
	return Formatter{
		Name: "coerceDropdown",
		apply: func(v Value) (Value, error) {
			if v.Kind != KindString {
				return v, nil
			}
			for _, l := range legacy {
				if v.Str == l {
					return String(canonical), nil
				}
			}
			return v, nil
		},
	}
}
