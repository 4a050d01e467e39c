package rules

import "regexp"

// namedPatterns holds the regex checks the source document may reference
// by name on string fields.
var namedPatterns = map[string]*regexp.Regexp{
	"email": regexp.MustCompile(`^[^\s@]+@[^\s@.]+(\.[^\s@.]+)+$`),
}

// NamedPattern looks up a pattern by its source-document name.
func NamedPattern(name string) (*regexp.Regexp, bool) {
	p, ok := namedPatterns[name]
	return p, ok
}
