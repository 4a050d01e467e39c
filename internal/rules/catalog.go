package rules

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
)

// template_rules.json mirrors the official bulk-upload template. It is
// regenerated out-of-band whenever the official spreadsheet template
// changes; the service must be rebuilt to pick up a new version.
//
//go:embed template_rules.json
var sourceDocument []byte

// Catalog is the immutable rule table: record type × field id → Rule.
// Build it once and share the reference; it is safe for concurrent reads.
type Catalog struct {
	Version         string
	TemplateVersion string

	types map[string]map[string]*Rule
	order map[string][]string
}

type sourceRule struct {
	Key        string          `json:"key"`
	Label      string          `json:"label,omitempty"`
	Required   bool            `json:"required,omitempty"`
	RequiredIf string          `json:"requiredIf,omitempty"`
	DataType   DataType        `json:"dataType"`
	MaxLength  int             `json:"maxLength,omitempty"`
	ListVals   []string        `json:"listVals,omitempty"`
	Pattern    string          `json:"pattern,omitempty"`
	ECCodes    []string        `json:"ecCodes,omitempty"`
	Tags       []string        `json:"tags,omitempty"`
	Cumulative *CumulativeSpec `json:"cumulative,omitempty"`
}

type sourceDoc struct {
	Version         string                  `json:"version"`
	TemplateVersion string                  `json:"templateVersion"`
	ProjectTypes    []string                `json:"projectTypes"`
	ProjectFields   []sourceRule            `json:"projectFields"`
	Types           map[string][]sourceRule `json:"types"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the process-wide catalog, building it on first use.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = NewCatalog()
	})
	return defaultCatalog, defaultErr
}

// MustDefault is Default for wiring paths that cannot recover from a
// broken embedded source document, such as tests.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// NewCatalog builds a catalog from the embedded source document.
func NewCatalog() (*Catalog, error) {
	var doc sourceDoc
	if err := json.Unmarshal(sourceDocument, &doc); err != nil {
		return nil, fmt.Errorf("parse rule source: %w", err)
	}

	c := &Catalog{
		Version:         doc.Version,
		TemplateVersion: doc.TemplateVersion,
		types:           make(map[string]map[string]*Rule),
		order:           make(map[string][]string),
	}

	for recordType, fields := range doc.Types {
		if err := c.addType(recordType, fields); err != nil {
			return nil, fmt.Errorf("type %s: %w", recordType, err)
		}
	}

	// project record types share the project field set
	for _, recordType := range doc.ProjectTypes {
		if err := c.addType(recordType, doc.ProjectFields); err != nil {
			return nil, fmt.Errorf("type %s: %w", recordType, err)
		}
	}

	return c, nil
}

func (c *Catalog) addType(recordType string, fields []sourceRule) error {
	byKey := make(map[string]*Rule, len(fields))
	order := make([]string, 0, len(fields))

	for i, src := range fields {
		rule, err := buildRule(src, i)
		if err != nil {
			return fmt.Errorf("field %s: %w", src.Key, err)
		}
		if _, dup := byKey[src.Key]; dup {
			return fmt.Errorf("duplicate field %s", src.Key)
		}
		byKey[src.Key] = rule
		order = append(order, src.Key)
	}

	c.types[recordType] = byKey
	c.order[recordType] = order
	return nil
}

func buildRule(src sourceRule, index int) (*Rule, error) {
	req := Requirement{Kind: Never}
	switch {
	case src.RequiredIf != "":
		if _, err := ResolvePredicate(src.RequiredIf); err != nil {
			return nil, err
		}
		req = Requirement{Kind: Conditional, PredicateID: src.RequiredIf}
	case src.Required:
		req = Requirement{Kind: Always}
	}

	label := src.Label
	if label == "" {
		label = src.Key
	}

	r := &Rule{
		Key:          src.Key,
		Required:     req,
		DataType:     src.DataType,
		MaxLength:    src.MaxLength,
		ListVals:     append([]string{}, src.ListVals...),
		Pattern:      src.Pattern,
		ColumnName:   columnLetter(index + 2),
		HumanColName: label,
		ECCodes:      src.ECCodes,
		Tags:         src.Tags,
		Cumulative:   src.Cumulative,
	}

	// Validation formatters normalize the value just for checking; the
	// checked value is never persisted. Persistent formatters run on every
	// read so cached and exported values stay normalized.
	switch r.DataType {
	case TypeString:
		r.validation = appendNamed(r.validation, "makeString")
		r.persistent = appendNamed(r.persistent, "trimWhitespace")
	case TypeMultiSelect:
		r.validation = appendNamed(r.validation, "removeCommas", "removeSepDashes")
	}
	if len(r.ListVals) > 0 {
		r.validation = appendNamed(r.validation, "toLowerCase")
	}

	applyCorrections(r)
	return r, nil
}

func appendNamed(chain []Formatter, names ...string) []Formatter {
	for _, name := range names {
		f, err := namedFormatter(name)
		if err != nil {
			// registry and builder are compiled together; a miss is a bug
			panic(err)
		}
		chain = append(chain, f)
	}
	return chain
}

// columnLetter converts a zero-based column index to its spreadsheet
// letter ("C" for 2, "AA" for 26).
func columnLetter(index int) string {
	name := ""
	for index >= 0 {
		name = string(rune('A'+index%26)) + name
		index = index/26 - 1
	}
	return name
}

// Types returns the record types the catalog carries rules for.
func (c *Catalog) Types() []string {
	types := make([]string, 0, len(c.types))
	for t := range c.types {
		types = append(types, t)
	}
	return types
}

// ForType returns the rules for a record type in template column order.
func (c *Catalog) ForType(recordType string) []*Rule {
	keys := c.order[recordType]
	out := make([]*Rule, 0, len(keys))
	for _, key := range keys {
		out = append(out, c.types[recordType][key])
	}
	return out
}

// Rule returns the rule for one (record type, field id) pair.
func (c *Catalog) Rule(recordType, field string) (*Rule, bool) {
	r, ok := c.types[recordType][field]
	return r, ok
}
