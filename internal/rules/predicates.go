package rules

import (
	"fmt"
	"strings"
)

// Predicate decides whether a conditionally-required field must be present,
// given the full record content.
type Predicate func(Content) bool

// predicates is the fixed id-keyed registry conditional requirements
// resolve through. The source document references predicates by id only.
var predicates = map[string]Predicate{
	// Completion detail fields are only required once a project has begun.
	"project-started": func(c Content) bool {
		status := strings.TrimSpace(c.Get("Completion_Status__c").Text())
		return !strings.EqualFold(status, "Not started")
	},
	// Cancellation reason applies only to cancelled projects.
	"project-cancelled": func(c Content) bool {
		status := strings.TrimSpace(c.Get("Completion_Status__c").Text())
		return strings.EqualFold(status, "Cancelled")
	},
	// Capital expenditure detail is required when the project declares one.
	"has-capital-expenditure": func(c Content) bool {
		flag := strings.TrimSpace(c.Get("Does_Project_Include_Capital_Expenditure__c").Text())
		return strings.EqualFold(flag, "Yes")
	},
	// "Other" free-text fields are required when the pick list says Other.
	"capital-expenditure-type-other": func(c Content) bool {
		t := strings.TrimSpace(c.Get("Type_of_Capital_Expenditure__c").Text())
		return strings.EqualFold(t, "Other")
	},
	"primary-sector-other": func(c Content) bool {
		t := strings.TrimSpace(c.Get("Primary_Sector__c").Text())
		return strings.EqualFold(t, "Other")
	},
}

// ResolvePredicate looks a predicate up by id.
func ResolvePredicate(id string) (Predicate, error) {
	p, ok := predicates[id]
	if !ok {
		return nil, fmt.Errorf("unknown predicate %q", id)
	}
	return p, nil
}

// IsRequired evaluates a requirement against a record.
func (c *Catalog) IsRequired(req Requirement, content Content) bool {
	switch req.Kind {
	case Always:
		return true
	case Conditional:
		if p, ok := predicates[req.PredicateID]; ok {
			return p(content)
		}
		// An unknown predicate means the source document and registry are
		// out of sync; fail closed so the field is flagged.
		return true
	default:
		return false
	}
}
