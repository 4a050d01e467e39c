// Package validation implements upload validation: field and record checks
// driven by the rule catalog, cross-reference checks across a workbook's
// sheets, cumulative reconciliation against prior periods, and the
// orchestration that marks an upload validated when no errors remain.
package validation

import (
	"fmt"
	"sort"

	"github.com/granite-reporting/granite/internal/records"
	"github.com/granite-reporting/granite/internal/rules"
)

// Severity grades a finding. Errors block validation; warnings surface to
// the reviewer but do not.
type Severity string

const (
	SeverityError   Severity = "err"
	SeverityWarning Severity = "warn"
)

// Item is a single validation finding, located by worksheet tab, row, and
// column so a reviewer can jump to the offending cell.
type Item struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Tab      string   `json:"tab,omitempty"`
	Row      int      `json:"row,omitempty"`
	Col      string   `json:"col,omitempty"`
}

// tabNames maps record types back to worksheet names for findings.
var tabNames = map[string]string{
	"logic":           "Logic",
	"cover":           "Cover",
	"certification":   "Certification",
	"ec1":             "EC 1 - Public Health",
	"ec2":             "EC 2 - Negative Economic Impact",
	"ec3":             "EC 3 - Public Sector Capacity",
	"ec4":             "EC 4 - Premium Pay",
	"ec5":             "EC 5 - Infrastructure",
	"ec7":             "EC 7 - Admin",
	"subrecipient":    "Subrecipient",
	"awards50k":       "Awards > 50000",
	"expenditures50k": "Expenditures > 50000",
	"awards":          "Aggregate Awards < 50000",
}

func errorAt(rec records.Record, rule *rules.Rule, format string, args ...any) Item {
	return itemAt(SeverityError, rec, rule, format, args...)
}

func warningAt(rec records.Record, rule *rules.Rule, format string, args ...any) Item {
	return itemAt(SeverityWarning, rec, rule, format, args...)
}

func itemAt(severity Severity, rec records.Record, rule *rules.Rule, format string, args ...any) Item {
	item := Item{
		Severity: severity,
		Message:  fmt.Sprintf(format, args...),
		Tab:      tabNames[rec.Type],
		Row:      rec.Row,
	}
	if rule != nil {
		item.Col = rule.ColumnName
	}
	return item
}

// HasErrors reports whether any finding is error severity.
func HasErrors(items []Item) bool {
	for _, item := range items {
		if item.Severity == SeverityError {
			return true
		}
	}
	return false
}

// SortItems orders findings by tab, row, then column for stable output.
func SortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Tab != items[j].Tab {
			return items[i].Tab < items[j].Tab
		}
		if items[i].Row != items[j].Row {
			return items[i].Row < items[j].Row
		}
		return items[i].Col < items[j].Col
	})
}
