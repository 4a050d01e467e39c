package validation_test

import (
	"testing"

	"github.com/granite-reporting/granite/internal/records"
	"github.com/granite-reporting/granite/internal/rules"
	"github.com/granite-reporting/granite/internal/validation"
)

func projectTotals(row int, id string, total, increment float64) records.Record {
	return record("ec1", row, rules.Content{
		"Project_Identification_Number__c": rules.String(id),
		"Total_Obligations__c":             rules.Number(total),
		"Current_Period_Obligations__c":    rules.Number(increment),
	})
}

func cumulativeContext() *validation.Context {
	vctx := newContext("1.1")
	vctx.ActiveTags["cumulative"] = true
	return vctx
}

func TestReconcileCumulative(t *testing.T) {
	t.Run("totals matching history pass", func(t *testing.T) {
		history := []records.Record{
			projectTotals(13, "GR-001", 100, 100),
			projectTotals(13, "GR-001", 250, 150),
		}
		current := []records.Record{projectTotals(13, "GR-001", 300, 50)}

		items := validation.ReconcileCumulative(cumulativeContext(), current, history)
		if len(items) != 0 {
			t.Fatalf("got %d findings, want 0: %v", len(items), items)
		}
	})

	t.Run("understated total is an error", func(t *testing.T) {
		history := []records.Record{projectTotals(13, "GR-001", 100, 100)}
		current := []records.Record{projectTotals(13, "GR-001", 120, 50)}

		items := validation.ReconcileCumulative(cumulativeContext(), current, history)
		if !findingWith(items, validation.SeverityError, "Total_Obligations__c declares") {
			t.Fatalf("missing reconciliation finding in %v", items)
		}
	})

	t.Run("first period totals reconcile against the increment alone", func(t *testing.T) {
		current := []records.Record{projectTotals(13, "GR-001", 75.25, 75.25)}

		items := validation.ReconcileCumulative(cumulativeContext(), current, nil)
		if len(items) != 0 {
			t.Fatalf("got %d findings, want 0: %v", len(items), items)
		}
	})

	t.Run("inactive tag skips reconciliation", func(t *testing.T) {
		vctx := newContext("1.1")
		current := []records.Record{projectTotals(13, "GR-001", 999, 1)}

		items := validation.ReconcileCumulative(vctx, current, nil)
		if len(items) != 0 {
			t.Fatalf("got %d findings, want 0: %v", len(items), items)
		}
	})

	t.Run("history matches on normalized identifier", func(t *testing.T) {
		history := []records.Record{projectTotals(13, "007", 40, 40)}
		current := []records.Record{projectTotals(13, "7", 90, 50)}

		items := validation.ReconcileCumulative(cumulativeContext(), current, history)
		if len(items) != 0 {
			t.Fatalf("got %d findings, want 0: %v", len(items), items)
		}
	})

	t.Run("other projects do not contribute", func(t *testing.T) {
		history := []records.Record{projectTotals(13, "GR-002", 500, 500)}
		current := []records.Record{projectTotals(13, "GR-001", 550, 50)}

		items := validation.ReconcileCumulative(cumulativeContext(), current, history)
		if !findingWith(items, validation.SeverityError, "Total_Obligations__c declares") {
			t.Fatalf("missing reconciliation finding in %v", items)
		}
	})

	t.Run("cent rounding tolerates float drift", func(t *testing.T) {
		history := []records.Record{projectTotals(13, "GR-001", 0.1, 0.1)}
		current := []records.Record{projectTotals(13, "GR-001", 0.3, 0.2)}

		items := validation.ReconcileCumulative(cumulativeContext(), current, history)
		if len(items) != 0 {
			t.Fatalf("got %d findings, want 0: %v", len(items), items)
		}
	})
}
