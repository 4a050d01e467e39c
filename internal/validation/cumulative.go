package validation

import (
	"github.com/granite-reporting/granite/internal/records"
	"github.com/granite-reporting/granite/internal/rules"
	"github.com/granite-reporting/granite/pkg/formatting"
)

// ReconcileCumulative checks that every declared cumulative total equals
// this period's increment plus the increments reported for the same
// project in prior periods. History holds the records of the canonical
// uploads from all earlier closed periods for the same agency and
// category. Rules tagged for reconciliation only run when their tag is
// active on the context, so uploads in an agency's first reporting period
// skip the check entirely.
func ReconcileCumulative(vctx *Context, current, history []records.Record) []Item {
	var items []Item

	prior := priorIncrements(history)

	for _, rec := range current {
		if !projectTypes[rec.Type] {
			continue
		}
		projectID := NormalizeIdentifier(rec.Content.Get("Project_Identification_Number__c").Text())
		if projectID == "" {
			continue
		}
		for _, rule := range vctx.Catalog.ForType(rec.Type) {
			if rule.Cumulative == nil || !rule.Tagged(vctx.ActiveTags) {
				continue
			}
			if vctx.ECCode != "" && !rule.AppliesTo(vctx.ECCode) {
				continue
			}
			if item, ok := reconcileField(rec, rule, prior[incrementKey{projectID, rule.Cumulative.IncrementField}]); !ok {
				items = append(items, item)
			}
		}
	}

	return items
}

type incrementKey struct {
	projectID string
	field     string
}

func priorIncrements(history []records.Record) map[incrementKey]float64 {
	sums := make(map[incrementKey]float64)
	for _, rec := range history {
		if !projectTypes[rec.Type] {
			continue
		}
		projectID := NormalizeIdentifier(rec.Content.Get("Project_Identification_Number__c").Text())
		if projectID == "" {
			continue
		}
		for field, value := range rec.Content {
			if value.Kind != rules.KindNumber {
				continue
			}
			sums[incrementKey{projectID, field}] += value.Num
		}
	}
	return sums
}

func reconcileField(rec records.Record, rule *rules.Rule, priorSum float64) (Item, bool) {
	declared := rec.Content.Get(rule.Key)
	increment := rec.Content.Get(rule.Cumulative.IncrementField)
	if declared.Kind != rules.KindNumber || increment.Kind != rules.KindNumber {
		return Item{}, true
	}

	expected := formatting.RoundCents(priorSum + increment.Num)
	if formatting.RoundCents(declared.Num) == expected {
		return Item{}, true
	}

	return errorAt(rec, rule,
		"%s declares %s but prior periods plus the current increment total %s",
		rule.Key,
		formatting.Currency(declared.Num),
		formatting.Currency(expected)), false
}
