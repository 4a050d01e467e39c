package uploads

import "sort"

// seriesKey identifies an upload series: every upload an agency submitted
// for one expenditure category in one period supersedes the others.
type seriesKey struct {
	agency string
	ecCode string
}

// SelectCanonical picks the canonical upload per (agency, category) series:
// the most recently created upload that is currently validated. Uploads
// missing an agency or category never validated, so they cannot join a
// series and are dropped.
func SelectCanonical(all []Upload) []Upload {
	latest := make(map[seriesKey]Upload)
	for _, u := range all {
		if !u.Validated() || u.AgencyID == nil || u.ECCode == nil {
			continue
		}

		key := seriesKey{agency: u.AgencyID.String(), ecCode: *u.ECCode}
		if existing, ok := latest[key]; ok && !u.CreatedAt.After(existing.CreatedAt) {
			continue
		}
		latest[key] = u
	}

	out := make([]Upload, 0, len(latest))
	for _, u := range latest {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AgencyID.String() != out[j].AgencyID.String() {
			return out[i].AgencyID.String() < out[j].AgencyID.String()
		}
		return *out[i].ECCode < *out[j].ECCode
	})
	return out
}
