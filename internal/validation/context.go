package validation

import "github.com/granite-reporting/granite/internal/rules"

// Context carries the request-scoped state a validation pass needs: the
// shared rule catalog, the upload's resolved category code, and the tag
// set gating cross-period rules.
type Context struct {
	Catalog *rules.Catalog
	// ECCode is the upload's detailed expenditure category, empty until
	// the cover sheet resolves. Category-restricted rules are skipped
	// while it is unknown.
	ECCode string
	// ActiveTags enables tagged rule groups, e.g. "cumulative" once the
	// prior-period history has been loaded.
	ActiveTags map[string]bool
}
