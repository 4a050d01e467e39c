package periods

import "github.com/google/uuid"

// ValidateClose checks every close precondition that does not require the
// settings row lock. The transactional close re-checks the pointer and
// certification state under lock; this pure form exists so the rules are
// testable without a database.
//
// A close is permitted when the period is the tenant's current one, it has
// not already been certified, every chronologically earlier period is
// already certified, at least one validated canonical upload exists to
// report, and a successor period is defined to advance to.
func ValidateClose(period *ReportingPeriod, settings *Settings, earlierOpen, canonicalUploads int, next *ReportingPeriod) error {
	if period.ID != settings.CurrentReportingPeriodID {
		return ErrNotCurrentPeriod
	}
	if period.Certified() {
		return ErrAlreadyCertified
	}
	if earlierOpen > 0 {
		return ErrEarlierPeriodOpen
	}
	if canonicalUploads == 0 {
		return ErrNoValidatedUploads
	}
	if next == nil || next.ID == uuid.Nil {
		return ErrNoNextPeriod
	}
	return nil
}
