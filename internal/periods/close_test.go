package periods_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/granite-reporting/granite/internal/periods"
)

func openPeriod(tenantID uuid.UUID, start time.Time) *periods.ReportingPeriod {
	return &periods.ReportingPeriod{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Name:      "Q2 2026",
		StartDate: start,
		EndDate:   start.AddDate(0, 3, 0).AddDate(0, 0, -1),
	}
}

func TestValidateClose(t *testing.T) {
	tenantID := uuid.New()
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	current := openPeriod(tenantID, start)
	next := openPeriod(tenantID, start.AddDate(0, 3, 0))
	settings := &periods.Settings{
		TenantID:                 tenantID,
		CurrentReportingPeriodID: current.ID,
	}

	certified := *current
	certifiedAt := start.AddDate(0, 3, 5)
	certified.CertifiedAt = &certifiedAt

	tests := []struct {
		name        string
		period      *periods.ReportingPeriod
		settings    *periods.Settings
		earlierOpen int
		canonical   int
		next        *periods.ReportingPeriod
		want        error
	}{
		{
			name:      "close permitted",
			period:    current,
			settings:  settings,
			canonical: 3,
			next:      next,
			want:      nil,
		},
		{
			name:      "not the current period",
			period:    next,
			settings:  settings,
			canonical: 3,
			next:      next,
			want:      periods.ErrNotCurrentPeriod,
		},
		{
			name:      "already certified",
			period:    &certified,
			settings:  settings,
			canonical: 3,
			next:      next,
			want:      periods.ErrAlreadyCertified,
		},
		{
			name:        "earlier period still open",
			period:      current,
			settings:    settings,
			earlierOpen: 1,
			canonical:   3,
			next:        next,
			want:        periods.ErrEarlierPeriodOpen,
		},
		{
			name:      "nothing validated to report",
			period:    current,
			settings:  settings,
			canonical: 0,
			next:      next,
			want:      periods.ErrNoValidatedUploads,
		},
		{
			name:      "final period has no successor",
			period:    current,
			settings:  settings,
			canonical: 3,
			next:      nil,
			want:      periods.ErrNoNextPeriod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := periods.ValidateClose(tt.period, tt.settings, tt.earlierOpen, tt.canonical, tt.next)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCertified(t *testing.T) {
	p := openPeriod(uuid.New(), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if p.Certified() {
		t.Error("open period should not report certified")
	}

	now := time.Now()
	p.CertifiedAt = &now
	if !p.Certified() {
		t.Error("certified period should report certified")
	}
}
