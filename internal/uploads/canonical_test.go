package uploads_test

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/granite-reporting/granite/internal/uploads"
)

func ptr[T any](v T) *T { return &v }

func validated(agency uuid.UUID, ecCode string, created time.Time) uploads.Upload {
	return uploads.Upload{
		ID:          uuid.New(),
		AgencyID:    &agency,
		ECCode:      ptr(ecCode),
		CreatedAt:   created,
		ValidatedAt: ptr(created.Add(time.Minute)),
	}
}

func TestSelectCanonicalPicksLatestValidatedPerSeries(t *testing.T) {
	agency := uuid.New()
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	older := validated(agency, "2.1", base)
	newer := validated(agency, "2.1", base.Add(time.Hour))

	got := uploads.SelectCanonical([]uploads.Upload{older, newer})
	if len(got) != 1 {
		t.Fatalf("got %d canonical uploads, want 1", len(got))
	}
	if got[0].ID != newer.ID {
		t.Error("newer validated upload should supersede the older one")
	}
}

func TestSelectCanonicalKeepsSeriesIndependent(t *testing.T) {
	agencyA, agencyB := uuid.New(), uuid.New()
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	set := []uploads.Upload{
		validated(agencyA, "2.1", base),
		validated(agencyA, "3.1", base),
		validated(agencyB, "2.1", base),
	}

	got := uploads.SelectCanonical(set)
	if len(got) != 3 {
		t.Fatalf("got %d canonical uploads, want 3", len(got))
	}
}

func TestSelectCanonicalSkipsInvalidatedAndUnvalidated(t *testing.T) {
	agency := uuid.New()
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	older := validated(agency, "2.1", base)

	// newer upload in the series was invalidated: the older one wins
	newer := validated(agency, "2.1", base.Add(time.Hour))
	newer.ValidatedAt = nil
	newer.InvalidatedAt = ptr(base.Add(2 * time.Hour))

	// never-validated upload has no agency or category yet
	raw := uploads.Upload{ID: uuid.New(), CreatedAt: base.Add(3 * time.Hour)}

	got := uploads.SelectCanonical([]uploads.Upload{older, newer, raw})
	if len(got) != 1 {
		t.Fatalf("got %d canonical uploads, want 1", len(got))
	}
	if got[0].ID != older.ID {
		t.Error("invalidated upload must yield to the older validated one")
	}
}

func TestSelectCanonicalEmptyInput(t *testing.T) {
	if got := uploads.SelectCanonical(nil); len(got) != 0 {
		t.Errorf("got %d uploads from empty input", len(got))
	}
}

func TestUploadStatus(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name   string
		upload uploads.Upload
		status string
	}{
		{"fresh upload", uploads.Upload{}, "not validated"},
		{"validated", uploads.Upload{ValidatedAt: &now}, "validated"},
		{"invalidated", uploads.Upload{InvalidatedAt: &now}, "invalidated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.upload.Status(); got != tt.status {
				t.Errorf("got %q, want %q", got, tt.status)
			}
		})
	}
}
