package periods

import (
	"testing"

	"github.com/google/uuid"
)

type stubScanner struct {
	values []any
}

func (s stubScanner) Scan(dest ...any) error {
	for i, d := range dest {
		switch v := d.(type) {
		case *uuid.UUID:
			*v = s.values[i].(uuid.UUID)
		case *string:
			*v = s.values[i].(string)
		case *uuid.NullUUID:
			if s.values[i] == nil {
				*v = uuid.NullUUID{}
			} else {
				*v = uuid.NullUUID{UUID: s.values[i].(uuid.UUID), Valid: true}
			}
		}
	}
	return nil
}

func TestScanSettings(t *testing.T) {
	tenantID := uuid.New()

	t.Run("unset current period scans to uuid.Nil", func(t *testing.T) {
		st, err := scanSettings(stubScanner{values: []any{tenantID, "Granite State", nil}})
		if err != nil {
			t.Fatal(err)
		}
		if st.CurrentReportingPeriodID != uuid.Nil {
			t.Errorf("got %v, want uuid.Nil", st.CurrentReportingPeriodID)
		}
	})

	t.Run("set current period scans through", func(t *testing.T) {
		current := uuid.New()
		st, err := scanSettings(stubScanner{values: []any{tenantID, "Granite State", current}})
		if err != nil {
			t.Fatal(err)
		}
		if st.CurrentReportingPeriodID != current {
			t.Errorf("got %v, want %v", st.CurrentReportingPeriodID, current)
		}
	})
}
