package validation_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/granite-reporting/granite/internal/records"
	"github.com/granite-reporting/granite/internal/rules"
	"github.com/granite-reporting/granite/internal/validation"
)

func TestNormalizeIdentifier(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"leading zeros dropped", "0042", "42"},
		{"trimmed and folded", " gr-001 ", "GR-001"},
		{"all zeros collapse to one", "0000", "0"},
		{"zero survives", "0", "0"},
		{"plain passes through", "AW-1", "AW-1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := validation.NormalizeIdentifier(tc.in); got != tc.want {
				t.Errorf("NormalizeIdentifier(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSubrecipientCommands(t *testing.T) {
	tenantID := uuid.New()
	uploadID := uuid.New()

	recs := []records.Record{
		{Type: "ec1", Row: 13, Content: rules.Content{
			"Project_Identification_Number__c": rules.String("GR-001"),
		}},
		{Type: "subrecipient", Row: 13, Content: rules.Content{
			"Name":                        rules.String("Granite County Health"),
			"Unique_Entity_Identifier__c": rules.String(" abc123def456 "),
		}},
		{Type: "subrecipient", Row: 14, Content: rules.Content{
			"Name":   rules.String("Granite County Clinic"),
			"EIN__c": rules.String("012345678"),
		}},
	}

	cmds := validation.SubrecipientCommands(tenantID, uploadID, recs)
	if len(cmds) != 2 {
		t.Fatalf("got %d commands, want 2", len(cmds))
	}

	first := cmds[0]
	if first.TenantID != tenantID || first.UploadID != uploadID {
		t.Error("command should carry the tenant and upload ids")
	}
	if first.UEI == nil || *first.UEI != "ABC123DEF456" {
		t.Errorf("got UEI %v, want ABC123DEF456", first.UEI)
	}
	if first.TIN != nil {
		t.Errorf("got TIN %v, want nil", *first.TIN)
	}

	second := cmds[1]
	if second.TIN == nil || *second.TIN != "12345678" {
		t.Errorf("got TIN %v, want 12345678", second.TIN)
	}
}
