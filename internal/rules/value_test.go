package rules_test

import (
	"testing"
	"time"

	"github.com/granite-reporting/granite/internal/rules"
)

func TestValuePresence(t *testing.T) {
	tests := []struct {
		name   string
		value  rules.Value
		absent bool
	}{
		{"missing cell", rules.Absent(), true},
		{"empty string", rules.String(""), true},
		{"whitespace only", rules.String("   "), true},
		{"text", rules.String("x"), false},
		{"zero is a real answer", rules.Number(0), false},
		{"negative number", rules.Number(-12.5), false},
		{"date", rules.Date(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.IsAbsent(); got != tt.absent {
				t.Errorf("IsAbsent() = %v, want %v", got, tt.absent)
			}
		})
	}
}

func TestValueText(t *testing.T) {
	tests := []struct {
		name  string
		value rules.Value
		want  string
	}{
		{"string passthrough", rules.String("hello"), "hello"},
		{"integer number", rules.Number(42), "42"},
		{"fractional number", rules.Number(12.5), "12.5"},
		{"date in treasury format", rules.Date(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)), "03/31/2026"},
		{"absent is empty", rules.Absent(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContentGetMissingField(t *testing.T) {
	content := rules.Content{"Name": rules.String("Project A")}
	if got := content.Get("Name").Text(); got != "Project A" {
		t.Errorf("got %q", got)
	}
	if !content.Get("Unknown_Field__c").IsAbsent() {
		t.Error("missing fields read as absent")
	}
}
