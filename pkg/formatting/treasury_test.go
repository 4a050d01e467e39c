package formatting_test

import (
	"testing"

	"github.com/granite-reporting/granite/pkg/formatting"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"whole", 100, "100.00"},
		{"cents", 1500.5, "1500.50"},
		{"rounds up", 0.019, "0.02"},
		{"rounds away negative", -0.019, "-0.02"},
		{"float drift", 0.1 + 0.2, "0.30"},
		{"zero", 0, "0.00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatting.Currency(tc.in); got != tc.want {
				t.Errorf("Currency(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestRoundCents(t *testing.T) {
	if got := formatting.RoundCents(1.239); got != 1.24 {
		t.Errorf("got %v, want 1.24", got)
	}
	if got := formatting.RoundCents(-1.239); got != -1.24 {
		t.Errorf("got %v, want -1.24", got)
	}
}

func TestIdentifierHelpers(t *testing.T) {
	if got := formatting.TIN(" 12-3456789 "); got != "123456789" {
		t.Errorf("TIN = %q", got)
	}
	if got := formatting.Zip("501"); got != "00501" {
		t.Errorf("Zip = %q", got)
	}
	if got := formatting.Zip4("1"); got != "0001" {
		t.Errorf("Zip4 = %q", got)
	}
	if got := formatting.Zip(""); got != "" {
		t.Errorf("Zip(empty) = %q", got)
	}
}

func TestMultiselect(t *testing.T) {
	in := "-Behavioral health work; - Public health work;Pharmacy"
	want := "Behavioral health work; Public health work; Pharmacy"
	if got := formatting.Multiselect(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCapitalizeFirst(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"yes", "Yes"},
		{"Not started", "Not started"},
		{"état", "État"},
	}

	for _, tc := range tests {
		if got := formatting.CapitalizeFirst(tc.in); got != tc.want {
			t.Errorf("CapitalizeFirst(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFlattenNewlines(t *testing.T) {
	in := "line one\r\nline two\nline three"
	want := "line one -- line two -- line three"
	if got := formatting.FlattenNewlines(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
