package reports_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/granite-reporting/granite/internal/records"
	"github.com/granite-reporting/granite/internal/reports"
	"github.com/granite-reporting/granite/internal/rules"
)

func TestSubcategoryCode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare code", "1.1", "1.1"},
		{"code with label", "1.14-Other Public Health Services", "1.14"},
		{"two digit minor", "2.36", "2.36"},
		{"padded", "  5.19 Broadband ", "5.19"},
		{"no code", "Public Health", ""},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := reports.SubcategoryCode(tc.in); got != tc.want {
				t.Errorf("SubcategoryCode(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNewExporterMatchesTemplates(t *testing.T) {
	catalog := rules.MustDefault()
	for _, cat := range reports.ExportCategories {
		t.Run(cat.Name, func(t *testing.T) {
			if _, err := reports.NewExporter(catalog, cat); err != nil {
				t.Fatalf("NewExporter(%s): %v", cat.Name, err)
			}
		})
	}
}

func projectRecord(row int, content rules.Content) records.Record {
	content["Name"] = rules.String("Vaccination Outreach")
	content["Project_Identification_Number__c"] = rules.String("GR-001")
	return records.Record{Type: "ec1", Row: row, Content: content}
}

func TestExporterAdd(t *testing.T) {
	catalog := rules.MustDefault()

	t.Run("renders project rows under the category header", func(t *testing.T) {
		exporter, err := reports.NewExporter(catalog, reports.ExportCategories[0])
		if err != nil {
			t.Fatal(err)
		}
		exporter.Add(projectRecord(13, rules.Content{
			"Total_Obligations__c":   rules.Number(1500.5),
			"Project_Description__c": rules.String("Phase one\nPhase two"),
			"Completion_Status__c":   rules.String("not started"),
		}), "1.1-COVID-19 Vaccination")

		content, err := exporter.Render()
		if err != nil {
			t.Fatal(err)
		}
		text := string(content)
		if !strings.Contains(text, "1.1-COVID-19 Vaccination") {
			t.Error("missing category code cell")
		}
		if !strings.Contains(text, "1500.50") {
			t.Error("currency not rendered with two decimals")
		}
		if !strings.Contains(text, "Phase one -- Phase two") {
			t.Error("embedded newline not flattened")
		}
		if strings.Contains(text, "Phase one\nPhase two") {
			t.Error("raw newline leaked into output")
		}
		if !strings.Contains(text, "Not started") {
			t.Error("pick list value not capitalized")
		}
	})

	t.Run("skips records of other types", func(t *testing.T) {
		exporter, err := reports.NewExporter(catalog, reports.ExportCategories[0])
		if err != nil {
			t.Fatal(err)
		}
		exporter.Add(records.Record{Type: "subrecipient", Row: 13, Content: rules.Content{}}, "1.1")
		if !exporter.Empty() {
			t.Error("subrecipient record landed in a project category")
		}
	})

	t.Run("skips project rows outside the upload category group", func(t *testing.T) {
		exporter, err := reports.NewExporter(catalog, reports.ExportCategories[0])
		if err != nil {
			t.Fatal(err)
		}
		exporter.Add(projectRecord(13, rules.Content{}), "2.1-Household Assistance")
		if !exporter.Empty() {
			t.Error("record exported under a foreign category group")
		}
	})
}

func TestRenderEncoding(t *testing.T) {
	catalog := rules.MustDefault()
	exporter, err := reports.NewExporter(catalog, reports.ExportCategories[0])
	if err != nil {
		t.Fatal(err)
	}
	exporter.Add(projectRecord(13, rules.Content{}), "1.1")

	content, err := exporter.Render()
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("missing UTF-8 byte order mark")
	}
	if !bytes.Contains(content, []byte("\r\n")) {
		t.Error("missing CRLF line endings")
	}

	lines := strings.Split(strings.TrimRight(string(content[3:]), "\r\n"), "\r\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header plus one data row", len(lines))
	}
}
