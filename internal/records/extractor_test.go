package records_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/granite-reporting/granite/internal/records"
	"github.com/granite-reporting/granite/internal/rules"
)

var templateSheets = map[string]string{
	"Logic":                           "logic",
	"Cover":                           "cover",
	"Certification":                   "certification",
	"EC 1 - Public Health":            "ec1",
	"EC 2 - Negative Economic Impact": "ec2",
	"EC 3 - Public Sector Capacity":   "ec3",
	"EC 4 - Premium Pay":              "ec4",
	"EC 5 - Infrastructure":           "ec5",
	"EC 7 - Admin":                    "ec7",
	"Subrecipient":                    "subrecipient",
	"Awards > 50000":                  "awards50k",
	"Expenditures > 50000":            "expenditures50k",
	"Aggregate Awards < 50000":        "awards",
}

// newTemplateWorkbook builds an empty workbook with every template sheet
// and its field identifier header row, mirroring the official layout.
func newTemplateWorkbook(t *testing.T, catalog *rules.Catalog) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	for sheet, recordType := range templateSheets {
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatalf("create sheet %s: %v", sheet, err)
		}
		for i, rule := range catalog.ForType(recordType) {
			setCell(t, f, sheet, 3+i, 3, rule.Key)
		}
	}
	return f
}

func setCell(t *testing.T, f *excelize.File, sheet string, col, row int, value any) {
	t.Helper()
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		t.Fatalf("cell name: %v", err)
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		t.Fatalf("set cell %s!%s: %v", sheet, cell, err)
	}
}

func catalogForTest(t *testing.T) *rules.Catalog {
	t.Helper()
	c, err := rules.NewCatalog()
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return c
}

func recordsOfType(all []records.Record, recordType string) []records.Record {
	var out []records.Record
	for _, r := range all {
		if r.Type == recordType {
			out = append(out, r)
		}
	}
	return out
}

func TestExtractTypedProjectRows(t *testing.T) {
	catalog := catalogForTest(t)
	f := newTemplateWorkbook(t, catalog)
	uploadID := uuid.New()

	// two project rows starting at the first data row
	setCell(t, f, "EC 1 - Public Health", 3, 13, "Vaccination Outreach")
	setCell(t, f, "EC 1 - Public Health", 4, 13, "PRJ-001")
	setCell(t, f, "EC 1 - Public Health", 7, 13, "$1,500.50")
	setCell(t, f, "EC 1 - Public Health", 3, 14, "Testing Sites")
	setCell(t, f, "EC 1 - Public Health", 4, 14, "PRJ-002")

	setCell(t, f, "Certification", 3, 13, "Jordan Smith")
	setCell(t, f, "Certification", 5, 13, "03/31/2026")

	extracted, err := records.ExtractRecords(f, catalog, uploadID)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	projects := recordsOfType(extracted, "ec1")
	if len(projects) != 2 {
		t.Fatalf("got %d ec1 records, want 2", len(projects))
	}
	if projects[0].Row != 13 || projects[1].Row != 14 {
		t.Errorf("rows %d, %d", projects[0].Row, projects[1].Row)
	}
	if projects[0].UploadID != uploadID {
		t.Error("record not stamped with upload id")
	}
	if got := projects[0].Content.Get("Name").Text(); got != "Vaccination Outreach" {
		t.Errorf("Name = %q", got)
	}

	// currency text with separators parses to a number
	budget := projects[0].Content.Get("Adopted_Budget__c")
	if budget.Kind != rules.KindNumber || budget.Num != 1500.50 {
		t.Errorf("Adopted_Budget__c = %+v", budget)
	}

	cert := recordsOfType(extracted, "certification")
	if len(cert) != 1 {
		t.Fatalf("got %d certification records, want 1", len(cert))
	}
	date := cert[0].Content.Get("Certification_Date__c")
	if date.Kind != rules.KindDate {
		t.Fatalf("Certification_Date__c = %+v", date)
	}
	want := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	if !date.Date.Equal(want) {
		t.Errorf("date %v, want %v", date.Date, want)
	}
}

func TestExtractSkipsHiddenSheets(t *testing.T) {
	catalog := catalogForTest(t)
	f := newTemplateWorkbook(t, catalog)

	// stale rows on a sheet the agency hid instead of clearing
	setCell(t, f, "EC 4 - Premium Pay", 3, 13, "Old Premium Pay Project")
	if err := f.SetSheetVisible("EC 4 - Premium Pay", false); err != nil {
		t.Fatalf("hide sheet: %v", err)
	}

	extracted, err := records.ExtractRecords(f, catalog, uuid.New())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if got := recordsOfType(extracted, "ec4"); len(got) != 0 {
		t.Errorf("hidden sheet contributed %d records", len(got))
	}
}

func TestExtractSkipsBlankRows(t *testing.T) {
	catalog := catalogForTest(t)
	f := newTemplateWorkbook(t, catalog)

	setCell(t, f, "Subrecipient", 3, 13, "Acme Corp")
	// row 14 left blank
	setCell(t, f, "Subrecipient", 3, 15, "Beta LLC")

	extracted, err := records.ExtractRecords(f, catalog, uuid.New())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	subs := recordsOfType(extracted, "subrecipient")
	if len(subs) != 2 {
		t.Fatalf("got %d subrecipient records, want 2", len(subs))
	}
	if subs[0].Row != 13 || subs[1].Row != 15 {
		t.Errorf("rows %d, %d", subs[0].Row, subs[1].Row)
	}
}

func TestExtractDropsDisplayOnlyColumns(t *testing.T) {
	catalog := catalogForTest(t)
	f := newTemplateWorkbook(t, catalog)

	// template formula column appended after the real fields
	col := 3 + len(catalog.ForType("ec1"))
	setCell(t, f, "EC 1 - Public Health", col, 3, "Display_Only")
	setCell(t, f, "EC 1 - Public Health", col, 13, "computed junk")
	setCell(t, f, "EC 1 - Public Health", 3, 13, "Project A")

	extracted, err := records.ExtractRecords(f, catalog, uuid.New())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	projects := recordsOfType(extracted, "ec1")
	if len(projects) != 1 {
		t.Fatalf("got %d records", len(projects))
	}
	if _, ok := projects[0].Content["Display_Only"]; ok {
		t.Error("Display_Only column should be dropped")
	}
}

func TestExtractSingleRecordSheetsTakeFirstRowOnly(t *testing.T) {
	catalog := catalogForTest(t)
	f := newTemplateWorkbook(t, catalog)

	setCell(t, f, "Cover", 3, 13, "DOH")
	setCell(t, f, "Cover", 4, 13, "2.1")
	setCell(t, f, "Cover", 3, 14, "SECOND ROW")

	extracted, err := records.ExtractRecords(f, catalog, uuid.New())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	covers := recordsOfType(extracted, "cover")
	if len(covers) != 1 {
		t.Fatalf("got %d cover records, want 1", len(covers))
	}
	if got := covers[0].Content.Get("Agency_Code__c").Text(); got != "DOH" {
		t.Errorf("Agency_Code__c = %q", got)
	}
}

func TestExtractMissingSheetFails(t *testing.T) {
	catalog := catalogForTest(t)
	f := newTemplateWorkbook(t, catalog)

	if err := f.DeleteSheet("Subrecipient"); err != nil {
		t.Fatalf("delete sheet: %v", err)
	}

	_, err := records.ExtractRecords(f, catalog, uuid.New())
	var missing *records.ErrMissingSheet
	if !errors.As(err, &missing) {
		t.Fatalf("got %v, want ErrMissingSheet", err)
	}
	if missing.Sheet != "Subrecipient" {
		t.Errorf("sheet %q", missing.Sheet)
	}
}

func TestExtractAppliesPersistentFormatters(t *testing.T) {
	catalog := catalogForTest(t)
	f := newTemplateWorkbook(t, catalog)

	setCell(t, f, "Subrecipient", 3, 13, "  Acme Corp  ")

	extracted, err := records.ExtractRecords(f, catalog, uuid.New())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	subs := recordsOfType(extracted, "subrecipient")
	if len(subs) != 1 {
		t.Fatalf("got %d records", len(subs))
	}
	if got := subs[0].Content.Get("Name").Text(); got != "Acme Corp" {
		t.Errorf("Name = %q, want trimmed value", got)
	}
}
