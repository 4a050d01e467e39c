package records

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/granite-reporting/granite/internal/rules"
)

// Worksheet layout of the official template: row 3 carries field
// identifiers starting in column C, data begins at row 13. The rows in
// between hold human-readable labels and instructions.
const (
	headerRow    = 3
	firstDataRow = 13
	firstDataCol = 2 // column C, 0-based
)

// sheetTypes maps template worksheet names to record types, in template
// order. Sheets not listed here (instructions, dropdowns) are ignored.
var sheetTypes = []struct {
	Sheet string
	Type  string
}{
	{"Logic", "logic"},
	{"Cover", "cover"},
	{"Certification", "certification"},
	{"EC 1 - Public Health", "ec1"},
	{"EC 2 - Negative Economic Impact", "ec2"},
	{"EC 3 - Public Sector Capacity", "ec3"},
	{"EC 4 - Premium Pay", "ec4"},
	{"EC 5 - Infrastructure", "ec5"},
	{"EC 7 - Admin", "ec7"},
	{"Subrecipient", "subrecipient"},
	{"Awards > 50000", "awards50k"},
	{"Expenditures > 50000", "expenditures50k"},
	{"Aggregate Awards < 50000", "awards"},
}

// singleRecordTypes are sheets that contribute exactly one record from
// the first data row.
var singleRecordTypes = map[string]bool{
	"logic":         true,
	"cover":         true,
	"certification": true,
}

// ErrMissingSheet reports a required worksheet absent from the workbook,
// usually a sign the upload is not built from the official template.
type ErrMissingSheet struct {
	Sheet string
}

func (e *ErrMissingSheet) Error() string {
	return fmt.Sprintf("workbook is missing required sheet %q", e.Sheet)
}

// ExtractRecords reads every recognized sheet of a workbook into typed
// records. Hidden sheets are skipped: agencies hide unused category sheets
// rather than deleting them, and a hidden sheet's stale contents must not
// leak into the report. Persistent formatters from the catalog are applied
// here so every consumer downstream of extraction sees normalized values.
func ExtractRecords(f *excelize.File, catalog *rules.Catalog, uploadID uuid.UUID) ([]Record, error) {
	var out []Record

	for _, st := range sheetTypes {
		idx, err := f.GetSheetIndex(st.Sheet)
		if err != nil {
			return nil, fmt.Errorf("inspect sheet %q: %w", st.Sheet, err)
		}
		if idx == -1 {
			return nil, &ErrMissingSheet{Sheet: st.Sheet}
		}

		visible, err := f.GetSheetVisible(st.Sheet)
		if err != nil {
			return nil, fmt.Errorf("inspect sheet %q: %w", st.Sheet, err)
		}
		if !visible {
			continue
		}

		records, err := extractSheet(f, catalog, st.Sheet, st.Type, uploadID)
		if err != nil {
			return nil, fmt.Errorf("extract sheet %q: %w", st.Sheet, err)
		}
		out = append(out, records...)
	}

	return out, nil
}

func extractSheet(f *excelize.File, catalog *rules.Catalog, sheet, recordType string, uploadID uuid.UUID) ([]Record, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < headerRow {
		return nil, nil
	}

	fields := fieldColumns(rows[headerRow-1])
	if len(fields) == 0 {
		return nil, nil
	}

	var records []Record
	for i := firstDataRow - 1; i < len(rows); i++ {
		content := rowContent(catalog, recordType, fields, rows[i])
		if len(content) == 0 {
			continue
		}
		records = append(records, Record{
			Type:     recordType,
			UploadID: uploadID,
			Row:      i + 1,
			Content:  content,
		})
		if singleRecordTypes[recordType] {
			break
		}
	}

	return records, nil
}

// fieldColumns maps column index to field identifier from the header row.
// Display_Only columns carry template-side formulas and are dropped.
func fieldColumns(header []string) map[int]string {
	fields := make(map[int]string)
	for i := firstDataCol; i < len(header); i++ {
		id := strings.TrimSpace(header[i])
		if id == "" || id == "Display_Only" {
			continue
		}
		fields[i] = id
	}
	return fields
}

func rowContent(catalog *rules.Catalog, recordType string, fields map[int]string, row []string) rules.Content {
	content := make(rules.Content)
	for col, fieldID := range fields {
		var raw string
		if col < len(row) {
			raw = row[col]
		}

		rule, ok := catalog.Rule(recordType, fieldID)
		if !ok {
			// columns the catalog does not know stay as plain text so the
			// record round-trips losslessly through the cache
			if v := strings.TrimSpace(raw); v != "" {
				content[fieldID] = rules.String(v)
			}
			continue
		}

		value := parseCell(raw, rule.DataType)
		if value.IsAbsent() {
			continue
		}
		value, _ = rule.FormatForPersistence(value)
		content[fieldID] = value
	}
	return content
}

// parseCell interprets a cell's text per the field's declared data type.
// Values that fail to parse are kept as text so the validator can report
// them against the right cell instead of extraction failing the upload.
func parseCell(raw string, dataType rules.DataType) rules.Value {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return rules.Absent()
	}

	switch dataType {
	case rules.TypeNumeric, rules.TypeCurrency:
		cleaned := strings.ReplaceAll(strings.TrimPrefix(raw, "$"), ",", "")
		if n, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return rules.Number(n)
		}
		return rules.String(raw)
	case rules.TypeDate:
		if t, ok := parseDate(raw); ok {
			return rules.Date(t)
		}
		return rules.String(raw)
	default:
		return rules.String(raw)
	}
}

var dateLayouts = []string{
	"1/2/06",
	"1/2/2006",
	"01/02/2006",
	"2006-01-02",
	"2-Jan-06",
	"January 2, 2006",
}

// excel serial dates count days from the 1900 epoch (with its historical
// off-by-two), surfacing when a date cell loses its number format
const serialEpochOffset = -25569 // days between 1970-01-01 and 1899-12-30

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}

	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		// plausible serial range covers 1954-2173; anything else is more
		// likely a stray number typed into a date cell
		if serial >= 20000 && serial < 100000 {
			days := int64(serial) + serialEpochOffset
			return time.Unix(days*86400, 0).UTC(), true
		}
	}

	return time.Time{}, false
}
