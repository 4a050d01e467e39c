// Package reports renders the treasury report archive for a reporting
// period: the canonical upload of every (agency, category) series is
// routed through category exporters whose output files mirror the
// official bulk-upload template column for column.
package reports

import (
	"embed"
	"encoding/csv"
	"fmt"
	"regexp"
	"strings"

	"github.com/granite-reporting/granite/internal/records"
	"github.com/granite-reporting/granite/internal/rules"
	"github.com/granite-reporting/granite/pkg/formatting"
)

//go:embed templates/*.csv
var templates embed.FS

// subcategoryPattern pulls the detailed expenditure category code off the
// front of the free-text category a cover sheet declares, e.g.
// "1.14-Other Public Health Services" yields "1.14".
var subcategoryPattern = regexp.MustCompile(`^(\d\.\d\d?)`)

// SubcategoryCode returns the detailed expenditure category code at the
// front of a category string, or "" when none is present.
func SubcategoryCode(category string) string {
	match := subcategoryPattern.FindStringSubmatch(strings.TrimSpace(category))
	if match == nil {
		return ""
	}
	return match[1]
}

// Category names one output file in the treasury archive. Project
// categories carry the expenditure category group whose sheet feeds them;
// the record categories take every row of their sheet type.
type Category struct {
	Name       string
	RecordType string
	Group      string
}

// ExportCategories lists every output file the archive can contain, in
// archive order.
var ExportCategories = []Category{
	{Name: "project_ec1.csv", RecordType: "ec1", Group: "1"},
	{Name: "project_ec2.csv", RecordType: "ec2", Group: "2"},
	{Name: "project_ec3.csv", RecordType: "ec3", Group: "3"},
	{Name: "project_ec4.csv", RecordType: "ec4", Group: "4"},
	{Name: "project_ec5.csv", RecordType: "ec5", Group: "5"},
	{Name: "project_ec7.csv", RecordType: "ec7", Group: "7"},
	{Name: "subrecipients.csv", RecordType: "subrecipient"},
	{Name: "awards_over_50k.csv", RecordType: "awards50k"},
	{Name: "expenditures_over_50k.csv", RecordType: "expenditures50k"},
	{Name: "aggregate_awards.csv", RecordType: "awards"},
}

// Exporter accumulates the rows of one category beneath its official
// template header. Row order follows upload order, so re-running an
// export over the same canonical uploads reproduces the same files.
type Exporter struct {
	Category Category
	header   []string
	columns  []*rules.Rule
	rows     [][]string
}

// NewExporter loads a category's embedded template header and binds the
// catalog rules that fill its columns. The rule set and the template must
// agree on the column count.
func NewExporter(catalog *rules.Catalog, cat Category) (*Exporter, error) {
	f, err := templates.Open("templates/" + cat.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingTemplate, cat.Name)
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", cat.Name, err)
	}

	columns := categoryColumns(catalog, cat)
	want := len(columns)
	if cat.Group != "" {
		// Project rows lead with the upload's detailed category code.
		want++
	}
	if want != len(header) {
		return nil, fmt.Errorf("%w: %s has %d template columns but %d rule columns",
			ErrTemplateMismatch, cat.Name, len(header), want)
	}

	return &Exporter{Category: cat, header: header, columns: columns}, nil
}

// categoryColumns selects the catalog rules serving a category's columns,
// in catalog order. Project categories keep the shared project fields
// plus those restricted to detailed codes within their group.
func categoryColumns(catalog *rules.Catalog, cat Category) []*rules.Rule {
	all := catalog.ForType(cat.RecordType)
	if cat.Group == "" {
		return all
	}

	prefix := cat.Group + "."
	columns := make([]*rules.Rule, 0, len(all))
	for _, rule := range all {
		if len(rule.ECCodes) == 0 || anyHasPrefix(rule.ECCodes, prefix) {
			columns = append(columns, rule)
		}
	}
	return columns
}

func anyHasPrefix(codes []string, prefix string) bool {
	for _, code := range codes {
		if strings.HasPrefix(code, prefix) {
			return true
		}
	}
	return false
}

// Add renders a record into the category's next row. Records of another
// type, or project records from a sheet outside the upload's declared
// category group, do not belong here and are skipped.
func (e *Exporter) Add(rec records.Record, ecCode string) {
	if rec.Type != e.Category.RecordType {
		return
	}
	if e.Category.Group != "" && !strings.HasPrefix(SubcategoryCode(ecCode), e.Category.Group+".") {
		return
	}

	row := make([]string, 0, len(e.header))
	if e.Category.Group != "" {
		row = append(row, ecCode)
	}
	for _, rule := range e.columns {
		row = append(row, cellValue(rule, rec.Content.Get(rule.Key)))
	}
	e.rows = append(e.rows, row)
}

// Empty reports whether the exporter collected no rows. Empty categories
// are omitted from the archive entirely.
func (e *Exporter) Empty() bool {
	return len(e.rows) == 0
}

// cellValue renders one cell for the export file. Every string passes
// through the newline flattener because the downstream ingest parser
// mishandles embedded line breaks.
func cellValue(rule *rules.Rule, value rules.Value) string {
	if value.IsAbsent() {
		return ""
	}

	switch rule.DataType {
	case rules.TypeCurrency:
		if value.Kind == rules.KindNumber {
			return formatting.Currency(value.Num)
		}
	case rules.TypeMultiSelect:
		return formatting.Multiselect(value.Text())
	case rules.TypePickList:
		return formatting.CapitalizeFirst(formatting.FlattenNewlines(value.Text()))
	}

	text := formatting.FlattenNewlines(value.Text())
	switch rule.Key {
	case "EIN__c", "Recipient_EIN__c":
		return formatting.TIN(text)
	case "Zip__c", "Place_of_Performance_Zip__c":
		return formatting.Zip(text)
	case "Zip_4__c", "Place_of_Performance_Zip_4__c":
		return formatting.Zip4(text)
	}
	return text
}
