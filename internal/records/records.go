// Package records extracts typed records from uploaded workbooks and caches
// the extraction so each upload is parsed at most once. Extraction is
// deterministic for a given workbook and rule catalog, which lets validation
// and report generation share one cached result.
package records

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/granite-reporting/granite/internal/rules"
)

// Record is one row lifted out of an upload workbook. Type names the sheet
// family it came from (cover, certification, logic, ec1..ec7, subrecipient,
// awards50k, expenditures50k, awards) and Row is the 1-based worksheet row,
// kept so validation findings can point back at the cell.
type Record struct {
	Type     string        `json:"type"`
	UploadID uuid.UUID     `json:"upload_id"`
	Row      int           `json:"row"`
	Content  rules.Content `json:"content"`
}

// WorkbookKey returns the blob storage key for an upload's workbook.
// Keys are sharded by the first character of the upload id to keep any
// single directory from growing unbounded on the local driver.
func WorkbookKey(id uuid.UUID) string {
	s := id.String()
	return fmt.Sprintf("uploads/%c/%s.xlsm", s[0], s)
}
