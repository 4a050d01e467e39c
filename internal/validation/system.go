package validation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/granite-reporting/granite/internal/agencies"
	"github.com/granite-reporting/granite/internal/periods"
	"github.com/granite-reporting/granite/internal/records"
	"github.com/granite-reporting/granite/internal/rules"
	"github.com/granite-reporting/granite/internal/subrecipients"
	"github.com/granite-reporting/granite/internal/uploads"
)

// Result is the outcome of validating one upload. Items carry every
// finding, errors and warnings both; Valid is true only when no finding
// is an error.
type Result struct {
	UploadID uuid.UUID `json:"upload_id"`
	Valid    bool      `json:"valid"`
	Items    []Item    `json:"items"`
}

// System validates uploads against the rule catalog and records the
// verdict on the upload itself.
type System interface {
	Handler() *Handler

	// ValidateUpload runs the full check sequence over an upload's
	// records and marks the upload validated or not validated from the
	// outcome. The returned result carries every finding either way.
	ValidateUpload(ctx context.Context, uploadID, userID uuid.UUID) (*Result, error)
}

type system struct {
	catalog       *rules.Catalog
	uploads       uploads.System
	records       records.System
	periods       periods.System
	agencies      agencies.System
	subrecipients subrecipients.System
	logger        *slog.Logger
}

func New(
	catalog *rules.Catalog,
	up uploads.System,
	rec records.System,
	per periods.System,
	ag agencies.System,
	sub subrecipients.System,
	logger *slog.Logger,
) System {
	return &system{
		catalog:       catalog,
		uploads:       up,
		records:       rec,
		periods:       per,
		agencies:      ag,
		subrecipients: sub,
		logger:        logger.With("system", "validation"),
	}
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *system) ValidateUpload(ctx context.Context, uploadID, userID uuid.UUID) (*Result, error) {
	upload, err := s.uploads.Find(ctx, uploadID)
	if err != nil {
		return nil, err
	}

	period, err := s.periods.Find(ctx, upload.ReportingPeriodID)
	if err != nil {
		return nil, err
	}
	if period.Certified() {
		return nil, ErrPeriodCertified
	}

	recs, err := s.records.ForUpload(ctx, uploadID)
	if err != nil {
		return nil, err
	}

	vctx := &Context{
		Catalog:    s.catalog,
		ActiveTags: map[string]bool{},
	}

	items, err := s.resolveCover(ctx, vctx, upload, period, recs)
	if err != nil {
		return nil, err
	}

	for _, rec := range recs {
		items = append(items, ValidateRecord(vctx, rec)...)
	}
	items = append(items, ValidateCrossReferences(vctx, recs)...)

	registryItems, err := s.checkSubrecipientRegistry(ctx, vctx, upload, recs)
	if err != nil {
		return nil, err
	}
	items = append(items, registryItems...)

	cumulativeItems, err := s.reconcileHistory(ctx, vctx, upload, period, recs)
	if err != nil {
		return nil, err
	}
	items = append(items, cumulativeItems...)

	SortItems(items)
	valid := !HasErrors(items)

	if valid {
		if err := s.registerSubrecipients(ctx, upload, recs); err != nil {
			return nil, err
		}
		if _, err := s.uploads.MarkValidated(ctx, uploadID, userID); err != nil {
			return nil, err
		}
	} else {
		if _, err := s.uploads.MarkNotValidated(ctx, uploadID); err != nil {
			return nil, err
		}
	}

	s.logger.Info("validated upload",
		"upload_id", uploadID,
		"valid", valid,
		"findings", len(items))

	return &Result{UploadID: uploadID, Valid: valid, Items: items}, nil
}

// resolveCover checks the cover and logic sheets and backfills the agency
// and category the workbook declares onto the upload row. A cover sheet
// the checks cannot resolve produces error findings rather than failing
// the call, so the reviewer still sees every other finding.
func (s *system) resolveCover(ctx context.Context, vctx *Context, upload *uploads.Upload, period *periods.ReportingPeriod, recs []records.Record) ([]Item, error) {
	var items []Item

	var cover, logic *records.Record
	for i := range recs {
		switch recs[i].Type {
		case "cover":
			cover = &recs[i]
		case "logic":
			logic = &recs[i]
		}
	}

	if logic != nil {
		version := logic.Content.Get("version").Text()
		if version != "" && version != s.catalog.TemplateVersion {
			items = append(items, warningAt(*logic, nil,
				"Template version %s does not match the current version %s",
				version, s.catalog.TemplateVersion))
		}
	}

	if cover == nil {
		items = append(items, Item{
			Severity: SeverityError,
			Message:  "Workbook cover sheet has no entry",
			Tab:      tabNames["cover"],
		})
		return items, nil
	}

	code := cover.Content.Get("Agency_Code__c").Text()
	if code != "" {
		agency, err := s.agencies.FindByCode(ctx, upload.TenantID, code)
		switch {
		case errors.Is(err, agencies.ErrNotFound):
			rule, _ := vctx.Catalog.Rule("cover", "Agency_Code__c")
			items = append(items, errorAt(*cover, rule,
				"Agency code %s does not match any registered agency", code))
		case err != nil:
			return nil, err
		default:
			if err := s.uploads.SetAgency(ctx, upload.ID, agency.ID); err != nil {
				return nil, err
			}
			upload.AgencyID = &agency.ID
		}
	}

	ecCode := cover.Content.Get("Detailed_Expenditure_Category__c").Text()
	if ecCode != "" {
		if _, ok := rules.ECCodes[ecCode]; !ok {
			rule, _ := vctx.Catalog.Rule("cover", "Detailed_Expenditure_Category__c")
			items = append(items, errorAt(*cover, rule,
				"Expenditure category %s is not in the federal catalog", ecCode))
		} else {
			if err := s.uploads.SetECCode(ctx, upload.ID, ecCode); err != nil {
				return nil, err
			}
			upload.ECCode = &ecCode
			vctx.ECCode = ecCode
		}
	}

	items = append(items, checkCoverDates(vctx, *cover, period)...)
	return items, nil
}

func checkCoverDates(vctx *Context, cover records.Record, period *periods.ReportingPeriod) []Item {
	var items []Item

	checks := []struct {
		field string
		want  time.Time
	}{
		{"Reporting_Period_Start_Date__c", period.StartDate},
		{"Reporting_Period_End_Date__c", period.EndDate},
	}
	for _, check := range checks {
		value := cover.Content.Get(check.field)
		if value.Kind != rules.KindDate {
			continue
		}
		if !sameDay(value.Date, check.want) {
			rule, _ := vctx.Catalog.Rule("cover", check.field)
			items = append(items, errorAt(cover, rule,
				"Cover sheet declares %s but the open reporting period runs %s",
				value.Text(), rules.Date(check.want).Text()))
		}
	}

	return items
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// reconcileHistory loads the canonical uploads of every certified prior
// period for the same agency and category, activates cumulative checks,
// and reconciles declared totals against the accumulated increments.
func (s *system) reconcileHistory(ctx context.Context, vctx *Context, upload *uploads.Upload, period *periods.ReportingPeriod, recs []records.Record) ([]Item, error) {
	if upload.AgencyID == nil || upload.ECCode == nil {
		return nil, nil
	}

	all, err := s.periods.List(ctx, upload.TenantID)
	if err != nil {
		return nil, err
	}

	var historyIDs []uuid.UUID
	for _, prior := range all {
		if !prior.Certified() || !prior.StartDate.Before(period.StartDate) {
			continue
		}
		canonical, err := s.uploads.UsedForTreasuryExport(ctx, upload.TenantID, prior.ID)
		if err != nil {
			return nil, err
		}
		for _, c := range canonical {
			if c.AgencyID == nil || c.ECCode == nil {
				continue
			}
			if *c.AgencyID == *upload.AgencyID && *c.ECCode == *upload.ECCode {
				historyIDs = append(historyIDs, c.ID)
			}
		}
	}

	vctx.ActiveTags["cumulative"] = true

	var history []records.Record
	if len(historyIDs) > 0 {
		byUpload, err := s.records.ForUploads(ctx, historyIDs)
		if err != nil {
			return nil, fmt.Errorf("loading prior period records: %w", err)
		}
		for _, id := range historyIDs {
			history = append(history, byUpload[id]...)
		}
	}

	return ReconcileCumulative(vctx, recs, history), nil
}

// checkSubrecipientRegistry compares each subrecipient row against the
// tenant's registry. Rows whose UEI and EIN resolve to two different
// registered subrecipients, and rows owned by another upload whose fields
// drifted from the registry, produce warnings; the upsert on a successful
// validation settles which values win.
func (s *system) checkSubrecipientRegistry(ctx context.Context, vctx *Context, upload *uploads.Upload, recs []records.Record) ([]Item, error) {
	var items []Item

	for _, rec := range recs {
		if rec.Type != "subrecipient" {
			continue
		}
		uei := identifierPtr(rec.Content.Get("Unique_Entity_Identifier__c").Text())
		tin := identifierPtr(rec.Content.Get("EIN__c").Text())
		if uei == nil && tin == nil {
			continue
		}

		byUEI, err := s.lookupSubrecipient(ctx, upload.TenantID, uei, nil)
		if err != nil {
			return nil, err
		}
		byTIN, err := s.lookupSubrecipient(ctx, upload.TenantID, nil, tin)
		if err != nil {
			return nil, err
		}

		if byUEI != nil && byTIN != nil && byUEI.ID != byTIN.ID {
			items = append(items, warningAt(rec, nil,
				"UEI %s and EIN %s identify two different registered subrecipients", *uei, *tin))
			continue
		}

		existing := byUEI
		if existing == nil {
			existing = byTIN
		}
		if existing == nil || existing.UploadID == upload.ID {
			continue
		}

		for _, rule := range vctx.Catalog.ForType("subrecipient") {
			declared := rec.Content.Get(rule.Key).Text()
			registered := existing.Record.Get(rule.Key).Text()
			if declared == "" || declared == registered {
				continue
			}
			items = append(items, warningAt(rec, rule,
				"Value %s differs from the registered subrecipient record", declared))
		}
	}

	return items, nil
}

func (s *system) lookupSubrecipient(ctx context.Context, tenantID uuid.UUID, uei, tin *string) (*subrecipients.Subrecipient, error) {
	if uei == nil && tin == nil {
		return nil, nil
	}
	sub, err := s.subrecipients.FindByIdentifier(ctx, tenantID, uei, tin)
	if errors.Is(err, subrecipients.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// registerSubrecipients lifts the subrecipient rows of a validated upload
// into the tenant's registry in one transaction, so a failure partway
// leaves the registry unchanged. Rows without identifiers were already
// rejected as errors, so every row here carries a UEI or an EIN.
func (s *system) registerSubrecipients(ctx context.Context, upload *uploads.Upload, recs []records.Record) error {
	cmds := SubrecipientCommands(upload.TenantID, upload.ID, recs)
	if len(cmds) == 0 {
		return nil
	}
	if _, err := s.subrecipients.Register(ctx, cmds); err != nil {
		return fmt.Errorf("registering subrecipients: %w", err)
	}
	return nil
}

// SubrecipientCommands collects the registry upsert commands for an
// upload's subrecipient rows, with identifiers normalized the same way
// cross-reference matching normalizes them.
func SubrecipientCommands(tenantID, uploadID uuid.UUID, recs []records.Record) []subrecipients.UpsertCommand {
	var cmds []subrecipients.UpsertCommand
	for _, rec := range recs {
		if rec.Type != "subrecipient" {
			continue
		}
		cmds = append(cmds, subrecipients.UpsertCommand{
			TenantID: tenantID,
			UEI:      identifierPtr(rec.Content.Get("Unique_Entity_Identifier__c").Text()),
			TIN:      identifierPtr(rec.Content.Get("EIN__c").Text()),
			Record:   rec.Content,
			UploadID: uploadID,
		})
	}
	return cmds
}

func identifierPtr(raw string) *string {
	normalized := NormalizeIdentifier(raw)
	if normalized == "" {
		return nil
	}
	return &normalized
}
