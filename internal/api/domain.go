package api

import (
	"fmt"

	"github.com/granite-reporting/granite/internal/agencies"
	"github.com/granite-reporting/granite/internal/periods"
	"github.com/granite-reporting/granite/internal/records"
	"github.com/granite-reporting/granite/internal/reports"
	"github.com/granite-reporting/granite/internal/rules"
	"github.com/granite-reporting/granite/internal/subrecipients"
	"github.com/granite-reporting/granite/internal/uploads"
	"github.com/granite-reporting/granite/internal/validation"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Agencies      agencies.System
	Uploads       uploads.System
	Records       records.System
	Subrecipients subrecipients.System
	Periods       periods.System
	Validation    validation.System
	Reports       reports.System
}

// NewDomain creates all domain systems from the API runtime. The rule
// catalog is built once and shared read-only across every system.
func NewDomain(runtime *Runtime) (*Domain, error) {
	catalog, err := rules.Default()
	if err != nil {
		return nil, fmt.Errorf("build rule catalog: %w", err)
	}
	db := runtime.Database.Connection()

	agenciesSystem := agencies.New(db, runtime.Logger)
	uploadsSystem := uploads.New(db, runtime.Storage, runtime.Logger)
	periodsSystem := periods.New(db, runtime.Storage, runtime.Logger)
	subrecipientsSystem := subrecipients.New(db, runtime.Logger)

	cache := records.NewCache(runtime.Pipeline.CacheDir)
	recordsSystem := records.New(runtime.Storage, cache, catalog, runtime.Logger)

	validationSystem := validation.New(
		catalog,
		uploadsSystem,
		recordsSystem,
		periodsSystem,
		agenciesSystem,
		subrecipientsSystem,
		runtime.Logger,
	)

	reportsSystem := reports.New(
		catalog,
		uploadsSystem,
		recordsSystem,
		periodsSystem,
		runtime.Logger,
	)

	return &Domain{
		Agencies:      agenciesSystem,
		Uploads:       uploadsSystem,
		Records:       recordsSystem,
		Subrecipients: subrecipientsSystem,
		Periods:       periodsSystem,
		Validation:    validationSystem,
		Reports:       reportsSystem,
	}, nil
}
