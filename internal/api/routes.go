package api

import (
	"net/http"

	"github.com/granite-reporting/granite/internal/config"
	"github.com/granite-reporting/granite/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) {
	routes.Register(
		mux,
		domain.Agencies.Handler().Routes(),
		domain.Uploads.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Subrecipients.Handler().Routes(),
		domain.Periods.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Validation.Handler().Routes(),
		domain.Reports.Handler().Routes(),
	)
}
