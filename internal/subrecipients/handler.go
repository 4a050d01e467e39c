package subrecipients

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/granite-reporting/granite/pkg/handlers"
	"github.com/granite-reporting/granite/pkg/routes"
)

// Handler provides HTTP endpoints for subrecipient operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "subrecipients"),
	}
}

// Routes returns the route group definition for subrecipient endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/subrecipients",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
		},
	}
}

// List returns every registered subrecipient for the requesting tenant.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(r.URL.Query().Get("tenant_id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errors.New("tenant_id required"))
		return
	}

	items, err := h.sys.List(r.Context(), tenantID)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

// Find returns a single subrecipient by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errors.New("invalid subrecipient id"))
		return
	}

	sub, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, sub)
}
