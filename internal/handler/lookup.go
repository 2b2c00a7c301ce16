// Package handler contains the HTTP handlers: the JSON lookup API, the
// history API and the server-rendered widget page.
//
// Handlers only parse requests and write responses. Validation, the Discord
// call and history recording live in the service layer.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/discord-lookup/internal/model"
	"github.com/sakif/discord-lookup/internal/repository"
)

// LookupService is what the API handlers need from service.LookupService.
type LookupService interface {
	Lookup(ctx context.Context, rawID string) (*model.ProfileRecord, error)
	History(ctx context.Context, opts repository.ListOptions) ([]model.Lookup, error)
}

type LookupHandler struct {
	service LookupService
	logger  *slog.Logger
}

func NewLookupHandler(svc LookupService, logger *slog.Logger) *LookupHandler {
	return &LookupHandler{service: svc, logger: logger}
}

// HandleLookup handles GET /lookup?id={id}.
//
// The raw id goes to the service untouched; the service trims and validates
// it so the API and the widget agree on what a valid id is.
func (h *LookupHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.Lookup(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleHealth handles GET /healthz.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
