package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/discord-lookup/internal/apperror"
	"github.com/sakif/discord-lookup/internal/repository"
)

// HandleHistory handles GET /api/lookups?limit={n}&offset={n}.
//
// limit defaults to 20 and is capped at 100; a non-numeric limit or offset
// is a 400.
func (h *LookupHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, err)
		return
	}

	lookups, err := h.service.History(r.Context(), repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		h.logger.Error("listing lookups", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lookups)
}

// queryInt reads an optional non-negative integer parameter; absent is 0.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperror.InvalidFormat(name)
	}
	return n, nil
}
