package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/user/blacklist-service/internal/delivery/http/request"
	"github.com/user/blacklist-service/internal/delivery/http/response"
	"github.com/user/blacklist-service/internal/entity"
	"github.com/user/blacklist-service/internal/repository"
	"github.com/user/blacklist-service/internal/usecase"
)

type Handler struct {
	blacklist usecase.Blacklist
}

func NewHandler(blacklist usecase.Blacklist) *Handler {
	return &Handler{
		blacklist: blacklist,
	}
}

// HandleIngestURLs accepts a JSON array of discovered URL records, checks
// them against the blacklist and appends the reconciled rows to the ledger.
func (h *Handler) HandleIngestURLs(w http.ResponseWriter, r *http.Request) {
	var req []request.IngestRecord
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	records := make([]entity.URLRecord, 0, len(req))
	for _, rec := range req {
		if strings.TrimSpace(rec.URL) == "" {
			continue
		}
		records = append(records, entity.URLRecord{
			URL:          rec.URL,
			DiscoverTime: rec.DiscoverTime,
			PulledTime:   rec.PulledTime,
		})
	}
	if len(records) == 0 {
		h.writeJSONError(w, "Request body contains no URLs", http.StatusBadRequest)
		return
	}

	checked, err := h.blacklist.ProcessRecords(r.Context(), records)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrQueryFailed):
			h.writeJSONError(w, "Blacklist query failed", http.StatusBadGateway)
		case errors.Is(err, repository.ErrStoreUnwritable):
			h.writeJSONError(w, "Failed to persist results", http.StatusInternalServerError)
		default:
			slog.Error("Failed to process ingested URLs", "count", len(records), "error", err)
			h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, response.IngestURLsResponse{OK: true, Checked: checked})
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
