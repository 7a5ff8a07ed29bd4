package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/helpdesk-ai/support-engine/internal/cache"
	"github.com/helpdesk-ai/support-engine/internal/monitoring"
	"github.com/helpdesk-ai/support-engine/internal/observability"
	"github.com/helpdesk-ai/support-engine/internal/source"
)

// AdminHandler handles source cache administration and diagnostics.
type AdminHandler struct {
	logger  *observability.Logger
	sources *source.Cache
	replies cache.Client
	auditor *monitoring.AuditLogger
}

// NewAdminHandler creates a new admin handler. auditor may be nil.
func NewAdminHandler(logger *observability.Logger, sources *source.Cache, replies cache.Client, auditor *monitoring.AuditLogger) *AdminHandler {
	return &AdminHandler{
		logger:  logger,
		sources: sources,
		replies: replies,
		auditor: auditor,
	}
}

// SourceInfoDTO represents diagnostics for a cached knowledge domain.
type SourceInfoDTO struct {
	Domain     string `json:"domain"`
	Provenance string `json:"provenance"`
	FetchedAt  string `json:"fetchedAt"`
	Preview    string `json:"preview"`
}

// Inspect handles GET /admin/sources/{domain}.
func (h *AdminHandler) Inspect(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")

	info, ok := h.sources.Info(domain)
	if !ok {
		writeError(w, http.StatusNotFound, "domain not cached", "")
		return
	}

	writeJSON(w, http.StatusOK, SourceInfoDTO{
		Domain:     info.Domain,
		Provenance: string(info.Provenance),
		FetchedAt:  info.FetchedAt.Format("2006-01-02T15:04:05Z07:00"),
		Preview:    info.Preview,
	})
}

// Clear handles POST /admin/sources/{domain}/clear. It invalidates the
// domain's corpus entry and every cached reply for the matching topic.
func (h *AdminHandler) Clear(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")

	h.sources.Clear(domain)
	if err := h.replies.DeleteByPrefix(r.Context(), cache.CacheKey("reply", domain)); err != nil {
		h.logger.Warn().Err(err).Str("domain", domain).Msg("Reply cache invalidation failed")
	}

	h.logger.Info().Str("domain", domain).Msg("Source cache cleared")
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared", "domain": domain})
}

// Refresh handles POST /admin/sources/{domain}/refresh. It forces a reload
// so operators can warm the cache ahead of traffic.
func (h *AdminHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")

	h.sources.Clear(domain)
	_, provenance, err := h.sources.Get(r.Context(), domain)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "refresh failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":     "refreshed",
		"domain":     domain,
		"provenance": string(provenance),
	})
}

// AuditEvents handles GET /admin/audit/events.
func (h *AdminHandler) AuditEvents(w http.ResponseWriter, r *http.Request) {
	if h.auditor == nil {
		writeError(w, http.StatusNotFound, "audit trail disabled", "")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	events, err := h.auditor.RecentEvents(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Audit query failed")
		writeError(w, http.StatusInternalServerError, "audit query failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}
