// Package handlers provides HTTP handlers for the support engine API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/helpdesk-ai/support-engine/internal/compose"
	"github.com/helpdesk-ai/support-engine/internal/observability"
	"github.com/helpdesk-ai/support-engine/internal/source"
)

// ChatHandler handles customer query requests.
type ChatHandler struct {
	logger   *observability.Logger
	composer *compose.Composer
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(logger *observability.Logger, composer *compose.Composer) *ChatHandler {
	return &ChatHandler{
		logger:   logger,
		composer: composer,
	}
}

// ChatRequestDTO represents the API request for a customer query.
type ChatRequestDTO struct {
	Query string `json:"query"`
}

// ChatResponseDTO represents the API response.
type ChatResponseDTO struct {
	Reply      string `json:"reply"`
	Topic      string `json:"topic"`
	Strategy   string `json:"strategy"`
	Provenance string `json:"provenance,omitempty"`
	Cached     bool   `json:"cached"`
	LatencyMs  int64  `json:"latencyMs"`
	RequestID  string `json:"requestId"`
}

// Query handles POST /chat/query.
func (h *ChatHandler) Query(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	started := time.Now()

	var reqDTO ChatRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if strings.TrimSpace(reqDTO.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required", "")
		return
	}

	reply, err := h.composer.Answer(ctx, reqDTO.Query)
	if err != nil && errors.Is(err, source.ErrSourceUnavailable) {
		h.logger.Warn().Err(err).Msg("Answer degraded to apology")
		writeJSON(w, http.StatusServiceUnavailable, toChatResponseDTO(reply, started))
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("Answer failed")
		writeError(w, http.StatusInternalServerError, "query failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toChatResponseDTO(reply, started))
}

func toChatResponseDTO(reply compose.Reply, started time.Time) ChatResponseDTO {
	return ChatResponseDTO{
		Reply:      reply.Text,
		Topic:      reply.Topic,
		Strategy:   reply.Strategy,
		Provenance: reply.Provenance,
		Cached:     reply.Cached,
		LatencyMs:  time.Since(started).Milliseconds(),
		RequestID:  uuid.NewString(),
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := map[string]string{
		"error":   message,
		"message": message,
	}
	if detail != "" {
		resp["detail"] = detail
	}
	json.NewEncoder(w).Encode(resp)
}
