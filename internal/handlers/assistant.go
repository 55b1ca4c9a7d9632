package handlers

import (
	"context"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Assistant answers concierge questions. It never fails.
type Assistant interface {
	AssistantReply(ctx context.Context, query string) string
}

type AssistantHandler struct {
	assistant Assistant
	log       log.FieldLogger
}

func NewAssistantHandler(assistant Assistant, logger log.FieldLogger) *AssistantHandler {
	return &AssistantHandler{assistant: assistant, log: logger}
}

func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"reply": h.assistant.AssistantReply(r.Context(), req.Query)})
}
