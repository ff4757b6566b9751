package relay

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/protonix-ai/protonix/internal/logger"
)

// HealthText is served on GET /
const HealthText = "Protonix AI relay is running."

// Relayer is what the chat handler needs from the relay service
type Relayer interface {
	RelayChat(ctx context.Context, req ChatRequest) (string, error)
	Targets() []TargetInfo
}

// Handler exposes the relay over HTTP
type Handler struct {
	relay  Relayer
	logger logger.Logger
}

// NewHandler creates the relay HTTP handler
func NewHandler(relay Relayer, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Discard
	}
	return &Handler{
		relay:  relay,
		logger: log,
	}
}

// HandleChat relays POST /api/chat. Success and failure both reply with {"reply": "..."}.
func (h *Handler) HandleChat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Warn("failed to decode chat request", map[string]interface{}{logger.ErrorKey: err})
			h.writeReply(w, http.StatusBadRequest, "Invalid request body.")
			return
		}

		reply, err := h.relay.RelayChat(r.Context(), req)
		if err != nil {
			rerr := AsError(err)
			h.writeReply(w, rerr.Status, rerr.Message)
			return
		}

		h.writeReply(w, http.StatusOK, reply)
	}
}

// HandleTargets lists the configured targets without secrets
func (h *Handler) HandleTargets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, http.StatusOK, TargetsResponse{Targets: h.relay.Targets()})
	}
}

// HandleHealth answers GET / with a fixed liveness text
func (h *Handler) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(HealthText))
	}
}

func (h *Handler) writeReply(w http.ResponseWriter, status int, reply string) {
	h.writeJSON(w, status, ChatReply{Reply: reply})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", map[string]interface{}{logger.ErrorKey: err})
	}
}
