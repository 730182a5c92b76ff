package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/backchannel/internal/engine"
	"github.com/jwebster45206/backchannel/internal/store"
	"github.com/jwebster45206/backchannel/pkg/chat"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SessionHandler struct {
	engine *engine.Engine
	logger *slog.Logger
}

func NewSessionHandler(engine *engine.Engine, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		engine: engine,
		logger: logger,
	}
}

// ServeHTTP handles HTTP requests for negotiation sessions
// Routes:
// POST /api/session/start             - Create new session
// POST /api/session/{id}/interact     - Process one player utterance
// GET  /api/session/{id}/conversation - Read the transcript
// POST /api/session/{id}/end          - End the session
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/session"), "/")
	parts := strings.Split(path, "/")

	if len(parts) == 1 && parts[0] == "start" {
		if r.Method != http.MethodPost {
			h.methodNotAllowed(w, r)
			return
		}
		h.handleStart(w, r)
		return
	}

	if len(parts) != 2 || parts[0] == "" {
		h.writeError(w, http.StatusNotFound, "Unknown session endpoint")
		return
	}
	sessionID, action := parts[0], parts[1]

	switch action {
	case "interact":
		if r.Method != http.MethodPost {
			h.methodNotAllowed(w, r)
			return
		}
		h.handleInteract(w, r, sessionID)

	case "conversation":
		if r.Method != http.MethodGet {
			h.methodNotAllowed(w, r)
			return
		}
		h.handleConversation(w, r, sessionID)

	case "end":
		if r.Method != http.MethodPost {
			h.methodNotAllowed(w, r)
			return
		}
		h.handleEnd(w, r, sessionID)

	default:
		h.writeError(w, http.StatusNotFound, "Unknown session endpoint")
	}
}

func (h *SessionHandler) handleStart(w http.ResponseWriter, r *http.Request) {
	s, err := h.engine.StartSession(r.Context())
	if err != nil {
		h.logger.Error("Failed to start session", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to start session")
		return
	}

	h.writeJSON(w, http.StatusOK, chat.StartResponse{
		SessionID: s.ID,
		Initial:   s.Conversation[0].Text,
		State:     s.Snapshot(),
	})
}

func (h *SessionHandler) handleInteract(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req chat.InteractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid interact request body", "session_id", sessionID, "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.engine.Interact(r.Context(), sessionID, *req.Text)
	if err != nil {
		h.handleEngineError(w, sessionID, err)
		return
	}

	h.writeJSON(w, http.StatusOK, chat.InteractResponse{
		AIResponse:  result.Reply,
		State:       result.State,
		ScoreChange: result.ScoreChange,
	})
}

func (h *SessionHandler) handleConversation(w http.ResponseWriter, r *http.Request, sessionID string) {
	s, err := h.engine.Conversation(r.Context(), sessionID)
	if err != nil {
		h.handleEngineError(w, sessionID, err)
		return
	}

	h.writeJSON(w, http.StatusOK, chat.ConversationResponse{
		Conversation: s.Conversation,
		State:        s.Snapshot(),
	})
}

func (h *SessionHandler) handleEnd(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := h.engine.End(r.Context(), sessionID); err != nil {
		h.logger.Error("Failed to end session", "session_id", sessionID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to end session")
		return
	}

	h.writeJSON(w, http.StatusOK, chat.EndResponse{Success: true})
}

func (h *SessionHandler) handleEngineError(w http.ResponseWriter, sessionID string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "Session not found")
	case errors.Is(err, engine.ErrInvalidInput):
		h.writeError(w, http.StatusBadRequest, "Text must be a non-empty string")
	default:
		h.logger.Error("Session operation failed", "session_id", sessionID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *SessionHandler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.logger.Warn("Method not allowed for session endpoint",
		"method", r.Method, "path", r.URL.Path)
	h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func (h *SessionHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

func (h *SessionHandler) writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		h.logger.Error("Failed to encode error response", "error", err)
	}
}
