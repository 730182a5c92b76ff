package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/backchannel/internal/config"
)

type ConfigResponse struct {
	GeminiConfigured bool   `json:"geminiConfigured"`
	GeminiKeyPreview string `json:"geminiKeyPreview,omitempty"`
	GeminiModel      string `json:"geminiModel"`
	HeyGenConfigured bool   `json:"heygenConfigured"`
	HeyGenKeyPreview string `json:"heygenKeyPreview,omitempty"`
	AvatarID         string `json:"avatarId"`
}

// ConfigHandler reports which provider credentials are present so the
// client can decide what to enable. It never returns a full secret.
type ConfigHandler struct {
	cfg    *config.Config
	logger *slog.Logger
}

func NewConfigHandler(cfg *config.Config, logger *slog.Logger) *ConfigHandler {
	return &ConfigHandler{
		cfg:    cfg,
		logger: logger,
	}
}

func (h *ConfigHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		if err := json.NewEncoder(w).Encode(ErrorResponse{Error: "Method not allowed"}); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	response := ConfigResponse{
		GeminiConfigured: h.cfg.GeminiAPIKey != "",
		GeminiKeyPreview: maskKey(h.cfg.GeminiAPIKey),
		GeminiModel:      h.cfg.GeminiModel,
		HeyGenConfigured: h.cfg.HeyGenAPIKey != "",
		HeyGenKeyPreview: maskKey(h.cfg.HeyGenAPIKey),
		AvatarID:         h.cfg.HeyGenAvatarID,
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode config response", "error", err)
	}
}

// maskKey keeps enough of a credential to recognize it and nothing more.
func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-2:]
}
