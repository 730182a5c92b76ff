package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	heygenBaseURL = "https://api.heygen.com"

	heygenTaskRepeat = "repeat"

	DefaultAvatarQuality = "medium"
)

// HeyGenService implements AvatarService against the HeyGen streaming API.
type HeyGenService struct {
	apiKey     string
	avatarID   string
	voiceID    string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ AvatarService = (*HeyGenService)(nil)

type heygenVoice struct {
	VoiceID string `json:"voice_id,omitempty"`
}

type heygenNewRequest struct {
	AvatarID string       `json:"avatar_id"`
	Quality  string       `json:"quality,omitempty"`
	Voice    *heygenVoice `json:"voice,omitempty"`
}

type heygenTaskRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
	TaskType  string `json:"task_type"`
}

type heygenStopRequest struct {
	SessionID string `json:"session_id"`
}

type heygenResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type heygenSessionData struct {
	SessionID   string `json:"session_id"`
	AccessToken string `json:"access_token"`
	URL         string `json:"url"`
}

func NewHeyGenService(apiKey, avatarID, voiceID string, logger *slog.Logger) *HeyGenService {
	return &HeyGenService{
		apiKey:   apiKey,
		avatarID: avatarID,
		voiceID:  voiceID,
		baseURL:  heygenBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

func (h *HeyGenService) CreateSession(ctx context.Context) (*AvatarSession, error) {
	req := heygenNewRequest{
		AvatarID: h.avatarID,
		Quality:  DefaultAvatarQuality,
	}
	if h.voiceID != "" {
		req.Voice = &heygenVoice{VoiceID: h.voiceID}
	}

	resp, err := h.post(ctx, "/v1/streaming.new", req)
	if err != nil {
		return nil, err
	}

	var data heygenSessionData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse session data: %w", err)
	}
	if data.SessionID == "" {
		return nil, fmt.Errorf("heygen returned no session id")
	}

	h.logger.Info("Avatar session created", "avatar_session_id", data.SessionID)
	return &AvatarSession{
		SessionID:   data.SessionID,
		AccessToken: data.AccessToken,
		URL:         data.URL,
	}, nil
}

func (h *HeyGenService) Speak(ctx context.Context, sessionID, text string) error {
	if sessionID == "" {
		return fmt.Errorf("avatar session id is required")
	}
	_, err := h.post(ctx, "/v1/streaming.task", heygenTaskRequest{
		SessionID: sessionID,
		Text:      text,
		TaskType:  heygenTaskRepeat,
	})
	return err
}

func (h *HeyGenService) EndSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	_, err := h.post(ctx, "/v1/streaming.stop", heygenStopRequest{SessionID: sessionID})
	return err
}

func (h *HeyGenService) post(ctx context.Context, path string, payload interface{}) (*heygenResponse, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", h.baseURL+path, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-api-key", h.apiKey)
	req.Header.Set("content-type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var heygenResp heygenResponse
	if err := json.Unmarshal(body, &heygenResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &heygenResp, nil
}
