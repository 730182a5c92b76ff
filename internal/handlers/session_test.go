package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/jwebster45206/backchannel/internal/engine"
	"github.com/jwebster45206/backchannel/internal/services"
	"github.com/jwebster45206/backchannel/internal/store"
	"github.com/jwebster45206/backchannel/pkg/chat"
	"github.com/jwebster45206/backchannel/pkg/prompts"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func newTestHandler(llm services.LLMService) *SessionHandler {
	st := store.NewMockStore()
	e := engine.New(st, testLogger(), engine.Options{LLM: llm})
	return NewSessionHandler(e, testLogger())
}

func startSession(t *testing.T, handler *SessionHandler) chat.StartResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/session/start", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200 starting session, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp chat.StartResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode start response: %v", err)
	}
	return resp
}

func TestSessionHandler_Start(t *testing.T) {
	handler := newTestHandler(&services.MockLLMService{})
	resp := startSession(t, handler)

	if resp.SessionID == "" {
		t.Error("Expected non-empty session id")
	}
	if resp.Initial != prompts.OpeningLine {
		t.Errorf("Expected scripted opening line, got %q", resp.Initial)
	}
	if resp.State.Score != 0 || resp.State.AidReleased != 0 {
		t.Errorf("Expected zeroed state, got %+v", resp.State)
	}
}

func TestSessionHandler_Interact(t *testing.T) {
	llm := &services.MockLLMService{Reply: "Nobody negotiates like me. Nobody."}
	handler := newTestHandler(llm)
	session := startSession(t, handler)

	body := `{"text": "I will investigate Biden in a great interview"}`
	req := httptest.NewRequest(http.MethodPost,
		"/api/session/"+session.SessionID+"/interact", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %s", rr.Header().Get("Content-Type"))
	}

	var resp chat.InteractResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode interact response: %v", err)
	}
	if resp.AIResponse != llm.Reply {
		t.Errorf("Expected LLM reply, got %q", resp.AIResponse)
	}
	if resp.ScoreChange != 70 {
		t.Errorf("Expected score change 70, got %d", resp.ScoreChange)
	}
	if resp.State.Score != 70 {
		t.Errorf("Expected score 70, got %d", resp.State.Score)
	}
}

func TestSessionHandler_Interact_BadRequests(t *testing.T) {
	handler := newTestHandler(&services.MockLLMService{})
	session := startSession(t, handler)

	tests := []struct {
		name string
		body string
	}{
		{"missing text", `{}`},
		{"null text", `{"text": null}`},
		{"non-string text", `{"text": 42}`},
		{"empty text", `{"text": ""}`},
		{"whitespace text", `{"text": "   "}`},
		{"malformed json", `{"text": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost,
				"/api/session/"+session.SessionID+"/interact", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d: %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestSessionHandler_Interact_UnknownSession(t *testing.T) {
	handler := newTestHandler(&services.MockLLMService{})

	req := httptest.NewRequest(http.MethodPost,
		"/api/session/no-such-id/interact", strings.NewReader(`{"text": "hello"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestSessionHandler_Conversation(t *testing.T) {
	handler := newTestHandler(&services.MockLLMService{Reply: "Believe me."})
	session := startSession(t, handler)

	req := httptest.NewRequest(http.MethodPost,
		"/api/session/"+session.SessionID+"/interact",
		strings.NewReader(`{"text": "hello mr president"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("Interact failed: %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet,
		"/api/session/"+session.SessionID+"/conversation", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp chat.ConversationResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode conversation response: %v", err)
	}
	if len(resp.Conversation) != 3 {
		t.Errorf("Expected 3 transcript entries, got %d", len(resp.Conversation))
	}
	if resp.Conversation[1].Speaker != chat.SpeakerUser {
		t.Errorf("Expected user as second speaker, got %q", resp.Conversation[1].Speaker)
	}
}

func TestSessionHandler_Conversation_UnknownSession(t *testing.T) {
	handler := newTestHandler(&services.MockLLMService{})

	req := httptest.NewRequest(http.MethodGet, "/api/session/no-such-id/conversation", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}

func TestSessionHandler_End(t *testing.T) {
	handler := newTestHandler(&services.MockLLMService{})
	session := startSession(t, handler)

	endReq := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost,
			"/api/session/"+session.SessionID+"/end", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	rr := endReq()
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp chat.EndResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode end response: %v", err)
	}
	if !resp.Success {
		t.Error("Expected success true")
	}

	// Ending again still succeeds.
	if rr := endReq(); rr.Code != http.StatusOK {
		t.Errorf("Expected idempotent end, got %d", rr.Code)
	}

	// But the session is gone.
	req := httptest.NewRequest(http.MethodGet,
		"/api/session/"+session.SessionID+"/conversation", nil)
	getRR := httptest.NewRecorder()
	handler.ServeHTTP(getRR, req)
	if getRR.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after end, got %d", getRR.Code)
	}
}

func TestSessionHandler_Routing(t *testing.T) {
	handler := newTestHandler(&services.MockLLMService{})

	tests := []struct {
		name     string
		method   string
		path     string
		expected int
	}{
		{"GET start", http.MethodGet, "/api/session/start", http.StatusMethodNotAllowed},
		{"DELETE interact", http.MethodDelete, "/api/session/abc/interact", http.StatusMethodNotAllowed},
		{"POST conversation", http.MethodPost, "/api/session/abc/conversation", http.StatusMethodNotAllowed},
		{"GET end", http.MethodGet, "/api/session/abc/end", http.StatusMethodNotAllowed},
		{"unknown action", http.MethodPost, "/api/session/abc/restart", http.StatusNotFound},
		{"bare prefix", http.MethodGet, "/api/session", http.StatusNotFound},
		{"too many segments", http.MethodGet, "/api/session/a/b/c", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expected {
				t.Errorf("Expected status %d, got %d", tt.expected, rr.Code)
			}
		})
	}
}
