package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jwebster45206/backchannel/pkg/chat"
)

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusServiceUnavailable
}

func startSession(client *http.Client, baseURL string) (*chat.StartResponse, error) {
	resp, err := client.Post(baseURL+"/api/session/start", "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body, "failed to start session")
	}

	var startResp chat.StartResponse
	if err := json.Unmarshal(body, &startResp); err != nil {
		return nil, fmt.Errorf("failed to parse start response: %w", err)
	}
	return &startResp, nil
}

func sendInteraction(client *http.Client, baseURL, sessionID, text string) (*chat.InteractResponse, error) {
	req := chat.InteractRequest{Text: &text}
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		fmt.Sprintf("%s/api/session/%s/interact", baseURL, sessionID),
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body, "interaction failed")
	}

	var interactResp chat.InteractResponse
	if err := json.Unmarshal(body, &interactResp); err != nil {
		return nil, fmt.Errorf("failed to parse interact response: %w", err)
	}
	return &interactResp, nil
}

func getConversation(client *http.Client, baseURL, sessionID string) (*chat.ConversationResponse, error) {
	resp, err := client.Get(fmt.Sprintf("%s/api/session/%s/conversation", baseURL, sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body, "failed to get conversation")
	}

	var convResp chat.ConversationResponse
	if err := json.Unmarshal(body, &convResp); err != nil {
		return nil, fmt.Errorf("failed to parse conversation response: %w", err)
	}
	return &convResp, nil
}

func endSession(client *http.Client, baseURL, sessionID string) error {
	resp, err := client.Post(
		fmt.Sprintf("%s/api/session/%s/end", baseURL, sessionID),
		"application/json", nil)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return apiError(resp.StatusCode, body, "failed to end session")
	}
	return nil
}

func apiError(statusCode int, body []byte, context string) error {
	var errorResp ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err != nil || errorResp.Error == "" {
		return fmt.Errorf("API returned status %d: %s", statusCode, string(body))
	}
	return fmt.Errorf("%s: %s", context, errorResp.Error)
}
