package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"meetup-api/core/logger"
)

// Sender delivers a push message to a single device token.
// Delivery is best-effort: callers treat failures as log-and-continue.
type Sender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// NoopSender is used when push delivery is disabled.
type NoopSender struct{}

func (NoopSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	return nil
}

// ExpoSender sends notifications through the Expo push API.
type ExpoSender struct {
	url    string
	client *http.Client
}

var _ Sender = (*ExpoSender)(nil)

func NewExpoSender(url string) *ExpoSender {
	return &ExpoSender{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type expoMessage struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
	Sound string            `json:"sound"`
}

func (s *ExpoSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := expoMessage{
		To:    token,
		Title: title,
		Body:  body,
		Data:  data,
		Sound: "default",
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("push: marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("push: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("push: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		logger.Error("ExpoSender:Send:BadStatus", "status", resp.StatusCode, "body", string(respBody))
		return fmt.Errorf("push: expo returned status %d", resp.StatusCode)
	}

	return nil
}
