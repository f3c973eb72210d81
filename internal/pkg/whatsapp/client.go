package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Joelferreira98/SisFin/internal/pkg/env"
)

const (
	sendTextPath       = "/message/sendText/%s"
	defaultHTTPTimeout = 30 * time.Second
)

// ErrNotConfigured signals a missing gateway base URL. The channel stays
// unavailable until the configuration is fixed; callers surface this as a
// failed dispatch, never as a crash.
var ErrNotConfigured = errors.New("whatsapp gateway not configured")

// Client talks to an Evolution-style WhatsApp gateway. Each SisFin user owns
// a named instance on the gateway plus an instance API key.
type Client struct {
	baseURL string
	http    *http.Client
}

type sendTextRequest struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

type sendTextResponse struct {
	Key struct {
		ID string `json:"id"`
	} `json:"key"`
	Status string `json:"status"`
}

// NewClientFromEnv builds a client from WHATSAPP_API_URL. Returns
// ErrNotConfigured when the base URL is absent.
func NewClientFromEnv() (*Client, error) {
	baseURL := env.GetEnv("WHATSAPP_API_URL", "")
	if baseURL == "" {
		return nil, ErrNotConfigured
	}

	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
	}, nil
}

// SendText delivers a plain text message to a phone number through the given
// gateway instance.
func (c *Client) SendText(ctx context.Context, instance, apiKey, phone, message string) error {
	if instance == "" || apiKey == "" {
		return ErrNotConfigured
	}

	payload := sendTextRequest{
		Number: phone,
		Text:   message,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return err
	}

	url := c.baseURL + fmt.Sprintf(sendTextPath, instance)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("whatsapp sendText status %d", resp.StatusCode)
	}

	var out sendTextResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}
	return nil
}
