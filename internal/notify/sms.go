// Package notify holds thin clients for outbound notification providers.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultSMSEndpoint = "https://textbelt.com/text"

// SMSClient sends text messages through the textbelt HTTP API.
type SMSClient struct {
	endpoint string
	key      string
	httpc    *http.Client
}

// NewSMSClient builds a client. An empty key uses the provider's free tier.
func NewSMSClient(key string) *SMSClient {
	if key == "" {
		key = "textbelt"
	}
	return &SMSClient{
		endpoint: defaultSMSEndpoint,
		key:      key,
		httpc:    &http.Client{Timeout: 10 * time.Second},
	}
}

type smsRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
	Key     string `json:"key"`
}

type smsResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Send delivers one message and reports whether the provider accepted it.
func (c *SMSClient) Send(ctx context.Context, phone, message string) (bool, error) {
	body, err := json.Marshal(smsRequest{Phone: phone, Message: message, Key: c.key})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return false, fmt.Errorf("notify: send sms: %w", err)
	}
	defer resp.Body.Close()

	var out smsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("notify: decode sms response: %w", err)
	}
	return out.Success, nil
}
