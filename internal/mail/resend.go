package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/voltline/inventory-backend/internal/config"
	"github.com/voltline/inventory-backend/internal/domain"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendTransport sends email through the Resend HTTP API.
type ResendTransport struct {
	apiKey  string
	from    string
	replyTo string
	client  *http.Client
}

func NewResendTransport(cfg config.MailConfig) (*ResendTransport, error) {
	if cfg.ResendAPIKey == "" {
		return nil, fmt.Errorf("resend api key must be provided")
	}

	return &ResendTransport{
		apiKey:  cfg.ResendAPIKey,
		from:    cfg.FromAddress,
		replyTo: cfg.ReplyTo,
		client:  &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type resendResponse struct {
	ID string `json:"id"`
}

func (t *ResendTransport) Send(ctx context.Context, to, subject, html string) (*SendResult, error) {
	payload, err := json.Marshal(resendRequest{
		From:    t.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
		ReplyTo: t.replyTo,
	})
	if err != nil {
		return nil, fmt.Errorf("encode resend request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build resend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransportFailure, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: resend returned %d: %s", domain.ErrTransportFailure, resp.StatusCode, string(body))
	}

	var parsed resendResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode resend response: %w", err)
	}

	return &SendResult{ProviderMessageID: parsed.ID}, nil
}
