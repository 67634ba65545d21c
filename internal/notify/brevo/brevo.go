// Package brevo sends transactional email through the Brevo (formerly
// Sendinblue) SMTP API, the provider the registration site runs on.
package brevo

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"registrar/internal/notify"
)

// DefaultBaseURL is Brevo's production API endpoint.
const DefaultBaseURL = "https://api.sendinblue.com"

const sendPath = "/v3/smtp/email"

// Client is a notify.Sender backed by the Brevo HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	sender     notify.Recipient
}

type Option func(*Client)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(apiKey string, sender notify.Recipient, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		sender:     sender,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Payload shapes mirror Brevo's smtp/email contract.
type party struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type attachment struct {
	Name    string `json:"name"`
	Content string `json:"content"` // base64
}

type sendRequest struct {
	Sender      party        `json:"sender"`
	To          []party      `json:"to"`
	Subject     string       `json:"subject"`
	HTMLContent string       `json:"htmlContent"`
	Attachment  []attachment `json:"attachment,omitempty"`
}

func (c *Client) Send(ctx context.Context, msg notify.Message) error {
	payload := sendRequest{
		Sender:      party{Name: c.sender.Name, Email: c.sender.Email},
		To:          []party{{Name: msg.To.Name, Email: msg.To.Email}},
		Subject:     msg.Subject,
		HTMLContent: msg.HTMLBody,
	}
	if msg.Attachment != nil {
		payload.Attachment = []attachment{{
			Name:    msg.Attachment.Filename,
			Content: base64.StdEncoding.EncodeToString(msg.Attachment.Content),
		}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+sendPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("brevo api returned %d: %s", resp.StatusCode, detail)
	}
	return nil
}
