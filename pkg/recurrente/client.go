package recurrente

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// BaseURL is the Recurrente API base URL.
	BaseURL = "https://app.recurrente.com/api"
)

// ErrNoCheckoutURL is returned when the API answers without a checkout_url.
var ErrNoCheckoutURL = errors.New("recurrente response has no checkout_url")

// Client is a minimal HTTP client for the Recurrente payments API.
// Authentication is key-pair based via the X-PUBLIC-KEY/X-SECRET-KEY headers.
type Client struct {
	httpClient *http.Client
	publicKey  string
	secretKey  string
	debug      bool
}

// NewClient constructs a new Recurrente client with sane defaults.
func NewClient(publicKey, secretKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		publicKey:  publicKey,
		secretKey:  secretKey,
		debug:      os.Getenv("ENV") == "development",
	}
}

// CreateCheckout creates a hosted checkout session and returns its redirect
// URL.
func (c *Client) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	var resp CheckoutResponse
	if err := c.doRequest(ctx, "/checkouts/", req, &resp); err != nil {
		return nil, err
	}
	if resp.CheckoutURL == "" {
		return nil, ErrNoCheckoutURL
	}
	return &resp, nil
}

// doRequest performs the HTTP POST to the Recurrente API with JSON payloads
// and decodes the JSON response into result.
func (c *Client) doRequest(ctx context.Context, endpoint string, body any, result any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", BaseURL+endpoint).
			RawJSON("request", payload).
			Msg("[RECURRENTE] Outgoing request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, BaseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-PUBLIC-KEY", c.publicKey)
	req.Header.Set("X-SECRET-KEY", c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			RawJSON("response", respBody).
			Msg("[RECURRENTE] Incoming response")
	}

	// Errors come back as JSON with a message field; decode regardless of
	// status code so the caller sees whatever the API reported.
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
