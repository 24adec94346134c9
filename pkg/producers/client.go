// Package producers provides a client for the external event producer
// registry, used to vet house creators and their event references.
package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Config holds registry client configuration.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client queries the producer registry over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new producer registry client.
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("registry base URL required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With().Str("component", "producer_registry").Logger(),
	}, nil
}

type producerStatus struct {
	Wallet   string `json:"wallet"`
	Verified bool   `json:"verified"`
}

type eventOwnership struct {
	EventRef string `json:"event_ref"`
	Owner    string `json:"owner"`
}

// IsVerifiedProducer reports whether the wallet belongs to a verified
// event producer.
func (c *Client) IsVerifiedProducer(ctx context.Context, wallet string) (bool, error) {
	var status producerStatus
	path := fmt.Sprintf("/v1/producers/%s", url.PathEscape(wallet))
	if err := c.get(ctx, path, &status); err != nil {
		return false, err
	}
	return status.Verified, nil
}

// EventBelongsToProducer reports whether the event reference is owned by
// the producer wallet.
func (c *Client) EventBelongsToProducer(ctx context.Context, eventRef, wallet string) (bool, error) {
	var ownership eventOwnership
	path := fmt.Sprintf("/v1/events/%s", url.PathEscape(eventRef))
	if err := c.get(ctx, path, &ownership); err != nil {
		return false, err
	}
	return ownership.Owner == wallet, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		// Unknown wallets and events are simply unverified.
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("registry returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
