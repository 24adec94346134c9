// Package avatars resolves controlling wallets to the avatar references
// shown in house member lists.
package avatars

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

// Config holds directory client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client queries the avatar directory over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new avatar directory client.
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("directory base URL required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With().Str("component", "avatar_directory").Logger(),
	}, nil
}

type avatarRecord struct {
	Wallet    string `json:"wallet"`
	AvatarRef string `json:"avatar_ref"`
}

// Resolve returns the avatar reference controlled by the wallet. A wallet
// with no registered avatar resolves to an empty reference without error.
func (c *Client) Resolve(ctx context.Context, wallet string) (string, error) {
	endpoint := fmt.Sprintf("%s/v1/avatars/%s", c.baseURL, url.PathEscape(wallet))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("directory returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var record avatarRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	return record.AvatarRef, nil
}
