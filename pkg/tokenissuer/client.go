// Package tokenissuer provides a JSON-RPC client for the reward token
// contract used to mint experience tokens to member wallets.
package tokenissuer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// RPCRequest is a JSON-RPC request envelope.
type RPCRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

// RPCResponse is a JSON-RPC response envelope.
type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is a JSON-RPC error.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Config holds client configuration.
type Config struct {
	RPCURL       string
	ContractHash string
	SignerWallet string
	Timeout      time.Duration
}

// Client talks to the token node over JSON-RPC.
type Client struct {
	rpcURL       string
	contractHash string
	signerWallet string
	httpClient   *http.Client
	logger       zerolog.Logger
}

// NewClient creates a new token issuer client.
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("RPC URL required")
	}
	if cfg.ContractHash == "" {
		return nil, fmt.Errorf("contract hash required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		rpcURL:       cfg.RPCURL,
		contractHash: cfg.ContractHash,
		signerWallet: cfg.SignerWallet,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With().Str("component", "token_issuer").Logger(),
	}, nil
}

// Call makes a raw RPC call to the token node.
func (c *Client) Call(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	if params == nil {
		params = []interface{}{}
	}

	req := RPCRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var rpcResp RPCResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}

	return rpcResp.Result, nil
}

type mintResult struct {
	TxHash string `json:"txhash"`
}

// MintTo mints amount tokens to the recipient wallet and returns the
// transaction hash of the mint invocation.
func (c *Client) MintTo(ctx context.Context, recipient string, amount int64) (string, error) {
	if recipient == "" {
		return "", fmt.Errorf("recipient wallet required")
	}
	if amount <= 0 {
		return "", fmt.Errorf("amount must be positive")
	}

	params := []interface{}{
		c.contractHash,
		"mint",
		[]interface{}{
			map[string]interface{}{"type": "Hash160", "value": recipient},
			map[string]interface{}{"type": "Integer", "value": amount},
		},
		[]interface{}{
			map[string]interface{}{"account": c.signerWallet, "scopes": "CalledByEntry"},
		},
	}

	result, err := c.Call(ctx, "invokecontract", params)
	if err != nil {
		return "", fmt.Errorf("mint invocation: %w", err)
	}

	var mint mintResult
	if err := json.Unmarshal(result, &mint); err != nil {
		return "", fmt.Errorf("decode mint result: %w", err)
	}
	if mint.TxHash == "" {
		return "", fmt.Errorf("mint result missing tx hash")
	}

	c.logger.Debug().
		Str("recipient", recipient).
		Int64("amount", amount).
		Str("tx_hash", mint.TxHash).
		Msg("minted reward tokens")

	return mint.TxHash, nil
}
