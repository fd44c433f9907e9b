package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/gatewaynetwork/bridge-relay/pkg/config"
)

// Client is a read-only accessor to the source chain's node REST API.
type Client struct {
	config     *config.LedgerConfig
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewClient creates a new ledger client
func NewClient(cfg *config.LedgerConfig, logger *zap.Logger) *Client {
	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    strings.TrimRight(cfg.NodeURL, "/"),
		logger:     logger,
	}
}

// Height returns the current chain height.
func (c *Client) Height(ctx context.Context) (int64, error) {
	var resp heightResponse
	if err := c.get(ctx, "/blocks/height", &resp); err != nil {
		return 0, fmt.Errorf("failed to fetch chain height: %w", err)
	}
	return resp.Height, nil
}

// BlockAt returns the block at the given height, transactions in chain order.
func (c *Client) BlockAt(ctx context.Context, height int64) (*Block, error) {
	var block Block
	if err := c.get(ctx, fmt.Sprintf("/blocks/at/%d", height), &block); err != nil {
		return nil, fmt.Errorf("failed to fetch block at height %d: %w", height, err)
	}
	return &block, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("node returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode node response: %w", err)
	}
	return nil
}
