package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/gatewaynetwork/bridge-relay/pkg/config"
)

// Client talks to the target-chain wallet daemon over JSON-RPC.
type Client struct {
	config     *config.WalletConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new wallet RPC client
func NewClient(cfg *config.WalletConfig, logger *zap.Logger) *Client {
	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		logger:     logger,
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      string        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params []interface{}, out interface{}) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "1.0",
		ID:      "bridge-relay",
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.RPCURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.RPCUser != "" {
		req.SetBasicAuth(c.config.RPCUser, c.config.RPCPassword)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("wallet rpc %s failed: %w", method, err)
	}
	defer resp.Body.Close()

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("failed to decode rpc response for %s: %w", method, err)
	}
	if rpcResp.Error != nil {
		return rpcResp.Error
	}

	if out != nil {
		if err := json.Unmarshal(rpcResp.Result, out); err != nil {
			return fmt.Errorf("failed to unmarshal %s result: %w", method, err)
		}
	}
	return nil
}

// ValidateAddress checks a transparent address against the wallet daemon.
func (c *Client) ValidateAddress(ctx context.Context, addr string) (*AddressValidation, error) {
	var v AddressValidation
	if err := c.call(ctx, "validateaddress", []interface{}{addr}, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// ZValidateAddress checks a shielded address against the wallet daemon.
func (c *Client) ZValidateAddress(ctx context.Context, addr string) (*AddressValidation, error) {
	var v AddressValidation
	if err := c.call(ctx, "z_validateaddress", []interface{}{addr}, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// UnlockWallet unlocks the wallet for the given number of seconds.
func (c *Client) UnlockWallet(ctx context.Context, passphrase string, seconds int64) error {
	return c.call(ctx, "walletpassphrase", []interface{}{passphrase, seconds}, nil)
}

// LockWallet re-locks the wallet.
func (c *Client) LockWallet(ctx context.Context) error {
	return c.call(ctx, "walletlock", nil, nil)
}

// SendToAddress issues a transparent payout and returns the transaction id.
func (c *Client) SendToAddress(ctx context.Context, addr string, amount decimal.Decimal) (string, error) {
	var txID string
	if err := c.call(ctx, "sendtoaddress", []interface{}{addr, json.Number(amount.String())}, &txID); err != nil {
		return "", err
	}
	return txID, nil
}

// ZSendMany submits a shielded payout operation and returns the operation id.
// The result must be collected later with ZGetOperationResult.
func (c *Client) ZSendMany(ctx context.Context, fromAddr string, recipients []Recipient) (string, error) {
	var opID string
	if err := c.call(ctx, "z_sendmany", []interface{}{fromAddr, recipients}, &opID); err != nil {
		return "", err
	}
	return opID, nil
}

// ZGetOperationResult returns results for the given operation ids. Operations
// still in flight are omitted, so the returned slice may be empty.
func (c *Client) ZGetOperationResult(ctx context.Context, opIDs []string) ([]OperationResult, error) {
	var results []OperationResult
	if err := c.call(ctx, "z_getoperationresult", []interface{}{opIDs}, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// GetTransaction fetches a wallet transaction, used to track confirmations.
func (c *Client) GetTransaction(ctx context.Context, txID string) (*WalletTransaction, error) {
	var tx WalletTransaction
	if err := c.call(ctx, "gettransaction", []interface{}{txID}, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// ShieldedRecipient builds the single-output recipient list used for
// gateway payouts.
func ShieldedRecipient(addr string, amount decimal.Decimal) []Recipient {
	return []Recipient{{Address: addr, Amount: json.Number(amount.String())}}
}
