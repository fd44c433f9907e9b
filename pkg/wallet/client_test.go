package wallet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gatewaynetwork/bridge-relay/pkg/config"
)

type rpcCall struct {
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

// rpcServer answers every request from the responses map, keyed by method,
// and records the calls it saw.
func rpcServer(t *testing.T, responses map[string]string, calls *[]rpcCall) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var call rpcCall
		require.NoError(t, json.NewDecoder(r.Body).Decode(&call))
		if calls != nil {
			*calls = append(*calls, call)
		}

		resp, ok := responses[call.Method]
		if !ok {
			t.Fatalf("unexpected rpc method %q", call.Method)
		}
		w.Write([]byte(resp))
	}))
}

func testClient(cfg config.WalletConfig) *Client {
	cfg.RequestTimeout = 5 * time.Second
	return NewClient(&cfg, zap.NewNop())
}

func TestClient_ValidateAddress(t *testing.T) {
	var calls []rpcCall
	server := rpcServer(t, map[string]string{
		"validateaddress": `{"result": {"isvalid": true, "address": "t1abc"}, "error": null}`,
	}, &calls)
	defer server.Close()

	client := testClient(config.WalletConfig{RPCURL: server.URL})
	v, err := client.ValidateAddress(context.Background(), "t1abc")
	require.NoError(t, err)
	assert.True(t, v.IsValid)
	assert.Equal(t, "t1abc", v.Address)

	require.Len(t, calls, 1)
	assert.Equal(t, []interface{}{"t1abc"}, calls[0].Params)
}

func TestClient_BasicAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rpcuser", user)
		assert.Equal(t, "rpcpass", pass)
		w.Write([]byte(`{"result": {"isvalid": false}, "error": null}`))
	}))
	defer server.Close()

	client := testClient(config.WalletConfig{
		RPCURL:      server.URL,
		RPCUser:     "rpcuser",
		RPCPassword: "rpcpass",
	})
	_, err := client.ZValidateAddress(context.Background(), "zs1abc")
	require.NoError(t, err)
}

func TestClient_SendToAddress(t *testing.T) {
	var calls []rpcCall
	server := rpcServer(t, map[string]string{
		"sendtoaddress": `{"result": "txid-123", "error": null}`,
	}, &calls)
	defer server.Close()

	client := testClient(config.WalletConfig{RPCURL: server.URL})
	txID, err := client.SendToAddress(context.Background(), "t1abc", decimal.RequireFromString("1.5"))
	require.NoError(t, err)
	assert.Equal(t, "txid-123", txID)

	require.Len(t, calls, 1)
	// The amount must travel as a JSON number, never a string.
	assert.Equal(t, []interface{}{"t1abc", 1.5}, calls[0].Params)
}

func TestClient_RPCError(t *testing.T) {
	server := rpcServer(t, map[string]string{
		"sendtoaddress": `{"result": null, "error": {"code": -6, "message": "Insufficient funds"}}`,
	}, nil)
	defer server.Close()

	client := testClient(config.WalletConfig{RPCURL: server.URL})
	_, err := client.SendToAddress(context.Background(), "t1abc", decimal.NewFromInt(1))
	require.Error(t, err)

	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -6, rpcErr.Code)
	assert.Equal(t, "Insufficient funds", rpcErr.Message)
}

func TestClient_ZSendManyAndOperationResult(t *testing.T) {
	var calls []rpcCall
	server := rpcServer(t, map[string]string{
		"z_sendmany": `{"result": "opid-0001", "error": null}`,
		"z_getoperationresult": `{"result": [{
			"id": "opid-0001",
			"status": "success",
			"result": {"txid": "txid-shielded"}
		}], "error": null}`,
	}, &calls)
	defer server.Close()

	client := testClient(config.WalletConfig{RPCURL: server.URL})

	opID, err := client.ZSendMany(context.Background(), "zs1from",
		ShieldedRecipient("zs1dest", decimal.RequireFromString("0.9")))
	require.NoError(t, err)
	assert.Equal(t, "opid-0001", opID)

	results, err := client.ZGetOperationResult(context.Background(), []string{opID})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "success", results[0].Status)
	require.NotNil(t, results[0].Result)
	assert.Equal(t, "txid-shielded", results[0].Result.TxID)

	require.Len(t, calls, 2)
	recipients, ok := calls[0].Params[1].([]interface{})
	require.True(t, ok)
	require.Len(t, recipients, 1)
	recipient, ok := recipients[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "zs1dest", recipient["address"])
	assert.Equal(t, 0.9, recipient["amount"])
}

func TestClient_OperationResultPending(t *testing.T) {
	server := rpcServer(t, map[string]string{
		"z_getoperationresult": `{"result": [], "error": null}`,
	}, nil)
	defer server.Close()

	client := testClient(config.WalletConfig{RPCURL: server.URL})
	results, err := client.ZGetOperationResult(context.Background(), []string{"opid-0001"})
	require.NoError(t, err)
	assert.Empty(t, results, "in-flight operations are omitted from the result set")
}

func TestClient_WalletLockCycle(t *testing.T) {
	var calls []rpcCall
	server := rpcServer(t, map[string]string{
		"walletpassphrase": `{"result": null, "error": null}`,
		"walletlock":       `{"result": null, "error": null}`,
	}, &calls)
	defer server.Close()

	client := testClient(config.WalletConfig{RPCURL: server.URL})
	require.NoError(t, client.UnlockWallet(context.Background(), "hunter2", 30))
	require.NoError(t, client.LockWallet(context.Background()))

	require.Len(t, calls, 2)
	assert.Equal(t, []interface{}{"hunter2", float64(30)}, calls[0].Params)
	assert.Empty(t, calls[1].Params)
}

func TestClient_GetTransaction(t *testing.T) {
	server := rpcServer(t, map[string]string{
		"gettransaction": `{"result": {"txid": "txid-123", "confirmations": 7}, "error": null}`,
	}, nil)
	defer server.Close()

	client := testClient(config.WalletConfig{RPCURL: server.URL})
	tx, err := client.GetTransaction(context.Background(), "txid-123")
	require.NoError(t, err)
	assert.Equal(t, "txid-123", tx.TxID)
	assert.Equal(t, int64(7), tx.Confirmations)
}
