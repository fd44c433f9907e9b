package wallet

import "fmt"

// AddressValidation is the result of validateaddress / z_validateaddress.
type AddressValidation struct {
	IsValid bool   `json:"isvalid"`
	Address string `json:"address"`
}

// Recipient is a single z_sendmany output.
type Recipient struct {
	Address string      `json:"address"`
	Amount  interface{} `json:"amount"`
}

// OperationTx carries the transaction id of a finished shielded operation.
type OperationTx struct {
	TxID string `json:"txid"`
}

// OperationResult is one entry of a z_getoperationresult response. Result and
// Error are mutually exclusive.
type OperationResult struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Result *OperationTx `json:"result,omitempty"`
	Error  *RPCError    `json:"error,omitempty"`
}

// WalletTransaction is the subset of gettransaction used by the
// confirmation watcher.
type WalletTransaction struct {
	TxID          string `json:"txid"`
	Confirmations int64  `json:"confirmations"`
}

// RPCError is a JSON-RPC error object returned by the wallet daemon.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("wallet rpc error %d: %s", e.Code, e.Message)
}
