package ledger

// TransferTxType is the source-chain type code for asset transfer transactions.
const TransferTxType = 4

// Transaction is a single transaction as returned by the node's block API.
// Amount is in chain-native units (10^decimals per whole token).
type Transaction struct {
	Type       int    `json:"type"`
	ID         string `json:"id"`
	Sender     string `json:"sender"`
	Recipient  string `json:"recipient"`
	AssetID    string `json:"assetId"`
	Amount     int64  `json:"amount"`
	Attachment string `json:"attachment"`
}

// Block is a source-chain block with its transactions in chain order.
type Block struct {
	Height       int64         `json:"height"`
	Timestamp    int64         `json:"timestamp"`
	Transactions []Transaction `json:"transactions"`
}

type heightResponse struct {
	Height int64 `json:"height"`
}
