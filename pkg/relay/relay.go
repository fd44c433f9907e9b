// Package relay implements the gateway's processing pipeline: block scanning
// with a persisted cursor, deposit filtering, amount conversion and payout
// settlement on the target chain, with fault records for everything that
// cannot be settled.
package relay

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/gatewaynetwork/bridge-relay/pkg/db"
	"github.com/gatewaynetwork/bridge-relay/pkg/ledger"
	"github.com/gatewaynetwork/bridge-relay/pkg/wallet"
)

// Deposit is an eligible incoming transaction addressed to the gateway,
// reconstructed per block fetch and never persisted.
type Deposit struct {
	SourceTxID string
	Sender     string
	Recipient  string
	AssetID    string
	RawAmount  int64
	Attachment string
}

// DepositFromTransaction builds a Deposit from a raw ledger transaction.
func DepositFromTransaction(tx *ledger.Transaction) *Deposit {
	return &Deposit{
		SourceTxID: tx.ID,
		Sender:     tx.Sender,
		Recipient:  tx.Recipient,
		AssetID:    tx.AssetID,
		RawAmount:  tx.Amount,
		Attachment: tx.Attachment,
	}
}

// LedgerClient is the read-only view of the source chain used by the scanner.
type LedgerClient interface {
	Height(ctx context.Context) (int64, error)
	BlockAt(ctx context.Context, height int64) (*ledger.Block, error)
}

// WalletClient is the view of the target-chain wallet used by the executor.
type WalletClient interface {
	ValidateAddress(ctx context.Context, addr string) (*wallet.AddressValidation, error)
	ZValidateAddress(ctx context.Context, addr string) (*wallet.AddressValidation, error)
	UnlockWallet(ctx context.Context, passphrase string, seconds int64) error
	LockWallet(ctx context.Context) error
	SendToAddress(ctx context.Context, addr string, amount decimal.Decimal) (string, error)
	ZSendMany(ctx context.Context, fromAddr string, recipients []wallet.Recipient) (string, error)
	ZGetOperationResult(ctx context.Context, opIDs []string) ([]wallet.OperationResult, error)
}

// CursorStore persists the scan cursor.
type CursorStore interface {
	GetCursor(ctx context.Context, chain string) (int64, error)
	SetCursor(ctx context.Context, chain string, height int64) error
}

// SettlementStore persists settlement records and answers idempotency lookups.
type SettlementStore interface {
	SettlementExists(ctx context.Context, sourceTxID string) (bool, error)
	CreateSettlement(ctx context.Context, settlement *db.Settlement) error
}

// FaultStore persists fault records.
type FaultStore interface {
	CreateErrorRecord(ctx context.Context, record *db.ErrorRecord) error
}

// Notifier receives settled transaction ids for asynchronous confirmation
// tracking. The handoff is fire-and-forget.
type Notifier interface {
	NotifySettled(txID string, shielded bool)
}

// NopNotifier discards settlement notifications.
type NopNotifier struct{}

func (NopNotifier) NotifySettled(string, bool) {}
