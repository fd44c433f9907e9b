package relay

import (
	"context"

	"go.uber.org/zap"

	"github.com/gatewaynetwork/bridge-relay/pkg/ledger"
)

// Filter decides whether a source-chain transaction is an eligible,
// not-yet-processed gateway deposit.
type Filter struct {
	gatewayAddress string
	assetID        string
	settlements    SettlementStore
	faults         *FaultHandler
	logger         *zap.Logger
}

// NewFilter creates a new deposit filter
func NewFilter(gatewayAddress, assetID string, settlements SettlementStore, faults *FaultHandler, logger *zap.Logger) *Filter {
	return &Filter{
		gatewayAddress: gatewayAddress,
		assetID:        assetID,
		settlements:    settlements,
		faults:         faults,
		logger:         logger,
	}
}

// Eligible reports whether the transaction should be settled. A deposit whose
// attachment decodes to an empty address is recorded as a fault and dropped;
// an already-settled deposit is dropped silently.
func (f *Filter) Eligible(ctx context.Context, tx *ledger.Transaction) (bool, error) {
	if tx.Type != ledger.TransferTxType ||
		tx.Recipient != f.gatewayAddress ||
		tx.AssetID != f.assetID {
		return false, nil
	}

	targetAddress, err := ledger.DecodeAttachment(tx.Attachment)
	if err != nil {
		return false, err
	}
	if targetAddress == "" {
		if err := f.faults.Record(ctx, DepositFromTransaction(tx), "", FaultNoAttachment, "no attachment found on transaction"); err != nil {
			return false, err
		}
		return false, nil
	}

	exists, err := f.settlements.SettlementExists(ctx, tx.ID)
	if err != nil {
		return false, err
	}
	if exists {
		f.logger.Debug("Deposit already settled, skipping",
			zap.String("source_tx_id", tx.ID))
		return false, nil
	}

	return true, nil
}
