package relay

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/gatewaynetwork/bridge-relay/internal/metrics"
	"github.com/gatewaynetwork/bridge-relay/pkg/db"
)

// FaultKind classifies why a deposit could not be settled.
type FaultKind string

const (
	// FaultNoAttachment marks a deposit without a destination address.
	FaultNoAttachment FaultKind = "no_attachment"
	// FaultTxError marks a destination address that failed both the
	// transparent and the shielded validation check.
	FaultTxError FaultKind = "tx_error"
	// FaultSendError marks a payout dispatch failure or a computed amount
	// at or below zero.
	FaultSendError FaultKind = "send_error"
	// FaultSettlementTimedOut marks a shielded operation whose result did
	// not arrive within the configured poll budget.
	FaultSettlementTimedOut FaultKind = "settlement_timed_out"
)

// FaultHandler records classified faults as error records. It never swallows
// storage failures; those propagate to the scanner's rollback path.
type FaultHandler struct {
	store    FaultStore
	decimals int32
	logger   *zap.Logger
}

// NewFaultHandler creates a new fault handler
func NewFaultHandler(store FaultStore, decimals int32, logger *zap.Logger) *FaultHandler {
	return &FaultHandler{
		store:    store,
		decimals: decimals,
		logger:   logger,
	}
}

// Record writes one error record for the deposit and emits an operator-facing
// log line. targetAddress may be empty when no address could be decoded.
func (f *FaultHandler) Record(ctx context.Context, deposit *Deposit, targetAddress string, kind FaultKind, detail string) error {
	amount := decimal.New(deposit.RawAmount, 0).Shift(-f.decimals)

	record := &db.ErrorRecord{
		SourceAddress:   deposit.Sender,
		TargetAddress:   targetAddress,
		SourceTxID:      deposit.SourceTxID,
		Amount:          amount.String(),
		ErrorKind:       string(kind),
		ExceptionDetail: detail,
	}
	if err := f.store.CreateErrorRecord(ctx, record); err != nil {
		return err
	}

	metrics.FaultsTotal.WithLabelValues(string(kind)).Inc()

	f.logger.Warn("Deposit could not be settled, check errors table",
		zap.String("kind", string(kind)),
		zap.String("source_tx_id", deposit.SourceTxID),
		zap.String("sender", deposit.Sender),
		zap.String("amount", amount.String()),
		zap.String("detail", detail))

	return nil
}
