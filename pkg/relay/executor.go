package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/gatewaynetwork/bridge-relay/internal/metrics"
	"github.com/gatewaynetwork/bridge-relay/pkg/db"
	"github.com/gatewaynetwork/bridge-relay/pkg/ledger"
	"github.com/gatewaynetwork/bridge-relay/pkg/wallet"
)

// ExecutorConfig carries the settlement parameters for the executor.
type ExecutorConfig struct {
	// FromAddress is the gateway's own target-chain address, the source of
	// shielded payouts.
	FromAddress string
	// Fee is deducted from every payout, in whole target-chain tokens.
	Fee decimal.Decimal
	// SourceDecimals converts raw deposit amounts to whole tokens.
	SourceDecimals int32
	// Passphrase unlocks the wallet before sending; empty disables the
	// unlock/lock discipline.
	Passphrase    string
	UnlockSeconds int64
	// PollInterval and PollAttempts bound the shielded operation result
	// poll. Exhausting the budget records a SettlementTimedOut fault.
	PollInterval time.Duration
	PollAttempts int
}

// Executor converts validated deposits into target-chain payouts.
type Executor struct {
	cfg         ExecutorConfig
	wallet      WalletClient
	settlements SettlementStore
	faults      *FaultHandler
	notifier    Notifier
	logger      *zap.Logger
}

// NewExecutor creates a new settlement executor
func NewExecutor(
	cfg ExecutorConfig,
	walletClient WalletClient,
	settlements SettlementStore,
	faults *FaultHandler,
	notifier Notifier,
	logger *zap.Logger,
) *Executor {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Executor{
		cfg:         cfg,
		wallet:      walletClient,
		settlements: settlements,
		faults:      faults,
		notifier:    notifier,
		logger:      logger,
	}
}

// Settle pays out one deposit on the target chain. Faults terminal to this
// deposit are recorded and return nil so the rest of the block proceeds;
// returned errors abort the block and trigger the scanner's cursor rollback.
func (e *Executor) Settle(ctx context.Context, deposit *Deposit) error {
	targetAddress, err := ledger.DecodeAttachment(deposit.Attachment)
	if err != nil {
		return err
	}

	valid, err := e.wallet.ValidateAddress(ctx, targetAddress)
	if err != nil {
		return fmt.Errorf("address validation failed: %w", err)
	}
	zValid, err := e.wallet.ZValidateAddress(ctx, targetAddress)
	if err != nil {
		return fmt.Errorf("shielded address validation failed: %w", err)
	}
	if !valid.IsValid && !zValid.IsValid {
		return e.faults.Record(ctx, deposit, targetAddress, FaultTxError, "possible incorrect address")
	}

	amount := decimal.New(deposit.RawAmount, 0).Shift(-e.cfg.SourceDecimals).Sub(e.cfg.Fee)
	if amount.LessThanOrEqual(decimal.Zero) {
		return e.faults.Record(ctx, deposit, targetAddress, FaultSendError, "under minimum amount")
	}

	if e.cfg.Passphrase != "" {
		if err := e.wallet.UnlockWallet(ctx, e.cfg.Passphrase, e.cfg.UnlockSeconds); err != nil {
			return e.faults.Record(ctx, deposit, targetAddress, FaultSendError,
				fmt.Sprintf("wallet unlock failed: %v", err))
		}
		defer func() {
			if err := e.wallet.LockWallet(context.WithoutCancel(ctx)); err != nil {
				e.logger.Error("Failed to re-lock wallet", zap.Error(err))
			}
		}()
	}

	var (
		txID     string
		shielded bool
	)
	if valid.IsValid {
		txID, err = e.wallet.SendToAddress(ctx, targetAddress, amount)
		if err != nil {
			return e.faults.Record(ctx, deposit, targetAddress, FaultSendError, err.Error())
		}
	} else {
		txID, err = e.settleShielded(ctx, deposit, targetAddress, amount)
		if err != nil || txID == "" {
			return err
		}
		shielded = true
	}

	settlement := &db.Settlement{
		SourceAddress: deposit.Sender,
		TargetAddress: targetAddress,
		SourceTxID:    deposit.SourceTxID,
		TargetTxID:    txID,
		Amount:        amount.String(),
		Fee:           e.cfg.Fee.String(),
		Shielded:      shielded,
	}
	if err := e.settlements.CreateSettlement(ctx, settlement); err != nil {
		return fmt.Errorf("payout sent but settlement record failed: %w", err)
	}

	path := "transparent"
	if shielded {
		path = "shielded"
	}
	metrics.SettlementsTotal.WithLabelValues(path).Inc()
	amountF, _ := amount.Float64()
	metrics.SettlementAmount.Observe(amountF)

	e.logger.Info("Deposit settled",
		zap.String("source_tx_id", deposit.SourceTxID),
		zap.String("target_tx_id", txID),
		zap.String("target_address", targetAddress),
		zap.String("amount", amount.String()),
		zap.Bool("shielded", shielded))

	e.notifier.NotifySettled(txID, shielded)
	return nil
}

// settleShielded submits a z_sendmany operation and polls for its result at
// the configured interval. An empty txID with a nil error means a fault was
// recorded and the deposit is terminal.
func (e *Executor) settleShielded(ctx context.Context, deposit *Deposit, targetAddress string, amount decimal.Decimal) (string, error) {
	opID, err := e.wallet.ZSendMany(ctx, e.cfg.FromAddress, wallet.ShieldedRecipient(targetAddress, amount))
	if err != nil {
		return "", e.faults.Record(ctx, deposit, targetAddress, FaultSendError, err.Error())
	}

	var result *wallet.OperationResult
	for attempt := 1; ; attempt++ {
		if err := sleepCtx(ctx, e.cfg.PollInterval); err != nil {
			return "", err
		}

		results, err := e.wallet.ZGetOperationResult(ctx, []string{opID})
		if err != nil {
			return "", e.faults.Record(ctx, deposit, targetAddress, FaultSendError, err.Error())
		}
		if len(results) > 0 {
			metrics.ShieldedPollAttempts.Observe(float64(attempt))
			result = &results[0]
			break
		}
		if e.cfg.PollAttempts > 0 && attempt >= e.cfg.PollAttempts {
			return "", e.faults.Record(ctx, deposit, targetAddress, FaultSettlementTimedOut,
				fmt.Sprintf("no result for operation %s after %d polls", opID, attempt))
		}
	}

	if result.Error != nil {
		return "", e.faults.Record(ctx, deposit, targetAddress, FaultSendError, result.Error.Message)
	}
	if result.Result == nil || result.Result.TxID == "" {
		return "", e.faults.Record(ctx, deposit, targetAddress, FaultSendError,
			fmt.Sprintf("operation %s finished without a transaction id", opID))
	}
	return result.Result.TxID, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
