package relay

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gatewaynetwork/bridge-relay/internal/metrics"
)

// Scanner drives the relay loop: it advances the persisted cursor one block
// per iteration, hands each transaction to the filter and executor, and rolls
// the cursor back on failure so the same block is retried.
type Scanner struct {
	chainID       string
	confirmations int64
	pollInterval  time.Duration

	ledger   LedgerClient
	cursor   CursorStore
	filter   *Filter
	executor *Executor
	logger   *zap.Logger
}

// NewScanner creates a new block scanner
func NewScanner(
	chainID string,
	confirmations int64,
	pollInterval time.Duration,
	ledgerClient LedgerClient,
	cursor CursorStore,
	filter *Filter,
	executor *Executor,
	logger *zap.Logger,
) *Scanner {
	return &Scanner{
		chainID:       chainID,
		confirmations: confirmations,
		pollInterval:  pollInterval,
		ledger:        ledgerClient,
		cursor:        cursor,
		filter:        filter,
		executor:      executor,
		logger:        logger,
	}
}

// Run loops until the context is cancelled. The initial cursor must already
// be provisioned; a missing cursor row is the only startup error.
func (s *Scanner) Run(ctx context.Context) error {
	height, err := s.cursor.GetCursor(ctx, s.chainID)
	if err != nil {
		return fmt.Errorf("failed to load scan cursor: %w", err)
	}

	s.logger.Info("Started scanning blocks",
		zap.String("chain", s.chainID),
		zap.Int64("height", height))

	for {
		height = s.iterate(ctx, height)

		if err := sleepCtx(ctx, s.pollInterval); err != nil {
			s.logger.Info("Scanner stopped", zap.Int64("height", height))
			return nil
		}
	}
}

// iterate processes at most one block and returns the new cursor height.
// Processing only one block per pass bounds iteration latency and keeps
// settlement ordering strictly by height, then by in-block transaction order.
func (s *Scanner) iterate(ctx context.Context, height int64) int64 {
	target := s.targetHeight(ctx)
	if target <= height {
		return height
	}

	height++
	if err := s.processBlock(ctx, height); err == nil {
		err = s.cursor.SetCursor(ctx, s.chainID, height)
		if err == nil {
			metrics.BlocksScanned.Inc()
			metrics.LastScannedHeight.Set(float64(height))
			return height
		}
		s.logger.Error("Failed to persist scan cursor",
			zap.Int64("height", height), zap.Error(err))
	} else {
		s.logger.Error("Something went wrong during block iteration",
			zap.Int64("height", height), zap.Error(err))
	}

	// Undo the speculative advance so the same block is retried. Block
	// processing must stay retryable: a payout may already have been sent
	// before the failure, and only the settlement-record idempotency check
	// prevents paying it again.
	metrics.ScanFailures.Inc()
	return height - 1
}

// targetHeight returns the newest height considered final. A failed height
// query is absorbed: the comparison against the cursor is skipped this
// iteration instead of propagating the error.
func (s *Scanner) targetHeight(ctx context.Context) int64 {
	current, err := s.ledger.Height(ctx)
	if err != nil {
		s.logger.Warn("Failed to fetch chain height", zap.Error(err))
		current = 0
	}
	return current - s.confirmations
}

func (s *Scanner) processBlock(ctx context.Context, height int64) error {
	block, err := s.ledger.BlockAt(ctx, height)
	if err != nil {
		return err
	}

	for i := range block.Transactions {
		tx := &block.Transactions[i]

		eligible, err := s.filter.Eligible(ctx, tx)
		if err != nil {
			return err
		}
		if !eligible {
			continue
		}

		metrics.DepositsDetected.Inc()
		if err := s.executor.Settle(ctx, DepositFromTransaction(tx)); err != nil {
			return err
		}
	}
	return nil
}
