// Package watch tracks settled payouts until they reach finality on the
// target chain.
package watch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gatewaynetwork/bridge-relay/internal/metrics"
	"github.com/gatewaynetwork/bridge-relay/pkg/wallet"
)

// TransactionReader is the wallet view needed to track confirmations.
type TransactionReader interface {
	GetTransaction(ctx context.Context, txID string) (*wallet.WalletTransaction, error)
}

type pending struct {
	txID     string
	shielded bool
}

// Watcher polls the wallet for confirmations of settled payouts. Handoffs via
// NotifySettled are fire-and-forget; a full queue drops the notification and
// the payout is simply not tracked.
type Watcher struct {
	wallet        TransactionReader
	confirmations int64
	pollInterval  time.Duration
	logger        *zap.Logger

	queue  chan pending
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewWatcher creates a new confirmation watcher
func NewWatcher(walletClient TransactionReader, confirmations int64, pollInterval time.Duration, queueSize int, logger *zap.Logger) *Watcher {
	return &Watcher{
		wallet:        walletClient,
		confirmations: confirmations,
		pollInterval:  pollInterval,
		logger:        logger,
		queue:         make(chan pending, queueSize),
		stopCh:        make(chan struct{}),
	}
}

// NotifySettled implements relay.Notifier.
func (w *Watcher) NotifySettled(txID string, shielded bool) {
	select {
	case w.queue <- pending{txID: txID, shielded: shielded}:
	default:
		w.logger.Warn("Confirmation queue full, dropping settlement",
			zap.String("tx_id", txID))
	}
}

// Start starts the watcher loop
func (w *Watcher) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.run(ctx)
}

// Stop stops the watcher and waits for the loop to drain
func (w *Watcher) Stop() {
	close(w.stopCh)
	w.wg.Wait()
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	var tracked []pending
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case p := <-w.queue:
			tracked = append(tracked, p)
		case <-ticker.C:
			tracked = w.poll(ctx, tracked)
		}
	}
}

// poll checks every tracked payout once and returns those still unconfirmed.
func (w *Watcher) poll(ctx context.Context, tracked []pending) []pending {
	remaining := tracked[:0]
	for _, p := range tracked {
		tx, err := w.wallet.GetTransaction(ctx, p.txID)
		if err != nil {
			w.logger.Warn("Failed to fetch settlement transaction",
				zap.String("tx_id", p.txID), zap.Error(err))
			remaining = append(remaining, p)
			continue
		}

		if tx.Confirmations < w.confirmations {
			remaining = append(remaining, p)
			continue
		}

		path := "transparent"
		if p.shielded {
			path = "shielded"
		}
		metrics.ConfirmedSettlements.WithLabelValues(path).Inc()
		w.logger.Info("Settlement confirmed",
			zap.String("tx_id", p.txID),
			zap.Int64("confirmations", tx.Confirmations),
			zap.Bool("shielded", p.shielded))
	}
	return remaining
}
