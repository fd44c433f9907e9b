package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/gatewaynetwork/bridge-relay/pkg/config"
	"github.com/gatewaynetwork/bridge-relay/pkg/db"
	"github.com/gatewaynetwork/bridge-relay/pkg/ledger"
	"github.com/gatewaynetwork/bridge-relay/pkg/pgutil"
	"github.com/gatewaynetwork/bridge-relay/pkg/relay"
	"github.com/gatewaynetwork/bridge-relay/pkg/wallet"
	"github.com/gatewaynetwork/bridge-relay/pkg/watch"
)

var (
	configPath = flag.String("config", "config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting gateway bridge relayer")

	// Initialize database
	bunDB, err := pgutil.ConnectDB(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	store := db.NewStore(bunDB)
	defer store.Close()
	logger.Info("Database connection established")

	// Initialize chain clients
	ledgerClient := ledger.NewClient(&cfg.Ledger, logger)
	walletClient := wallet.NewClient(&cfg.Wallet, logger)

	fee, err := decimal.NewFromString(cfg.Wallet.Fee)
	if err != nil {
		logger.Fatal("Invalid wallet fee", zap.String("fee", cfg.Wallet.Fee), zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Confirmation watcher receives settled tx ids from the executor
	var notifier relay.Notifier = relay.NopNotifier{}
	var watcher *watch.Watcher
	if cfg.Watcher.Enabled {
		watcher = watch.NewWatcher(walletClient, cfg.Watcher.Confirmations,
			cfg.Watcher.PollInterval, cfg.Watcher.QueueSize, logger)
		watcher.Start(ctx)
		defer watcher.Stop()
		notifier = watcher
	}

	// Wire the relay pipeline
	faults := relay.NewFaultHandler(store, cfg.Ledger.Decimals, logger)
	filter := relay.NewFilter(cfg.Ledger.GatewayAddress, cfg.Ledger.AssetID, store, faults, logger)
	executor := relay.NewExecutor(relay.ExecutorConfig{
		FromAddress:    cfg.Wallet.GatewayAddress,
		Fee:            fee,
		SourceDecimals: cfg.Ledger.Decimals,
		Passphrase:     cfg.Wallet.WalletPassphrase(),
		UnlockSeconds:  cfg.Wallet.UnlockSeconds,
		PollInterval:   cfg.Wallet.OpPollInterval,
		PollAttempts:   cfg.Wallet.OpPollAttempts,
	}, walletClient, store, faults, notifier, logger)
	scanner := relay.NewScanner(cfg.Ledger.ChainID, cfg.Ledger.Confirmations,
		cfg.Ledger.PollInterval, ledgerClient, store, filter, executor, logger)

	if err := seedCursor(ctx, cfg, store, ledgerClient, logger); err != nil {
		logger.Fatal("Failed to provision scan cursor", zap.Error(err))
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := scanner.Run(ctx); err != nil {
			logger.Error("Scanner stopped with error", zap.Error(err))
		}
	}()

	// Setup HTTP server for API and metrics
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := bunDB.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	})

	if cfg.Monitoring.Enabled {
		r.Handle("/metrics", promhttp.Handler())
		logger.Info("Metrics enabled", zap.String("path", "/metrics"))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/settlements", handleListSettlements(store, logger))
		r.Get("/errors", handleListErrors(store, logger))
		r.Get("/status", handleGetStatus(logger))
	})

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("address", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutdown signal received, gracefully shutting down...")
	cancel()
	wg.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	logger.Info("Relayer stopped")
}

// seedCursor provisions the scan cursor on first run, starting at the newest
// final height so historic blocks are not replayed.
func seedCursor(ctx context.Context, cfg *config.Config, store *db.Store, ledgerClient *ledger.Client, logger *zap.Logger) error {
	_, err := store.GetCursor(ctx, cfg.Ledger.ChainID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, db.ErrCursorNotFound) {
		return err
	}

	height, err := ledgerClient.Height(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch initial chain height: %w", err)
	}
	start := height - cfg.Ledger.Confirmations
	if start < 0 {
		start = 0
	}

	logger.Info("Provisioning scan cursor",
		zap.String("chain", cfg.Ledger.ChainID),
		zap.Int64("height", start))
	return store.SetCursor(ctx, cfg.Ledger.ChainID, start)
}

func handleListSettlements(store *db.Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settlements, err := store.ListSettlements(r.Context(), 100)
		if err != nil {
			logger.Error("Failed to list settlements", zap.Error(err))
			http.Error(w, "Failed to list settlements", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]interface{}{"settlements": settlements}); err != nil {
			logger.Error("Failed to encode response", zap.Error(err))
		}
	}
}

func handleListErrors(store *db.Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := store.ListErrorRecords(r.Context(), 100)
		if err != nil {
			logger.Error("Failed to list error records", zap.Error(err))
			http.Error(w, "Failed to list error records", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]interface{}{"errors": records}); err != nil {
			logger.Error("Failed to encode response", zap.Error(err))
		}
	}
}

func handleGetStatus(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]interface{}{"status": "running"}); err != nil {
			logger.Error("Failed to encode response", zap.Error(err))
		}
	}
}
