package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config represents the relay daemon configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Ledger     LedgerConfig     `mapstructure:"ledger"`
	Wallet     WalletConfig     `mapstructure:"wallet"`
	Watcher    WatcherConfig    `mapstructure:"watcher"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// LedgerConfig contains source-chain node settings
type LedgerConfig struct {
	NodeURL        string        `mapstructure:"node_url" validate:"required,url"`
	ChainID        string        `mapstructure:"chain_id"`
	GatewayAddress string        `mapstructure:"gateway_address" validate:"required"`
	AssetID        string        `mapstructure:"asset_id" validate:"required"`
	Decimals       int32         `mapstructure:"decimals"`
	Confirmations  int64         `mapstructure:"confirmations"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// WalletConfig contains target-chain wallet RPC settings
type WalletConfig struct {
	RPCURL         string        `mapstructure:"rpc_url" validate:"required,url"`
	RPCUser        string        `mapstructure:"rpc_user"`
	RPCPassword    string        `mapstructure:"rpc_password"`
	GatewayAddress string        `mapstructure:"gateway_address" validate:"required"`
	Fee            string        `mapstructure:"fee"`
	Passphrase     string        `mapstructure:"passphrase"`
	PassphraseEnv  string        `mapstructure:"passphrase_env"`
	UnlockSeconds  int64         `mapstructure:"unlock_seconds"`
	OpPollInterval time.Duration `mapstructure:"op_poll_interval"`
	OpPollAttempts int           `mapstructure:"op_poll_attempts"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// WatcherConfig contains confirmation watcher settings
type WatcherConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Confirmations int64         `mapstructure:"confirmations"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	QueueSize     int           `mapstructure:"queue_size"`
}

// MonitoringConfig contains monitoring and metrics settings
type MonitoringConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	MetricsPort int  `mapstructure:"metrics_port"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.database", "gateway")

	// Ledger defaults
	viper.SetDefault("ledger.chain_id", "TN")
	viper.SetDefault("ledger.decimals", 8)
	viper.SetDefault("ledger.confirmations", 1)
	viper.SetDefault("ledger.poll_interval", "60s")
	viper.SetDefault("ledger.request_timeout", "30s")

	// Wallet defaults
	viper.SetDefault("wallet.fee", "0.5")
	viper.SetDefault("wallet.unlock_seconds", 30)
	viper.SetDefault("wallet.op_poll_interval", "5s")
	viper.SetDefault("wallet.op_poll_attempts", 120)
	viper.SetDefault("wallet.request_timeout", "30s")

	// Watcher defaults
	viper.SetDefault("watcher.enabled", true)
	viper.SetDefault("watcher.confirmations", 6)
	viper.SetDefault("watcher.poll_interval", "30s")
	viper.SetDefault("watcher.queue_size", 64)

	// Monitoring defaults
	viper.SetDefault("monitoring.enabled", true)
	viper.SetDefault("monitoring.metrics_port", 9090)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output_path", "stdout")
}

// WalletPassphrase resolves the wallet passphrase, preferring the configured
// environment variable over the literal config value. An empty result means
// the wallet runs unlocked and no unlock call is issued.
func (c *WalletConfig) WalletPassphrase() string {
	if c.PassphraseEnv != "" {
		if v := os.Getenv(c.PassphraseEnv); v != "" {
			return v
		}
	}
	return c.Passphrase
}

// GetConnectionString returns a PostgreSQL connection string
func (c *DatabaseConfig) GetConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
