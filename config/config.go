package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full bot configuration.
type Config struct {
	Chain   ChainConfig   `yaml:"chain"`
	Polling PollingConfig `yaml:"polling"`
	Sniping SnipingConfig `yaml:"sniping"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// ChainConfig points the bot at a ZigChain endpoint and its signing CLI.
type ChainConfig struct {
	LCDBase        string `yaml:"lcd_base"`
	RPCNode        string `yaml:"rpc_node"`
	ChainID        string `yaml:"chain_id"`
	Bin            string `yaml:"bin"` // zigchaind binary used for signing
	GasPrices      string `yaml:"gas_prices"`
	KeyringBackend string `yaml:"keyring_backend"`
	FactoryAddress string `yaml:"factory_address"` // Oroswap pair factory
}

// PollingConfig controls the discovery monitor's cadence.
type PollingConfig struct {
	TokenIntervalSeconds float64 `yaml:"token_interval_seconds"`
	PoolIntervalSeconds  float64 `yaml:"pool_interval_seconds"`
}

// SnipingConfig controls the execution coordinator and route resolver.
type SnipingConfig struct {
	GasReserveUzig       int64  `yaml:"gas_reserve_uzig"`
	MaxPairPages         int    `yaml:"max_pair_pages"`
	MaxSpread            string `yaml:"max_spread"`
	SubmitTimeoutSeconds int    `yaml:"submit_timeout_seconds"` // 0 = no deadline
}

// StorageConfig controls persistence. EncryptionKey comes from the
// environment only, never from the YAML file.
type StorageConfig struct {
	DSN           string `yaml:"dsn"` // SQLite file path, or ":memory:"
	EncryptionKey string `yaml:"-"`
}

// LogConfig controls logging format and level.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load reads configuration from the YAML file and the .env file if present.
// Environment values override the YAML for the keys they cover. A missing
// YAML file is not an error: the bot runs on defaults plus environment.
func Load(path string) (*Config, error) {
	// load .env if present (missing file is fine)
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// TokenPollInterval returns the token poll cadence as a time.Duration.
func (c *Config) TokenPollInterval() time.Duration {
	return time.Duration(c.Polling.TokenIntervalSeconds * float64(time.Second))
}

// PoolPollInterval returns the pool poll cadence as a time.Duration.
func (c *Config) PoolPollInterval() time.Duration {
	return time.Duration(c.Polling.PoolIntervalSeconds * float64(time.Second))
}

// SubmitTimeout returns the per-attempt deadline; zero disables it.
func (c *Config) SubmitTimeout() time.Duration {
	return time.Duration(c.Sniping.SubmitTimeoutSeconds) * time.Second
}

// applyEnvOverrides overrides values with environment variables when set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("ZIGCHAIN_LCD_BASE"); v != "" {
		cfg.Chain.LCDBase = v
	}
	if v := os.Getenv("WALLET_ENCRYPTION_KEY"); v != "" {
		cfg.Storage.EncryptionKey = v
	}
}

// setDefaults fills required values with production defaults.
func setDefaults(cfg *Config) {
	if cfg.Chain.LCDBase == "" {
		cfg.Chain.LCDBase = "https://public-zigchain-lcd.numia.xyz"
	}
	if cfg.Chain.RPCNode == "" {
		cfg.Chain.RPCNode = "https://public-zigchain-rpc.numia.xyz"
	}
	if cfg.Chain.ChainID == "" {
		cfg.Chain.ChainID = "zigchain-1"
	}
	if cfg.Chain.Bin == "" {
		cfg.Chain.Bin = "zigchaind"
	}
	if cfg.Chain.GasPrices == "" {
		cfg.Chain.GasPrices = "0.025uzig"
	}
	if cfg.Chain.KeyringBackend == "" {
		cfg.Chain.KeyringBackend = "test"
	}
	if cfg.Chain.FactoryAddress == "" {
		cfg.Chain.FactoryAddress = "zig1xx3aupmgv3ce537c0yce8zzd3sz567syaltr2tdehu3y803yz6gsc6tz85"
	}
	if cfg.Polling.TokenIntervalSeconds <= 0 {
		cfg.Polling.TokenIntervalSeconds = 1
	}
	if cfg.Polling.PoolIntervalSeconds <= 0 {
		cfg.Polling.PoolIntervalSeconds = 2
	}
	if cfg.Sniping.GasReserveUzig <= 0 {
		cfg.Sniping.GasReserveUzig = 5000
	}
	if cfg.Sniping.MaxPairPages <= 0 {
		cfg.Sniping.MaxPairPages = 10
	}
	if cfg.Sniping.MaxSpread == "" {
		cfg.Sniping.MaxSpread = "0.5"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "zigsniper.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
