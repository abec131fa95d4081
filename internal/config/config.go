// Package config loads the solxfer configuration from a YAML file, a .env
// file and SOLXFER_* environment variables, in increasing precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Abdullah1738/solana-esp-go/internal/logging"
	"github.com/Abdullah1738/solana-esp-go/offchain/solana"
)

type Cluster string

const (
	ClusterDevnet   Cluster = "devnet"
	ClusterTestnet  Cluster = "testnet"
	ClusterMainnet  Cluster = "mainnet-beta"
	ClusterLocalnet Cluster = "localnet"
)

var ErrUnknownCluster = errors.New("unknown cluster")

// RPCURL returns the public JSON-RPC endpoint of a cluster.
func RPCURL(cluster Cluster) (string, error) {
	switch cluster {
	case ClusterDevnet:
		return "https://api.devnet.solana.com", nil
	case ClusterTestnet:
		return "https://api.testnet.solana.com", nil
	case ClusterMainnet, "mainnet":
		return "https://api.mainnet-beta.solana.com", nil
	case ClusterLocalnet:
		return "http://127.0.0.1:8899", nil
	default:
		return "", errors.Wrapf(ErrUnknownCluster, "%q", cluster)
	}
}

type RPCConfig struct {
	Cluster       Cluster           `yaml:"cluster" env:"SOLXFER_CLUSTER" env-default:"devnet" validate:"omitempty,oneof=devnet testnet mainnet-beta mainnet localnet"`
	URL           string            `yaml:"url" env:"SOLXFER_RPC_URL" validate:"omitempty,url"`
	Commitment    string            `yaml:"commitment" env:"SOLXFER_COMMITMENT" env-default:"confirmed" validate:"oneof=processed confirmed finalized"`
	TimeoutMs     int               `yaml:"timeout_ms" env:"SOLXFER_RPC_TIMEOUT_MS" env-default:"30000" validate:"min=1"`
	SkipPreflight bool              `yaml:"skip_preflight" env:"SOLXFER_SKIP_PREFLIGHT"`
	AsyncSlots    int64             `yaml:"async_slots" env:"SOLXFER_ASYNC_SLOTS" env-default:"1" validate:"min=1,max=16"`
	Headers       map[string]string `yaml:"headers,omitempty" env:"SOLXFER_RPC_HEADERS"`
}

// Endpoint is the explicit URL when set, otherwise the cluster's public URL.
func (c RPCConfig) Endpoint() (string, error) {
	if u := strings.TrimSpace(c.URL); u != "" {
		return u, nil
	}
	return RPCURL(c.Cluster)
}

func (c RPCConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

type LogConfig struct {
	Format     string `yaml:"format" env:"SOLXFER_LOG_FORMAT" env-default:"console" validate:"oneof=console json"`
	Level      string `yaml:"level" env:"SOLXFER_LOG_LEVEL" env-default:"info" validate:"oneof=trace debug info warn error"`
	File       string `yaml:"file,omitempty" env:"SOLXFER_LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env-default:"10" validate:"min=0"`
	MaxBackups int    `yaml:"max_backups" env-default:"3" validate:"min=0"`
	MaxAgeDays int    `yaml:"max_age_days" env-default:"28" validate:"min=0"`
	Compress   bool   `yaml:"compress"`
}

func (c *LogConfig) ToLogOptions() logging.Options {
	return logging.Options{
		Format:     c.Format,
		Level:      c.Level,
		File:       c.File,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

type Config struct {
	RPC     RPCConfig `yaml:"rpc"`
	Keypair string    `yaml:"keypair" env:"SOLXFER_KEYPAIR"`
	Log     LogConfig `yaml:"log"`
}

// Default matches the env-default tags above.
func Default() *Config {
	return &Config{
		RPC: RPCConfig{
			Cluster:    ClusterDevnet,
			Commitment: "confirmed",
			TimeoutMs:  30000,
			AsyncSlots: 1,
		},
		Keypair: solana.DefaultKeypairPath(),
		Log: LogConfig{
			Format:     logging.FormatConsole,
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".config", "solxfer", "config.yaml")
	}
	return filepath.Join(home, ".config", "solxfer", "config.yaml")
}

// Load reads path (skipped when empty) and the environment. A .env file in
// the working directory is applied first without overriding variables that
// are already set.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "load .env")
	}

	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, errors.Wrap(err, "read env")
	}
	if cfg.Keypair == "" {
		cfg.Keypair = solana.DefaultKeypairPath()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	if _, err := c.RPC.Endpoint(); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}

// WriteDefault writes Default() as YAML, refusing to replace an existing file
// unless overwrite is set.
func WriteDefault(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.Errorf("%s already exists", path)
		}
	}
	raw, err := yaml.Marshal(Default())
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "create config dir")
	}
	return errors.Wrap(os.WriteFile(path, raw, 0o600), "write config")
}
