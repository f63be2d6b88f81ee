package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/havona-labs/havona-sapphire/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logging   logging.Config  `mapstructure:"logging"`
	Chain     ChainConfig     `mapstructure:"chain"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// ChainConfig covers Sapphire connectivity and the signing identity.
type ChainConfig struct {
	RPCURL          string        `mapstructure:"rpc_url"`
	PrivateKey      string        `mapstructure:"private_key"`
	ContractAddress string        `mapstructure:"contract_address"`
	GasLimit        uint64        `mapstructure:"gas_limit"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ReceiptTimeout  time.Duration `mapstructure:"receipt_timeout"`
}

// ProviderConfig captures the spot price data provider.
type ProviderConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	UserAgent      string        `mapstructure:"user_agent"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// SchedulerConfig governs polling cadence.
type SchedulerConfig struct {
	Interval     time.Duration `mapstructure:"interval"`
	StartupDelay time.Duration `mapstructure:"startup_delay"`
}

// Load builds configuration from file, environment, and defaults.
// A local .env is folded into the environment first; the ROFL runtime
// injects the signing key the same way.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("HAVONA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindRuntimeEnv(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "havona-oracle")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("chain.rpc_url", "https://testnet.sapphire.oasis.io")
	v.SetDefault("chain.gas_limit", uint64(500_000))
	v.SetDefault("chain.request_timeout", "10s")
	v.SetDefault("chain.receipt_timeout", "60s")

	v.SetDefault("provider.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("provider.user_agent", "HavonaOracle/1.0")
	v.SetDefault("provider.request_timeout", "10s")

	v.SetDefault("scheduler.interval", "60s")
	v.SetDefault("scheduler.startup_delay", "0s")
}

// bindRuntimeEnv keeps the env names the ROFL runtime and the contract
// deployment scripts already use as aliases for the HAVONA_ keys.
func bindRuntimeEnv(v *viper.Viper) {
	_ = v.BindEnv("chain.private_key", "HAVONA_CHAIN_PRIVATE_KEY", "ROFL_APP_PRIVATE_KEY")
	_ = v.BindEnv("chain.contract_address", "HAVONA_CHAIN_CONTRACT_ADDRESS", "TRADE_ATTESTATION_ADDRESS")
	_ = v.BindEnv("chain.rpc_url", "HAVONA_CHAIN_RPC_URL", "RPC_URL")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Chain.PrivateKey == "" {
		return fmt.Errorf("chain.private_key is required (injected as ROFL_APP_PRIVATE_KEY)")
	}
	if c.Chain.ContractAddress == "" {
		return fmt.Errorf("chain.contract_address is required")
	}
	if c.Chain.RPCURL == "" {
		return fmt.Errorf("chain.rpc_url is required")
	}
	if c.Chain.GasLimit == 0 {
		return fmt.Errorf("chain.gas_limit must be greater than zero")
	}
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be greater than zero")
	}
	if c.Provider.BaseURL == "" {
		return fmt.Errorf("provider.base_url is required")
	}
	return nil
}
