package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Chain: ChainConfig{
			RPCURL:          "https://testnet.sapphire.oasis.io",
			PrivateKey:      "0xabc",
			ContractAddress: "0x0100000000000000000000000000000000000001",
			GasLimit:        500_000,
		},
		Provider:  ProviderConfig{BaseURL: "https://query1.finance.yahoo.com"},
		Scheduler: SchedulerConfig{Interval: time.Minute},
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidateRequiresSigningKey(t *testing.T) {
	cfg := validConfig()
	cfg.Chain.PrivateKey = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing signing key must fail validation")
	}
}

func TestValidateRequiresContractAddress(t *testing.T) {
	cfg := validConfig()
	cfg.Chain.ContractAddress = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing contract address must fail validation")
	}
}

func TestValidateRequiresPositiveInterval(t *testing.T) {
	cfg := validConfig()
	cfg.Scheduler.Interval = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("non-positive interval must fail validation")
	}
}
