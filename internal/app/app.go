package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/havona-labs/havona-sapphire/internal/chain"
	"github.com/havona-labs/havona-sapphire/internal/config"
	"github.com/havona-labs/havona-sapphire/internal/pricefeed"
	"github.com/havona-labs/havona-sapphire/internal/registry"
	"github.com/havona-labs/havona-sapphire/internal/scheduler"
	"github.com/havona-labs/havona-sapphire/internal/service"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

// dialChain connects to the configured RPC endpoint. Failure here is
// fatal: the caller exits non-zero instead of entering the poll loop.
func (a *App) dialChain(ctx context.Context) (*chain.Client, error) {
	return chain.Dial(ctx, chain.Options{
		RPCURL:          a.Config.Chain.RPCURL,
		PrivateKey:      a.Config.Chain.PrivateKey,
		ContractAddress: a.Config.Chain.ContractAddress,
		GasLimit:        a.Config.Chain.GasLimit,
		RequestTimeout:  a.Config.Chain.RequestTimeout,
		ReceiptTimeout:  a.Config.Chain.ReceiptTimeout,
	}, a.Logger)
}

func (a *App) newSource() pricefeed.Source {
	return pricefeed.NewYahoo(pricefeed.YahooOptions{
		BaseURL:   a.Config.Provider.BaseURL,
		UserAgent: a.Config.Provider.UserAgent,
		Timeout:   a.Config.Provider.RequestTimeout,
	}, a.Logger)
}

// Run executes the long-running attestation relay.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, err := a.dialChain(ctx)
	if err != nil {
		a.Logger.Error().Err(err).Str("rpc", a.Config.Chain.RPCURL).Msg("cannot reach chain endpoint")
		return err
	}
	defer client.Close()

	a.Logger.Info().
		Str("rpc", a.Config.Chain.RPCURL).
		Str("contract", a.Config.Chain.ContractAddress).
		Str("sender", client.From().Hex()).
		Str("chain_id", client.ChainID().String()).
		Dur("interval", a.Config.Scheduler.Interval).
		Msg("oracle starting")

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Scheduler.Interval,
		StartupDelay: a.Config.Scheduler.StartupDelay,
	}, a.Logger)

	svc := service.New(sched, registry.Default(), a.newSource(), client, a.Logger)

	err = svc.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("oracle terminated with error")
		return err
	}

	a.Logger.Info().Msg("oracle stopped")
	return nil
}
