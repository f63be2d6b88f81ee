package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/havona-labs/havona-sapphire/internal/attest"
	"github.com/havona-labs/havona-sapphire/internal/chain"
	"github.com/havona-labs/havona-sapphire/internal/pricefeed"
	"github.com/havona-labs/havona-sapphire/internal/registry"
	"github.com/havona-labs/havona-sapphire/internal/scheduler"
)

// BatchSubmitter sends one attestation batch transaction and blocks
// until its terminal receipt.
type BatchSubmitter interface {
	SubmitBatch(ctx context.Context, ids []common.Hash, prices []*big.Int) (common.Hash, error)
}

// Service orchestrates the fetch → normalize → batch → submit cycle.
type Service struct {
	scheduler *scheduler.Scheduler
	registry  registry.Registry
	source    pricefeed.Source
	submitter BatchSubmitter
	logger    zerolog.Logger
}

// New constructs the relay service.
func New(sched *scheduler.Scheduler, reg registry.Registry, source pricefeed.Source, submitter BatchSubmitter, logger zerolog.Logger) *Service {
	return &Service{
		scheduler: sched,
		registry:  reg,
		source:    source,
		submitter: submitter,
		logger:    logger.With().Str("component", "service").Logger(),
	}
}

// Run begins the polling loop.
func (s *Service) Run(ctx context.Context) error {
	if s.scheduler == nil {
		return fmt.Errorf("scheduler not configured")
	}
	return s.scheduler.Run(ctx, s.Cycle)
}

// Cycle 执行一次完整的轮询周期：串行抓取全部商品价格、定点化、批量上链。
// Everything in the cycle is created and discarded here; nothing
// persists to the next tick.
func (s *Service) Cycle(ctx context.Context) error {
	quotes := s.fetchAll(ctx)
	batch := s.buildBatch(quotes)

	if batch.Empty() {
		s.logger.Warn().Msg("no prices fetched, skipping submission")
		return nil
	}

	txHash, err := s.submitter.SubmitBatch(ctx, batch.IDs, batch.Prices)
	if err != nil {
		if errors.Is(err, chain.ErrReverted) {
			// A lost cycle: the next batch supersedes it, no retry.
			s.logger.Error().Str("tx", txHash.Hex()).Int("count", batch.Len()).Msg("batch transaction reverted")
			return nil
		}
		return fmt.Errorf("submit batch: %w", err)
	}

	s.logger.Info().Str("tx", txHash.Hex()).Int("count", batch.Len()).Msg("batch submitted")
	return nil
}

// fetchAll queries every registered commodity in registry order. A
// failed fetch excludes the commodity from this cycle; the next cycle
// tries again.
func (s *Service) fetchAll(ctx context.Context) []attest.Quote {
	quotes := make([]attest.Quote, 0, len(s.registry))
	for _, c := range s.registry {
		price, err := s.source.Spot(ctx, c.Symbol)
		if err != nil {
			s.logger.Warn().Err(err).Str("commodity", c.Name).Str("symbol", c.Symbol).Msg("failed to fetch price")
			continue
		}
		quotes = append(quotes, attest.Quote{Commodity: c, Price: price})
	}
	return quotes
}

// buildBatch scales the present quotes into the contract encoding,
// preserving evaluation order. Non-positive prices are rejected, never
// submitted as zero.
func (s *Service) buildBatch(quotes []attest.Quote) attest.Batch {
	var batch attest.Batch
	for _, q := range quotes {
		scaled, err := attest.Scale(q.Price)
		if err != nil {
			s.logger.Warn().Err(err).Str("commodity", q.Commodity.Name).Str("price", q.Price.String()).Msg("rejected quote")
			continue
		}
		s.logger.Info().
			Str("commodity", q.Commodity.Name).
			Str("price_usd", q.Price.StringFixed(4)).
			Str("scaled", scaled.String()).
			Msg("price fetched")
		batch.Append(q.Commodity.ID, scaled)
	}
	return batch
}
