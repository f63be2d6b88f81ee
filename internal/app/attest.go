package app

import (
	"context"
	"fmt"

	"github.com/havona-labs/havona-sapphire/internal/attest"
	"github.com/havona-labs/havona-sapphire/internal/registry"
)

// Attest fetches one commodity's spot price and submits it through the
// single-item submitAttestation path.
func (a *App) Attest(ctx context.Context, name string) error {
	commodity, err := registry.Default().Lookup(name)
	if err != nil {
		return err
	}

	client, err := a.dialChain(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	price, err := a.newSource().Spot(ctx, commodity.Symbol)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", commodity.Name, err)
	}

	scaled, err := attest.Scale(price)
	if err != nil {
		return fmt.Errorf("scale %s price %s: %w", commodity.Name, price.String(), err)
	}

	txHash, err := client.SubmitAttestation(ctx, commodity.ID, scaled)
	if err != nil {
		return err
	}

	a.Logger.Info().
		Str("commodity", commodity.Name).
		Str("price_usd", price.StringFixed(4)).
		Str("scaled", scaled.String()).
		Str("tx", txHash.Hex()).
		Msg("attestation submitted")
	return nil
}
