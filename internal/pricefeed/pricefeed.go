package pricefeed

import (
	"context"

	"github.com/shopspring/decimal"
)

// Source retrieves the current spot price for a provider ticker. Any
// failure (network, provider, parse) is returned as an error; callers
// treat an error as the price being absent for this cycle.
type Source interface {
	Spot(ctx context.Context, symbol string) (decimal.Decimal, error)
}
