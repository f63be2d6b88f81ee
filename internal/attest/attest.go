package attest

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/havona-labs/havona-sapphire/internal/registry"
)

// priceDecimals matches TradeAttestation.sol: prices are stored as
// USD × 1e6.
const priceDecimals = 6

// ErrNotPositive rejects zero or negative prices from entering a batch.
var ErrNotPositive = errors.New("price must be greater than zero")

// Quote pairs a commodity with a fetched decimal USD price. Quotes are
// only constructed for fetches that succeeded; an absent price has no
// quote.
type Quote struct {
	Commodity registry.Commodity
	Price     decimal.Decimal
}

// Scale converts a decimal USD price into the contract's fixed-point
// encoding: floor(price × 1e6). Digits beyond the sixth decimal place
// are truncated, not rounded — the contract stores this value
// bit-for-bit.
func Scale(price decimal.Decimal) (*big.Int, error) {
	if price.Sign() <= 0 {
		return nil, ErrNotPositive
	}
	return price.Shift(priceDecimals).Truncate(0).BigInt(), nil
}

// Batch carries parallel commodity id and scaled price sequences for a
// single submitBatch transaction. Entries stay aligned index-for-index
// in the order they were appended.
type Batch struct {
	IDs    []common.Hash
	Prices []*big.Int
}

// Append adds one attested price to the batch.
func (b *Batch) Append(id common.Hash, price *big.Int) {
	b.IDs = append(b.IDs, id)
	b.Prices = append(b.Prices, price)
}

// Len reports the number of entries in the batch.
func (b *Batch) Len() int {
	return len(b.IDs)
}

// Empty reports whether the batch holds no entries. Empty batches are
// never submitted.
func (b *Batch) Empty() bool {
	return len(b.IDs) == 0
}
