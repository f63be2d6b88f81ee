package registry

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Commodity binds a logical commodity name to its provider ticker and
// its on-chain identifier.
type Commodity struct {
	// Name is the logical identifier; TradeAttestation.sol keys prices
	// by keccak256 of this exact string.
	Name string
	// Symbol is the data provider's ticker for the commodity.
	Symbol string
	// ID is keccak256(Name), computed once at registration.
	ID common.Hash
}

// Registry is the fixed, ordered commodity table. Order is the batch
// evaluation order.
type Registry []Commodity

// New builds a commodity entry and derives its on-chain id.
func New(name, symbol string) Commodity {
	return Commodity{
		Name:   name,
		Symbol: symbol,
		ID:     crypto.Keccak256Hash([]byte(name)),
	}
}

// Default returns the commodities the oracle attests to.
func Default() Registry {
	return Registry{
		New("CRUDE_OIL_WTI", "CL=F"),
		New("CRUDE_OIL_BRENT", "BZ=F"),
		New("NATURAL_GAS", "NG=F"),
		New("XAU_USD", "GC=F"),
		New("WHEAT_USD", "ZW=F"),
	}
}

// Lookup finds a commodity by logical name.
func (r Registry) Lookup(name string) (Commodity, error) {
	for _, c := range r {
		if c.Name == name {
			return c, nil
		}
	}
	return Commodity{}, fmt.Errorf("commodity %q not registered", name)
}

// Names lists the registered logical names in registry order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for _, c := range r {
		names = append(names, c.Name)
	}
	return names
}
