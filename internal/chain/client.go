package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
)

// ErrReverted marks a transaction that was mined but reverted on-chain.
// Callers treat the cycle as lost rather than retrying.
var ErrReverted = errors.New("transaction reverted on-chain")

// Options parameterise the Sapphire client.
type Options struct {
	RPCURL          string
	PrivateKey      string
	ContractAddress string
	GasLimit        uint64
	RequestTimeout  time.Duration
	ReceiptTimeout  time.Duration
}

// Client wraps an Ethereum RPC connection with the provisioned signing
// identity and the TradeAttestation contract address. The connection
// and key are initialised once at startup and never mutated.
type Client struct {
	opts     Options
	logger   zerolog.Logger
	eth      *ethclient.Client
	key      *ecdsa.PrivateKey
	from     common.Address
	contract common.Address
	chainID  *big.Int
	signer   types.Signer
}

// Dial connects to the configured RPC endpoint, verifies connectivity
// by reading the chain id, and prepares the signing identity. A failure
// here is fatal to the process: there is nothing useful to poll on.
func Dial(ctx context.Context, opts Options, logger zerolog.Logger) (*Client, error) {
	if opts.RPCURL == "" {
		return nil, errors.New("chain rpc url not configured")
	}
	if opts.PrivateKey == "" {
		return nil, errors.New("signing key not provisioned")
	}
	if opts.ContractAddress == "" {
		return nil, errors.New("attestation contract address not configured")
	}
	if !common.IsHexAddress(opts.ContractAddress) {
		return nil, fmt.Errorf("invalid contract address %q", opts.ContractAddress)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(opts.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decode signing key: %w", err)
	}

	dialCtx, cancel := context.WithTimeout(ctx, requestTimeout(opts))
	defer cancel()

	eth, err := ethclient.DialContext(dialCtx, opts.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", opts.RPCURL, err)
	}

	chainID, err := eth.ChainID(dialCtx)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("read chain id from %s: %w", opts.RPCURL, err)
	}

	return &Client{
		opts:     opts,
		logger:   logger.With().Str("component", "chain_client").Logger(),
		eth:      eth,
		key:      key,
		from:     crypto.PubkeyToAddress(key.PublicKey),
		contract: common.HexToAddress(opts.ContractAddress),
		chainID:  chainID,
		signer:   types.LatestSignerForChainID(chainID),
	}, nil
}

// From returns the sender address derived from the provisioned key.
func (c *Client) From() common.Address {
	return c.from
}

// ChainID returns the connected chain's id.
func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	if c.eth != nil {
		c.eth.Close()
	}
}

func requestTimeout(opts Options) time.Duration {
	if opts.RequestTimeout > 0 {
		return opts.RequestTimeout
	}
	return 10 * time.Second
}

func receiptTimeout(opts Options) time.Duration {
	if opts.ReceiptTimeout > 0 {
		return opts.ReceiptTimeout
	}
	return 60 * time.Second
}
