package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// TradeAttestation.sol — only the functions the oracle calls.
const attestationABIJSON = `[
{"inputs":[{"internalType":"bytes32","name":"commodity","type":"bytes32"},{"internalType":"uint256","name":"price","type":"uint256"}],"name":"submitAttestation","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[{"internalType":"bytes32[]","name":"commodities","type":"bytes32[]"},{"internalType":"uint256[]","name":"prices","type":"uint256[]"}],"name":"submitBatch","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[{"internalType":"bytes32","name":"commodity","type":"bytes32"}],"name":"getPrice","outputs":[{"internalType":"uint256","name":"price","type":"uint256"},{"internalType":"uint256","name":"updatedAt","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

var attestationABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(attestationABIJSON))
	if err != nil {
		panic("failed to parse TradeAttestation ABI: " + err.Error())
	}
	attestationABI = parsed
}

// SubmitBatch sends one transaction carrying every attested price of
// the cycle and blocks until a terminal receipt or the receipt timeout.
func (c *Client) SubmitBatch(ctx context.Context, ids []common.Hash, prices []*big.Int) (common.Hash, error) {
	if len(ids) == 0 {
		return common.Hash{}, errors.New("refusing to submit an empty batch")
	}
	if len(ids) != len(prices) {
		return common.Hash{}, fmt.Errorf("batch sequences misaligned: %d ids, %d prices", len(ids), len(prices))
	}

	calldata, err := attestationABI.Pack("submitBatch", ids, prices)
	if err != nil {
		return common.Hash{}, fmt.Errorf("pack submitBatch: %w", err)
	}

	return c.transact(ctx, calldata)
}

// SubmitAttestation sends a single-commodity attestation. The batch
// loop never calls this; it backs the one-shot attest command.
func (c *Client) SubmitAttestation(ctx context.Context, id common.Hash, price *big.Int) (common.Hash, error) {
	if price == nil || price.Sign() < 0 {
		return common.Hash{}, errors.New("price must be a non-negative integer")
	}

	calldata, err := attestationABI.Pack("submitAttestation", id, price)
	if err != nil {
		return common.Hash{}, fmt.Errorf("pack submitAttestation: %w", err)
	}

	return c.transact(ctx, calldata)
}

// GetPrice reads the latest attested price and its update timestamp.
func (c *Client) GetPrice(ctx context.Context, id common.Hash) (*big.Int, *big.Int, error) {
	calldata, err := attestationABI.Pack("getPrice", id)
	if err != nil {
		return nil, nil, fmt.Errorf("pack getPrice: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, requestTimeout(c.opts))
	defer cancel()

	res, err := c.eth.CallContract(callCtx, ethereum.CallMsg{To: &c.contract, Data: calldata}, nil)
	if err != nil {
		return nil, nil, err
	}

	outputs, err := attestationABI.Unpack("getPrice", res)
	if err != nil {
		return nil, nil, err
	}
	if len(outputs) != 2 {
		return nil, nil, errors.New("unexpected getPrice response")
	}

	price, ok := outputs[0].(*big.Int)
	if !ok {
		return nil, nil, errors.New("failed to decode price output")
	}
	updatedAt, ok := outputs[1].(*big.Int)
	if !ok {
		return nil, nil, errors.New("failed to decode updatedAt output")
	}

	return price, updatedAt, nil
}

// transact builds, signs, and sends a legacy transaction to the
// attestation contract, then waits for it to be mined. A mined-but-
// reverted receipt is reported through ErrReverted with the hash still
// returned for logging.
func (c *Client) transact(ctx context.Context, calldata []byte) (common.Hash, error) {
	sendCtx, cancel := context.WithTimeout(ctx, requestTimeout(c.opts))
	defer cancel()

	nonce, err := c.eth.PendingNonceAt(sendCtx, c.from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("fetch nonce: %w", err)
	}

	gasPrice, err := c.eth.SuggestGasPrice(sendCtx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("suggest gas price: %w", err)
	}

	gasLimit := c.opts.GasLimit
	if gasLimit == 0 {
		gasLimit = 500_000
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &c.contract,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     calldata,
	})

	signed, err := types.SignTx(tx, c.signer, c.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("sign transaction: %w", err)
	}

	if err := c.eth.SendTransaction(sendCtx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("send transaction: %w", err)
	}

	hash := signed.Hash()
	c.logger.Debug().Str("tx", hash.Hex()).Uint64("nonce", nonce).Msg("transaction sent")

	waitCtx, cancelWait := context.WithTimeout(ctx, receiptTimeout(c.opts))
	defer cancelWait()

	receipt, err := bind.WaitMined(waitCtx, c.eth, signed)
	if err != nil {
		return hash, fmt.Errorf("wait for receipt of %s: %w", hash.Hex(), err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return hash, fmt.Errorf("%w: %s", ErrReverted, hash.Hex())
	}

	return hash, nil
}
