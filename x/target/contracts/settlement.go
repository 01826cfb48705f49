package contracts

import (
	_ "embed"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/intent-network/relayer/x/proof"
)

// Settlement contract ABI JSON embedded at compile time
//
//go:embed abi/settlement.json
var settlementABIJSON string

var _ Binding = (*SettlementBinding)(nil)

// SettlementBinding encodes calls against the on-chain settlement contract
// that consumes execution proofs.
type SettlementBinding struct {
	address common.Address
	abi     abi.ABI
}

// NewSettlementBinding parses the embedded ABI and validates the contract
// address.
func NewSettlementBinding(contractAddr string) (*SettlementBinding, error) {
	if strings.TrimSpace(contractAddr) == "" {
		return nil, fmt.Errorf("contract address cannot be empty")
	}

	parsedABI, err := abi.JSON(strings.NewReader(settlementABIJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse settlement ABI: %w", err)
	}

	return &SettlementBinding{
		address: common.HexToAddress(contractAddr),
		abi:     parsedABI,
	}, nil
}

// Address returns the settlement contract address.
func (b *SettlementBinding) Address() common.Address {
	return b.address
}

// ABI returns the parsed settlement contract ABI.
func (b *SettlementBinding) ABI() abi.ABI {
	return b.abi
}

// BuildSettleCalldata encodes a settle() call for the proof. The deadline is
// passed on-chain so a stuck submission cannot be replayed far in the future.
func (b *SettlementBinding) BuildSettleCalldata(p *proof.Proof, deadline time.Time) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("proof cannot be nil")
	}
	if len(p.Signature) == 0 {
		return nil, fmt.Errorf("proof signature cannot be empty")
	}

	amountIn := p.AmountIn
	if amountIn == nil {
		amountIn = new(big.Int)
	}
	amountOut := p.AmountOut
	if amountOut == nil {
		amountOut = new(big.Int)
	}
	clearingPrice := p.ClearingPrice
	if clearingPrice == nil {
		clearingPrice = new(big.Int)
	}

	data, err := b.abi.Pack("settle",
		[32]byte(p.ID),
		p.Submitter,
		p.AssetIn,
		p.AssetOut,
		amountIn,
		amountOut,
		clearingPrice,
		[32]byte(p.BatchRoot),
		big.NewInt(deadline.Unix()),
		p.Signature,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to pack settle calldata: %w", err)
	}

	return data, nil
}
