package contracts

import (
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/intent-network/relayer/x/proof"
)

// Binding abstracts the settlement contract call surface so tests can swap in
// a stub without a parsed ABI.
type Binding interface {
	Address() common.Address
	ABI() abi.ABI
	BuildSettleCalldata(p *proof.Proof, deadline time.Time) ([]byte, error)
}
