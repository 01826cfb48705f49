package target

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"

	"github.com/intent-network/relayer/x/proof"
	"github.com/intent-network/relayer/x/target/contracts"
)

// ethClient is the subset of the go-ethereum client the target needs.
// Narrowed for testability.
type ethClient interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

var _ Target = (*EthTarget)(nil)

// EthTarget submits settlement calls to an EVM chain.
type EthTarget struct {
	cfg      Config
	client   ethClient
	signer   Signer
	contract contracts.Binding
	log      zerolog.Logger

	now func() time.Time
}

// NewEthTarget dials the configured RPC endpoint and wires the settlement
// contract binding and signer.
func NewEthTarget(ctx context.Context, cfg Config, log zerolog.Logger) (*EthTarget, error) {
	if cfg.RPCEndpoint == "" {
		return nil, errors.New("target: rpc_endpoint is required")
	}

	client, err := ethclient.DialContext(ctx, cfg.RPCEndpoint)
	if err != nil {
		return nil, fmt.Errorf("dial execution chain: %w", err)
	}

	binding, err := contracts.NewSettlementBinding(cfg.SettlementContract)
	if err != nil {
		return nil, err
	}

	signer, err := NewLocalECDSASignerFromHex(new(big.Int).SetUint64(cfg.ChainID), cfg.RelayerPkHex)
	if err != nil {
		return nil, err
	}

	return newEthTarget(cfg, client, signer, binding, log), nil
}

func newEthTarget(cfg Config, client ethClient, signer Signer, binding contracts.Binding, log zerolog.Logger) *EthTarget {
	if cfg.ReceiptPollInterval <= 0 {
		cfg.ReceiptPollInterval = DefaultConfig().ReceiptPollInterval
	}
	return &EthTarget{
		cfg:      cfg,
		client:   client,
		signer:   signer,
		contract: binding,
		log:      log.With().Str("component", "eth-target").Logger(),
		now:      time.Now,
	}
}

// FeePrice returns the node's suggested gas price.
func (t *EthTarget) FeePrice(ctx context.Context) (*big.Int, error) {
	price, err := t.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("suggest gas price: %w", err)
	}
	return price, nil
}

// BlockHeight returns the current head height.
func (t *EthTarget) BlockHeight(ctx context.Context) (uint64, error) {
	height, err := t.client.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("block number: %w", err)
	}
	return height, nil
}

// EstimateFee estimates gas for the settle call at the current fee price.
// The node's estimate is padded by GasLimitBufferPct; state can shift between
// estimation and inclusion.
func (t *EthTarget) EstimateFee(ctx context.Context, p *proof.Proof) (*FeeEstimate, error) {
	calldata, err := t.contract.BuildSettleCalldata(p, t.now())
	if err != nil {
		return nil, err
	}

	from := t.signer.Address()
	to := t.contract.Address()
	gas, err := t.client.EstimateGas(ctx, ethereum.CallMsg{
		From: from,
		To:   &to,
		Data: calldata,
	})
	if err != nil {
		return nil, fmt.Errorf("estimate gas: %w", err)
	}
	gas += gas * t.cfg.GasLimitBufferPct / 100

	price, err := t.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("suggest gas price: %w", err)
	}

	return &FeeEstimate{Gas: gas, FeePrice: price}, nil
}

// Submit builds, signs and broadcasts the settlement transaction.
func (t *EthTarget) Submit(ctx context.Context, p *proof.Proof, gasBudget uint64, deadline time.Time) (*Receipt, error) {
	calldata, err := t.contract.BuildSettleCalldata(p, deadline)
	if err != nil {
		return nil, &SubmissionError{Err: err}
	}

	nonce, err := t.client.PendingNonceAt(ctx, t.signer.Address())
	if err != nil {
		return nil, &SubmissionError{Err: fmt.Errorf("pending nonce: %w", err)}
	}

	gasPrice, err := t.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, &SubmissionError{Err: fmt.Errorf("suggest gas price: %w", err)}
	}

	to := t.contract.Address()
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Gas:      gasBudget,
		GasPrice: gasPrice,
		Data:     calldata,
	})

	signed, err := t.signer.SignTx(tx)
	if err != nil {
		return nil, &SubmissionError{Err: fmt.Errorf("sign transaction: %w", err)}
	}

	if err := t.client.SendTransaction(ctx, signed); err != nil {
		return nil, &SubmissionError{Err: fmt.Errorf("send transaction: %w", err)}
	}

	t.log.Info().
		Str("proof_id", p.ID.Hex()).
		Str("tx_hash", signed.Hash().Hex()).
		Uint64("nonce", nonce).
		Uint64("gas_budget", gasBudget).
		Str("gas_price", gasPrice.String()).
		Time("deadline", deadline).
		Msg("settlement submitted")

	return &Receipt{
		TxHash:      signed.Hash(),
		SubmittedAt: t.now(),
		Deadline:    deadline,
	}, nil
}

// AwaitConfirmation polls for the transaction receipt until the configured
// confirmation depth is reached or the receipt's deadline passes.
func (t *EthTarget) AwaitConfirmation(ctx context.Context, r *Receipt) (uint64, error) {
	if !r.Deadline.IsZero() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, r.Deadline)
		defer cancel()
	}

	ticker := time.NewTicker(t.cfg.ReceiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := t.client.TransactionReceipt(ctx, r.TxHash)
		switch {
		case err == nil && receipt != nil:
			if receipt.Status != types.ReceiptStatusSuccessful {
				return 0, &ConfirmationError{Err: fmt.Errorf("transaction %s reverted", r.TxHash.Hex())}
			}
			confirmed, err := t.confirmed(ctx, receipt)
			if err != nil {
				return 0, &ConfirmationError{Err: err}
			}
			if confirmed {
				return receipt.BlockNumber.Uint64(), nil
			}
		case errors.Is(err, ethereum.NotFound):
			// Not mined yet; keep polling.
		case err != nil:
			return 0, &ConfirmationError{Err: err}
		}

		select {
		case <-ctx.Done():
			return 0, &ConfirmationError{Err: fmt.Errorf("transaction %s not confirmed before deadline: %w", r.TxHash.Hex(), ctx.Err())}
		case <-ticker.C:
		}
	}
}

func (t *EthTarget) confirmed(ctx context.Context, receipt *types.Receipt) (bool, error) {
	if t.cfg.Confirmations <= 1 {
		return true, nil
	}
	head, err := t.client.BlockNumber(ctx)
	if err != nil {
		return false, fmt.Errorf("block number: %w", err)
	}
	return head >= receipt.BlockNumber.Uint64()+t.cfg.Confirmations-1, nil
}
