package target

import (
	"bytes"
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/intent-network/relayer/x/proof"
	"github.com/intent-network/relayer/x/target/contracts"
)

type mockEthClient struct {
	sent             *types.Transaction
	receipt          *types.Receipt
	head             uint64
	gasPrice         *big.Int
	lastEstimateCall ethereum.CallMsg
}

func (m *mockEthClient) ChainID(ctx context.Context) (*big.Int, error) { return big.NewInt(1337), nil }
func (m *mockEthClient) BlockNumber(ctx context.Context) (uint64, error) {
	return m.head, nil
}
func (m *mockEthClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	if m.gasPrice != nil {
		return m.gasPrice, nil
	}
	return big.NewInt(3_000_000_000), nil
}
func (m *mockEthClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	m.lastEstimateCall = msg
	return 100_000, nil
}
func (m *mockEthClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return 7, nil
}
func (m *mockEthClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	m.sent = tx
	return nil
}
func (m *mockEthClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	if m.receipt == nil {
		return nil, ethereum.NotFound
	}
	return m.receipt, nil
}

func testProof() *proof.Proof {
	return &proof.Proof{
		ID:            common.HexToHash("0xaa"),
		Submitter:     common.HexToAddress("0x01"),
		AssetIn:       common.HexToAddress("0x02"),
		AssetOut:      common.HexToAddress("0x03"),
		AmountIn:      big.NewInt(1000),
		AmountOut:     big.NewInt(2000),
		ClearingPrice: big.NewInt(2),
		Signature:     bytes.Repeat([]byte{1}, 65),
		BatchRoot:     common.HexToHash("0xbb"),
	}
}

func newTestTarget(t *testing.T, client *mockEthClient) *EthTarget {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := NewLocalECDSASigner(big.NewInt(1337), key)

	binding, err := contracts.NewSettlementBinding("0x000000000000000000000000000000000000dead")
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.ChainID = 1337
	cfg.ReceiptPollInterval = 5 * time.Millisecond
	return newEthTarget(cfg, client, signer, binding, zerolog.Nop())
}

func TestSubmitSignsAndSends(t *testing.T) {
	t.Parallel()

	client := &mockEthClient{}
	tgt := newTestTarget(t, client)

	deadline := time.Now().Add(5 * time.Minute)
	receipt, err := tgt.Submit(context.Background(), testProof(), 120_000, deadline)
	require.NoError(t, err)
	require.NotNil(t, client.sent)
	require.Equal(t, client.sent.Hash(), receipt.TxHash)
	require.Equal(t, uint64(7), client.sent.Nonce())
	require.Equal(t, uint64(120_000), client.sent.Gas())
	require.Equal(t, common.HexToAddress("0x000000000000000000000000000000000000dead"), *client.sent.To())
	require.NotEmpty(t, client.sent.Data())
}

func TestEstimateFeeReturnsGasAndPrice(t *testing.T) {
	t.Parallel()

	client := &mockEthClient{gasPrice: big.NewInt(42)}
	tgt := newTestTarget(t, client)

	// Default config pads the node's 100k estimate by 20%.
	est, err := tgt.EstimateFee(context.Background(), testProof())
	require.NoError(t, err)
	require.Equal(t, uint64(120_000), est.Gas)
	require.Equal(t, big.NewInt(42), est.FeePrice)
	require.NotNil(t, client.lastEstimateCall.To)
}

func TestEstimateFeeAppliesGasLimitBuffer(t *testing.T) {
	t.Parallel()

	client := &mockEthClient{}
	tgt := newTestTarget(t, client)

	tgt.cfg.GasLimitBufferPct = 50
	est, err := tgt.EstimateFee(context.Background(), testProof())
	require.NoError(t, err)
	require.Equal(t, uint64(150_000), est.Gas)

	tgt.cfg.GasLimitBufferPct = 0
	est, err = tgt.EstimateFee(context.Background(), testProof())
	require.NoError(t, err)
	require.Equal(t, uint64(100_000), est.Gas)
}

func TestAwaitConfirmationWaitsForDepth(t *testing.T) {
	t.Parallel()

	client := &mockEthClient{
		head: 101,
		receipt: &types.Receipt{
			Status:      types.ReceiptStatusSuccessful,
			BlockNumber: big.NewInt(100),
		},
	}
	tgt := newTestTarget(t, client)

	height, err := tgt.AwaitConfirmation(context.Background(), &Receipt{
		TxHash:   common.HexToHash("0xcc"),
		Deadline: time.Now().Add(time.Second),
	})
	require.NoError(t, err)
	require.Equal(t, uint64(100), height)
}

func TestAwaitConfirmationDeadlineExceeded(t *testing.T) {
	t.Parallel()

	client := &mockEthClient{} // receipt never appears
	tgt := newTestTarget(t, client)

	_, err := tgt.AwaitConfirmation(context.Background(), &Receipt{
		TxHash:   common.HexToHash("0xdd"),
		Deadline: time.Now().Add(20 * time.Millisecond),
	})
	require.Error(t, err)
	var confErr *ConfirmationError
	require.ErrorAs(t, err, &confErr)
}

func TestAwaitConfirmationRevertedTx(t *testing.T) {
	t.Parallel()

	client := &mockEthClient{
		head: 10,
		receipt: &types.Receipt{
			Status:      types.ReceiptStatusFailed,
			BlockNumber: big.NewInt(9),
		},
	}
	tgt := newTestTarget(t, client)

	_, err := tgt.AwaitConfirmation(context.Background(), &Receipt{
		TxHash:   common.HexToHash("0xee"),
		Deadline: time.Now().Add(time.Second),
	})
	var confErr *ConfirmationError
	require.ErrorAs(t, err, &confErr)
}
