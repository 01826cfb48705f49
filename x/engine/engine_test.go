package engine

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/intent-network/relayer/x/proof"
	"github.com/intent-network/relayer/x/stats"
	"github.com/intent-network/relayer/x/store"
	"github.com/intent-network/relayer/x/target"
)

type fakeTarget struct {
	mu sync.Mutex

	feePrice   *big.Int // EstimateFee price override
	submitErr  error
	confirmErr error
	submitted  int
	barrier    chan struct{} // when set, Submit blocks until closed
}

func (f *fakeTarget) FeePrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(5), nil
}

func (f *fakeTarget) BlockHeight(ctx context.Context) (uint64, error) {
	return 100, nil
}

func (f *fakeTarget) EstimateFee(ctx context.Context, p *proof.Proof) (*target.FeeEstimate, error) {
	price := f.feePrice
	if price == nil {
		price = big.NewInt(5)
	}
	return &target.FeeEstimate{Gas: 100_000, FeePrice: price}, nil
}

func (f *fakeTarget) Submit(ctx context.Context, p *proof.Proof, gasBudget uint64, deadline time.Time) (*target.Receipt, error) {
	if f.barrier != nil {
		<-f.barrier
	}
	f.mu.Lock()
	f.submitted++
	f.mu.Unlock()
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &target.Receipt{TxHash: common.HexToHash("0xfeed"), SubmittedAt: time.Now(), Deadline: deadline}, nil
}

func (f *fakeTarget) AwaitConfirmation(ctx context.Context, r *target.Receipt) (uint64, error) {
	if f.confirmErr != nil {
		return 0, f.confirmErr
	}
	return 101, nil
}

func (f *fakeTarget) submitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitted
}

func executable() *proof.Proof {
	return &proof.Proof{
		ID:                common.HexToHash("0x01"),
		AmountIn:          big.NewInt(1000),
		AmountOut:         big.NewInt(2000),
		Signature:         bytes.Repeat([]byte{1}, 65),
		ProtectionBenefit: big.NewInt(7),
	}
}

func newTestEngine(tgt target.Target, st store.Store, stat *stats.Stats) *Engine {
	return New(DefaultConfig(), st, tgt, stat, nil, zerolog.Nop())
}

func TestExecuteSuccess(t *testing.T) {
	t.Parallel()

	st := store.NewMemory()
	stat := stats.New()
	tgt := &fakeTarget{}
	e := newTestEngine(tgt, st, stat)

	res, err := e.Execute(context.Background(), executable())
	require.NoError(t, err)
	require.False(t, res.AlreadySettled)
	require.Equal(t, uint64(101), res.Record.ConfirmedBlock)
	// fee paid = estimated gas x observed fee price
	require.Equal(t, big.NewInt(500_000), res.Record.FeePaid)

	snap := stat.Snapshot()
	require.Equal(t, uint64(1), snap.SuccessfulExecutions)
	require.Equal(t, "500000", snap.TotalFeeSpent)
	require.Equal(t, "7", snap.TotalBenefitCaptured)
	require.True(t, st.IsSettled(executable().ID))
}

func TestFeeSpentCounterSurvivesLargeFees(t *testing.T) {
	t.Parallel()

	// A fee beyond uint64 must still land on the counter in full.
	price, ok := new(big.Int).SetString("400000000000000000000", 10) // 400 * 10^18 per gas unit
	require.True(t, ok)

	st := store.NewMemory()
	stat := stats.New()
	tgt := &fakeTarget{feePrice: price}
	m := NewMetrics()
	e := New(DefaultConfig(), st, tgt, stat, m, zerolog.Nop())

	res, err := e.Execute(context.Background(), executable())
	require.NoError(t, err)

	want, _ := new(big.Float).SetInt(res.Record.FeePaid).Float64()
	require.Greater(t, want, float64(1<<63))
	require.Equal(t, want, testutil.ToFloat64(m.FeeSpentTotal))
}

func TestExecuteIdempotentSecondCall(t *testing.T) {
	t.Parallel()

	st := store.NewMemory()
	stat := stats.New()
	tgt := &fakeTarget{}
	e := newTestEngine(tgt, st, stat)

	_, err := e.Execute(context.Background(), executable())
	require.NoError(t, err)

	res, err := e.Execute(context.Background(), executable())
	require.NoError(t, err)
	require.True(t, res.AlreadySettled)
	require.Equal(t, 1, tgt.submitCount())
	require.Equal(t, uint64(1), stat.Successes())
}

func TestExecuteSubmitFailureRollsBack(t *testing.T) {
	t.Parallel()

	st := store.NewMemory()
	stat := stats.New()
	tgt := &fakeTarget{submitErr: &target.SubmissionError{Err: errors.New("nonce too low")}}
	e := newTestEngine(tgt, st, stat)

	p := executable()
	_, err := e.Execute(context.Background(), p)
	require.Error(t, err)

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	require.Equal(t, StageSubmit, execErr.Stage)

	require.Equal(t, uint64(1), stat.Failures())
	require.False(t, st.IsSettled(p.ID))
	// rollback released the in-flight marking, retry is possible
	require.False(t, st.IsKnown(p.ID))

	tgt.submitErr = nil
	_, err = e.Execute(context.Background(), p)
	require.NoError(t, err)
}

func TestExecuteConfirmFailureRollsBack(t *testing.T) {
	t.Parallel()

	st := store.NewMemory()
	stat := stats.New()
	tgt := &fakeTarget{confirmErr: &target.ConfirmationError{Err: errors.New("deadline")}}
	e := newTestEngine(tgt, st, stat)

	_, err := e.Execute(context.Background(), executable())
	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	require.Equal(t, StageConfirm, execErr.Stage)
	require.False(t, st.IsKnown(executable().ID))
}

func TestExecuteConcurrentSameProofSubmitsOnce(t *testing.T) {
	t.Parallel()

	st := store.NewMemory()
	stat := stats.New()
	barrier := make(chan struct{})
	tgt := &fakeTarget{barrier: barrier}
	e := newTestEngine(tgt, st, stat)

	const attempts = 8
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			_, err := e.Execute(context.Background(), executable())
			results <- err
		}()
	}

	// Let the racers reach the in-flight gate, then release the winner.
	time.Sleep(20 * time.Millisecond)
	close(barrier)

	var inFlightErrs, successes int
	for i := 0; i < attempts; i++ {
		err := <-results
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrAlreadyInFlight):
			inFlightErrs++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	require.Equal(t, 1, tgt.submitCount())
	require.GreaterOrEqual(t, successes, 1)
	require.Equal(t, attempts, successes+inFlightErrs)
	require.Equal(t, uint64(1), stat.Successes())
}
