package store

import (
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestMarkInFlightClaimsOnce(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	id := common.HexToHash("0x01")

	require.True(t, m.MarkInFlight(id))
	require.False(t, m.MarkInFlight(id))
	require.True(t, m.IsKnown(id))
	require.False(t, m.IsSettled(id))
}

func TestReleaseInFlightAllowsRetry(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	id := common.HexToHash("0x02")

	require.True(t, m.MarkInFlight(id))
	m.ReleaseInFlight(id)
	require.False(t, m.IsKnown(id))
	require.True(t, m.MarkInFlight(id))
}

func TestSettledIsPermanent(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	id := common.HexToHash("0x03")

	require.True(t, m.MarkInFlight(id))
	m.MarkSettled(id, Record{
		ProofID:        id,
		TxHash:         common.HexToHash("0xbeef"),
		ConfirmedBlock: 12,
		FeePaid:        big.NewInt(21_000),
		SettledAt:      time.Unix(1_700_000_000, 0),
	})

	// Releasing after settlement must not remove the settled marking.
	m.ReleaseInFlight(id)
	require.True(t, m.IsSettled(id))
	require.False(t, m.MarkInFlight(id))

	rec, ok := m.Get(id)
	require.True(t, ok)
	require.Equal(t, uint64(12), rec.ConfirmedBlock)
	require.Equal(t, 1, m.SettledCount())
}

func TestMarkInFlightConcurrentSingleWinner(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	id := common.HexToHash("0x04")

	const racers = 32
	var wg sync.WaitGroup
	wins := make(chan struct{}, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.MarkInFlight(id) {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for range wins {
		won++
	}
	require.Equal(t, 1, won)
}
