package store

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

var _ Store = (*Memory)(nil)

// Memory implements an in-memory store; suitable for tests and single-instance
// deployments. All methods are safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	settled  map[common.Hash]Record
	inFlight map[common.Hash]struct{}
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		settled:  make(map[common.Hash]Record),
		inFlight: make(map[common.Hash]struct{}),
	}
}

func (m *Memory) MarkInFlight(id common.Hash) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.settled[id]; ok {
		return false
	}
	if _, ok := m.inFlight[id]; ok {
		return false
	}
	m.inFlight[id] = struct{}{}
	return true
}

func (m *Memory) MarkSettled(id common.Hash, rec Record) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.inFlight, id)
	m.settled[id] = rec
}

func (m *Memory) ReleaseInFlight(id common.Hash) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.inFlight, id)
}

func (m *Memory) IsKnown(id common.Hash) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.settled[id]; ok {
		return true
	}
	_, ok := m.inFlight[id]
	return ok
}

func (m *Memory) IsSettled(id common.Hash) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.settled[id]
	return ok
}

func (m *Memory) Get(id common.Hash) (Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.settled[id]
	return rec, ok
}

func (m *Memory) SettledCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.settled)
}
