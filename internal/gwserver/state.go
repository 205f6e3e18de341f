package gwserver

import (
	"sync"

	"github.com/edgefn/model-gateway/internal/routes"
)

// state holds the pieces that can be swapped at runtime by a reload.
type state struct {
	mu        sync.RWMutex
	table     *routes.Table
	startedAt int64
}

func (s *state) Table() *routes.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

func (s *state) SetTable(t *routes.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = t
}

func (s *state) StartedAtUnix() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startedAt
}

func (s *state) SetStartedAtUnix(ts int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startedAt = ts
}
