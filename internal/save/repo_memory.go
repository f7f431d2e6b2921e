package save

import (
	"sync"

	"coinverse/internal/economy"
)

// MemoryRepo keeps a single snapshot in memory (dev/test use). The error
// fields let tests exercise the engine's degraded paths.
type MemoryRepo struct {
	mu      sync.Mutex
	state   economy.PlayerState
	present bool

	LoadErr error
	SaveErr error

	SaveCalls int
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Seed pre-populates the repo with an existing snapshot.
func (r *MemoryRepo) Seed(st economy.PlayerState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = st
	r.present = true
}

func (r *MemoryRepo) Load() (economy.PlayerState, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.LoadErr != nil {
		return economy.PlayerState{}, false, r.LoadErr
	}
	return r.state, r.present, nil
}

func (r *MemoryRepo) Save(st economy.PlayerState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.SaveCalls++
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.state = st
	r.present = true
	return nil
}

// Last returns the most recently saved snapshot.
func (r *MemoryRepo) Last() (economy.PlayerState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state, r.present
}
