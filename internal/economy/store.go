package economy

import (
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"coinverse/internal/config"
	"coinverse/internal/telemetry"
)

// Repository is the persistence port. Load reports absence via its second
// return; Save is best-effort and must not be relied on for correctness.
type Repository interface {
	Load() (PlayerState, bool, error)
	Save(PlayerState) error
}

type Options struct {
	Repo      Repository
	Clock     Clock
	Balance   config.Balance
	Logger    *log.Logger
	Telemetry telemetry.Recorder
	Rand      *rand.Rand
}

// Store owns the canonical PlayerState. Every mutation funnels through
// mutate, which applies a full-state transition, stamps LastOnline,
// persists and publishes — or leaves the state untouched on rejection.
type Store struct {
	mu        sync.Mutex
	state     PlayerState
	repo      Repository
	clock     Clock
	bal       config.Balance
	logger    *log.Logger
	events    telemetry.Recorder
	rng       *rand.Rand
	observers []func(PlayerState)

	reconciled bool
}

func NewStore(opts Options) *Store {
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Balance == (config.Balance{}) {
		opts.Balance = config.Default()
	}

	s := &Store{
		repo:   opts.Repo,
		clock:  opts.Clock,
		bal:    opts.Balance,
		logger: opts.Logger,
		events: opts.Telemetry,
		rng:    opts.Rand,
	}

	now := s.clock.Now()
	s.state = defaultState(now)

	if s.repo != nil {
		loaded, ok, err := s.repo.Load()
		switch {
		case err != nil:
			// Corrupt snapshots degrade to defaults; this is recoverable.
			s.logger.Printf("economy: discarding unreadable snapshot: %v", err)
			s.record(telemetry.EventStateCorruption, telemetry.EventMetadata{
				"error": err.Error(),
			})
		case ok:
			s.state = normalizeState(loaded, now)
		}
	}

	return s
}

// Snapshot returns a copy of the current state. Callers never observe a
// partially applied transition.
func (s *Store) Snapshot() PlayerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

// Subscribe registers an observer called with the new snapshot after every
// applied mutation. Observers run inside the mutation critical section and
// must not call back into the Store; use RateFor on the snapshot instead.
func (s *Store) Subscribe(fn func(PlayerState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

type transition func(PlayerState) (PlayerState, error)

func (s *Store) mutate(fn transition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(cloneState(s.state))
	if errors.Is(err, errNoChange) {
		return nil
	}
	if err != nil {
		return err
	}

	next.LastOnline = s.clock.Now()
	s.state = next

	// In-memory state advances even when the write fails: availability
	// over durability. The failure is still reported.
	if s.repo != nil {
		if err := s.repo.Save(cloneState(next)); err != nil {
			s.logger.Printf("economy: persist failed: %v", err)
			s.record(telemetry.EventPersistenceFail, telemetry.EventMetadata{
				"error": err.Error(),
			})
		}
	}

	snap := cloneState(next)
	for _, obs := range s.observers {
		obs(snap)
	}
	return nil
}

func (s *Store) record(t telemetry.EventType, meta telemetry.EventMetadata) {
	if s.events == nil {
		return
	}
	if err := s.events.RecordEvent(t, meta); err != nil {
		s.logger.Printf("economy: telemetry record failed: %v", err)
	}
}

// AddCoins credits or, with a negative amount, debits coins directly.
// A debit that would drive the balance negative is rejected.
func (s *Store) AddCoins(amount float64) error {
	err := s.mutate(func(st PlayerState) (PlayerState, error) {
		if amount == 0 {
			return st, errNoChange
		}
		if st.Coins+amount < 0 {
			return st, ErrInsufficientFunds
		}
		st.Coins += amount
		return st, nil
	})
	if err == nil && amount != 0 {
		s.record(telemetry.EventCoinsAdjusted, telemetry.EventMetadata{"amount": amount})
	}
	return err
}
