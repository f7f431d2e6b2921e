package economy

import (
	"context"
	"log"
	"sync"
	"time"
)

// Scheduler owns the engine's two time-driven effects: the recurring
// passive-income tick and the one-shot offline reconciliation at start-up.
// Exactly one ticker is armed at a time; a generation-rate change re-arms
// it instead of stacking a second one.
type Scheduler struct {
	store    *Store
	interval time.Duration
	logger   *log.Logger

	mu       sync.Mutex
	lastRate float64
	cancel   context.CancelFunc
	done     chan struct{}

	rearm chan struct{}
}

func NewScheduler(store *Store, interval time.Duration, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		store:    store,
		interval: interval,
		logger:   logger,
		rearm:    make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Start reconciles offline time, then arms the income ticker. Offline
// reconciliation completes before the first tick can fire, so a live tick
// can never observe a stale LastOnline.
func (s *Scheduler) Start(ctx context.Context) {
	if credited, err := s.store.ReconcileOffline(); err != nil {
		s.logger.Printf("scheduler: offline reconciliation failed: %v", err)
	} else if credited > 0 {
		s.logger.Printf("scheduler: credited %.0f offline coins", credited)
	}

	s.mu.Lock()
	s.lastRate = s.store.GenerationRate()
	s.mu.Unlock()

	s.store.Subscribe(func(st PlayerState) {
		rate := s.store.RateFor(st)
		s.mu.Lock()
		changed := rate != s.lastRate
		s.lastRate = rate
		s.mu.Unlock()
		if changed {
			select {
			case s.rearm <- struct{}{}:
			default:
			}
		}
	})

	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.rearm:
			// Cancel-and-reschedule: the new rate takes effect on the next
			// tick without a second ticker ever existing.
			ticker.Reset(s.interval)
		case <-ticker.C:
			if err := s.store.TickIncome(); err != nil {
				s.logger.Printf("scheduler: income tick failed: %v", err)
			}
		}
	}
}

// Stop tears the ticker down and waits for the loop to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-s.done
}
