package economy

import (
	"math"
	"time"

	"coinverse/internal/config"
	"coinverse/internal/telemetry"
)

// effectiveSpeed is always derived, never stored.
func effectiveSpeed(b config.Balance, c Character) float64 {
	return c.BaseSpeed +
		float64(c.CharacterLevel-1)*b.SpeedPerLevel +
		float64(c.Rarity-1)*b.SpeedPerRarity
}

// generationRate is the coins-per-tick rate: the base speed plus the
// selected income source's effective speed. A dangling selection (the id
// is no longer unlocked) contributes nothing.
func generationRate(b config.Balance, s PlayerState) float64 {
	g := b.BaseSpeed
	if s.SelectedCoinFarm != "" {
		if i := s.characterIndex(s.SelectedCoinFarm); i >= 0 {
			g += effectiveSpeed(b, s.UnlockedCharacters[i])
		}
	}
	return g
}

// EffectiveSpeed reports a character's coin-generation contribution.
func (s *Store) EffectiveSpeed(c Character) float64 {
	return effectiveSpeed(s.bal, c)
}

// GenerationRate reports the current live income rate.
func (s *Store) GenerationRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return generationRate(s.bal, s.state)
}

// RateFor computes the rate for a snapshot without touching the Store's
// lock. Observers use this from inside the mutation critical section.
func (s *Store) RateFor(st PlayerState) float64 {
	return generationRate(s.bal, st)
}

// TickIncome credits one live tick of passive income.
func (s *Store) TickIncome() error {
	var credited float64
	err := s.mutate(func(st PlayerState) (PlayerState, error) {
		credited = generationRate(s.bal, st)
		if credited <= 0 {
			return st, errNoChange
		}
		st.Coins += credited
		return st, nil
	})
	if err == nil && credited > 0 {
		s.record(telemetry.EventCoinsTicked, telemetry.EventMetadata{"amount": credited})
	}
	return err
}

// ReconcileOffline credits coins for the time elapsed since the last
// persisted session, at half the live rate. It runs at most once per
// Store lifetime and skips quick reloads entirely. The elapsed window is
// clamped so a long absence cannot mint unbounded coins.
func (s *Store) ReconcileOffline() (float64, error) {
	minAway := time.Duration(s.bal.OfflineMinAwaySeconds) * time.Second
	maxAway := time.Duration(s.bal.OfflineMaxAwayHours) * time.Hour

	var credited float64
	var away time.Duration
	err := s.mutate(func(st PlayerState) (PlayerState, error) {
		if s.reconciled {
			return st, errNoChange
		}
		s.reconciled = true

		away = s.clock.Now().Sub(st.LastOnline)
		if away < minAway {
			return st, errNoChange
		}
		if away > maxAway {
			away = maxAway
		}

		minutes := away.Minutes()
		credited = math.Floor(minutes * generationRate(s.bal, st) * s.bal.OfflineRateMultiplier)
		if credited <= 0 {
			return st, errNoChange
		}
		st.Coins += credited
		return st, nil
	})
	if err != nil {
		return 0, err
	}
	if credited > 0 {
		s.record(telemetry.EventOfflineCredited, telemetry.EventMetadata{
			"amount":       credited,
			"away_minutes": away.Minutes(),
		})
	}
	return credited, nil
}
