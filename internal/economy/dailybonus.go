package economy

import (
	"coinverse/internal/telemetry"
)

// DailyBonusResult reports the outcome of a successful claim.
type DailyBonusResult struct {
	Streak int     `json:"streak"`
	Coins  float64 `json:"coins"`
}

// ClaimDailyBonus claims the once-per-calendar-day bonus. A claim on the
// day after the previous one extends the streak; any other gap resets it
// to 1. The bonus multiplier grows one step per full streak period and
// caps out, so short streaks can pay nothing.
func (s *Store) ClaimDailyBonus() (DailyBonusResult, error) {
	var res DailyBonusResult
	err := s.mutate(func(st PlayerState) (PlayerState, error) {
		now := s.clock.Now()
		today := now.Format(dateLayout)
		yesterday := now.AddDate(0, 0, -1).Format(dateLayout)

		if st.LastDailyBonus == today {
			return st, ErrAlreadyClaimedToday
		}

		streak := 1
		if st.LastDailyBonus == yesterday {
			streak = st.DailyBonusStreak + 1
		}

		mult := streak / s.bal.DailyBonusStreakStep
		if mult > s.bal.DailyBonusMaxMultiplier {
			mult = s.bal.DailyBonusMaxMultiplier
		}
		coins := float64(s.bal.DailyBonusBaseCoins * mult)

		st.Coins += coins
		st.LastDailyBonus = today
		st.DailyBonusStreak = streak

		res = DailyBonusResult{Streak: streak, Coins: coins}
		return st, nil
	})
	if err != nil {
		return DailyBonusResult{}, err
	}
	s.record(telemetry.EventDailyBonusClaim, telemetry.EventMetadata{
		"streak": res.Streak,
		"amount": res.Coins,
	})
	return res, nil
}
