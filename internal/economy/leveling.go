package economy

import (
	"coinverse/internal/telemetry"
)

// AddRewardPoints credits reward points and advances the level by at most
// one step when the threshold (level * points-per-level) is met. Points
// are never consumed by leveling; the threshold is cumulative.
//
// A single call advances exactly one level even if the accumulated points
// would justify more; the surplus catches up on later calls.
func (s *Store) AddRewardPoints(points int) error {
	leveled := 0
	err := s.mutate(func(st PlayerState) (PlayerState, error) {
		if points <= 0 {
			return st, errNoChange
		}
		st.RewardPoints += points
		if st.RewardPoints >= st.Level*s.bal.PointsPerLevel {
			st.Level++
			leveled = st.Level
		}
		return st, nil
	})
	if err == nil && leveled > 0 {
		s.record(telemetry.EventLevelUp, telemetry.EventMetadata{"level": leveled})
	}
	return err
}

// CompleteMission awards mission reward points; reward <= 0 means the
// configured default.
func (s *Store) CompleteMission(reward int) error {
	if reward <= 0 {
		reward = s.bal.MissionDefaultReward
	}
	return s.AddRewardPoints(reward)
}

// AnswerQuizCorrectly awards quiz reward points; reward <= 0 means the
// configured default.
func (s *Store) AnswerQuizCorrectly(reward int) error {
	if reward <= 0 {
		reward = s.bal.QuizDefaultReward
	}
	return s.AddRewardPoints(reward)
}

// ClaimLevelUpReward credits the one-time coin reward for a reached level.
// Each level's reward can be claimed at most once, ever.
func (s *Store) ClaimLevelUpReward(targetLevel int) (float64, error) {
	var credited float64
	err := s.mutate(func(st PlayerState) (PlayerState, error) {
		if targetLevel < 1 || st.Level < targetLevel {
			return st, ErrLevelNotReached
		}
		if st.hasClaimedLevelReward(targetLevel) {
			return st, ErrAlreadyClaimed
		}
		credited = float64(targetLevel * s.bal.LevelRewardPerLevel)
		st.Coins += credited
		st.ClaimedLevelRewards = append(st.ClaimedLevelRewards, targetLevel)
		return st, nil
	})
	if err != nil {
		return 0, err
	}
	s.record(telemetry.EventLevelRewardClaim, telemetry.EventMetadata{
		"level":  targetLevel,
		"amount": credited,
	})
	return credited, nil
}
