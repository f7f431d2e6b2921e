package economy

import (
	"time"
)

// Character is a collectible owned by the player once unlocked. Stats that
// can be derived (effective speed) are never stored.
type Character struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Image          string    `json:"image"`
	CharacterLevel int       `json:"characterLevel"`
	BaseSpeed      float64   `json:"baseSpeed"`
	Rarity         int       `json:"rarity"`
	UnlockDate     time.Time `json:"unlockDate"`
	IsFusion       bool      `json:"isFusion,omitempty"`
	Parents        []string  `json:"parents,omitempty"`
}

// PlayerState is the root aggregate. It is owned exclusively by the Store;
// callers only ever see clones.
type PlayerState struct {
	UnlockedCharacters []Character `json:"unlockedCharacters"`
	Level              int         `json:"level"`
	RewardPoints       int         `json:"rewardPoints"`
	Coins              float64     `json:"coins"`
	// SelectedCoinFarm is the id of the character designated as the passive
	// income source. Empty means none. A dangling id (character no longer
	// unlocked) is tolerated and contributes nothing.
	SelectedCoinFarm    string    `json:"selectedCoinFarm,omitempty"`
	LastOnline          time.Time `json:"lastOnline"`
	LastDailyBonus      string    `json:"lastDailyBonus,omitempty"`
	DailyBonusStreak    int       `json:"dailyBonusStreak"`
	ClaimedLevelRewards []int     `json:"claimedLevelRewards"`
}

const dateLayout = "2006-01-02"

func defaultState(now time.Time) PlayerState {
	return PlayerState{
		UnlockedCharacters:  []Character{},
		Level:               1,
		RewardPoints:        0,
		Coins:               0,
		LastOnline:          now,
		ClaimedLevelRewards: []int{},
	}
}

// normalizeState repairs a loaded snapshot so the rest of the engine never
// has to deal with zero values that violate the model.
func normalizeState(s PlayerState, now time.Time) PlayerState {
	out := s
	if out.Level < 1 {
		out.Level = 1
	}
	if out.RewardPoints < 0 {
		out.RewardPoints = 0
	}
	if out.Coins < 0 {
		out.Coins = 0
	}
	if out.DailyBonusStreak < 0 {
		out.DailyBonusStreak = 0
	}
	if out.LastOnline.IsZero() {
		out.LastOnline = now
	}
	if out.UnlockedCharacters == nil {
		out.UnlockedCharacters = []Character{}
	}
	if out.ClaimedLevelRewards == nil {
		out.ClaimedLevelRewards = []int{}
	}
	for i := range out.UnlockedCharacters {
		c := &out.UnlockedCharacters[i]
		if c.CharacterLevel < 1 {
			c.CharacterLevel = 1
		}
		if c.BaseSpeed <= 0 {
			c.BaseSpeed = 1
		}
		if c.Rarity < 1 {
			c.Rarity = 1
		}
	}
	return out
}

func cloneState(s PlayerState) PlayerState {
	out := s
	out.UnlockedCharacters = make([]Character, len(s.UnlockedCharacters))
	copy(out.UnlockedCharacters, s.UnlockedCharacters)
	for i := range out.UnlockedCharacters {
		if p := out.UnlockedCharacters[i].Parents; p != nil {
			out.UnlockedCharacters[i].Parents = append([]string{}, p...)
		}
	}
	out.ClaimedLevelRewards = append([]int{}, s.ClaimedLevelRewards...)
	return out
}

func (s PlayerState) characterIndex(id string) int {
	for i := range s.UnlockedCharacters {
		if s.UnlockedCharacters[i].ID == id {
			return i
		}
	}
	return -1
}

func (s PlayerState) hasClaimedLevelReward(level int) bool {
	for _, l := range s.ClaimedLevelRewards {
		if l == level {
			return true
		}
	}
	return false
}
