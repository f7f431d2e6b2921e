package economy

import (
	"fmt"
	"math"

	"coinverse/internal/telemetry"
)

// UnlockCharacter adds a catalog character to the collection with a
// uniformly random rarity. Unlocking an already-owned id is a no-op.
func (s *Store) UnlockCharacter(id, name, image string) error {
	unlocked := false
	rarity := 0
	err := s.mutate(func(st PlayerState) (PlayerState, error) {
		if st.characterIndex(id) >= 0 {
			return st, errNoChange
		}
		rarity = s.bal.RarityMin + s.rng.Intn(s.bal.RarityMax-s.bal.RarityMin+1)
		st.UnlockedCharacters = append(st.UnlockedCharacters, Character{
			ID:             id,
			Name:           name,
			Image:          image,
			CharacterLevel: 1,
			BaseSpeed:      1,
			Rarity:         rarity,
			UnlockDate:     s.clock.Now(),
		})
		unlocked = true
		return st, nil
	})
	if err == nil && unlocked {
		s.record(telemetry.EventCharacterUnlocked, telemetry.EventMetadata{
			"id":     id,
			"rarity": rarity,
		})
	}
	return err
}

// UpgradeCharacter raises a character's level for coins. The cost scales
// linearly with the current level.
func (s *Store) UpgradeCharacter(id string) error {
	newLevel := 0
	err := s.mutate(func(st PlayerState) (PlayerState, error) {
		i := st.characterIndex(id)
		if i < 0 {
			return st, ErrNotFound
		}
		cost := float64(s.bal.UpgradeCostPerLevel * st.UnlockedCharacters[i].CharacterLevel)
		if st.Coins < cost {
			return st, ErrInsufficientFunds
		}
		st.Coins -= cost
		st.UnlockedCharacters[i].CharacterLevel++
		newLevel = st.UnlockedCharacters[i].CharacterLevel
		return st, nil
	})
	if err == nil {
		s.record(telemetry.EventCharacterUpgraded, telemetry.EventMetadata{
			"id":    id,
			"level": newLevel,
		})
	}
	return err
}

// SelectIncomeSource designates the passive income character. The id is
// not validated against the collection: a dangling reference is permitted
// and simply contributes zero speed. An empty id clears the selection.
func (s *Store) SelectIncomeSource(id string) error {
	changed := false
	err := s.mutate(func(st PlayerState) (PlayerState, error) {
		if st.SelectedCoinFarm == id {
			return st, errNoChange
		}
		st.SelectedCoinFarm = id
		changed = true
		return st, nil
	})
	if err == nil && changed {
		s.record(telemetry.EventIncomeSourceSet, telemetry.EventMetadata{"id": id})
	}
	return err
}

// FuseCharacters consumes two unlocked characters and appends a synthetic
// child with combined stats, all in one transition.
func (s *Store) FuseCharacters(firstID, secondID string) (Character, error) {
	var child Character
	err := s.mutate(func(st PlayerState) (PlayerState, error) {
		if firstID == secondID {
			return st, ErrNotFound
		}
		i1 := st.characterIndex(firstID)
		i2 := st.characterIndex(secondID)
		if i1 < 0 || i2 < 0 {
			return st, ErrNotFound
		}
		p1 := st.UnlockedCharacters[i1]
		p2 := st.UnlockedCharacters[i2]

		now := s.clock.Now()
		level := p1.CharacterLevel
		if p2.CharacterLevel > level {
			level = p2.CharacterLevel
		}
		rarity := int(math.Ceil(float64(p1.Rarity+p2.Rarity) / s.bal.FusionDivisor))
		if rarity > s.bal.RarityMax {
			rarity = s.bal.RarityMax
		}

		child = Character{
			ID:             fmt.Sprintf("fusion-%d", now.UnixMilli()),
			Name:           fmt.Sprintf("Fusion: %s & %s", p1.Name, p2.Name),
			Image:          p1.Image,
			CharacterLevel: level + 1,
			BaseSpeed:      (p1.BaseSpeed + p2.BaseSpeed) / s.bal.FusionDivisor,
			Rarity:         rarity,
			UnlockDate:     now,
			IsFusion:       true,
			Parents:        []string{firstID, secondID},
		}

		kept := make([]Character, 0, len(st.UnlockedCharacters)-1)
		for _, c := range st.UnlockedCharacters {
			if c.ID == firstID || c.ID == secondID {
				continue
			}
			kept = append(kept, c)
		}
		st.UnlockedCharacters = append(kept, child)
		return st, nil
	})
	if err != nil {
		return Character{}, err
	}
	s.record(telemetry.EventCharacterFused, telemetry.EventMetadata{
		"id":      child.ID,
		"parents": []string{firstID, secondID},
		"rarity":  child.Rarity,
	})
	return child, nil
}

// SellCharacter removes a character and credits its sale price. The
// active income source is protected and cannot be sold.
func (s *Store) SellCharacter(id string) (float64, error) {
	var price float64
	err := s.mutate(func(st PlayerState) (PlayerState, error) {
		i := st.characterIndex(id)
		if i < 0 {
			return st, ErrNotFound
		}
		if st.SelectedCoinFarm == id {
			return st, ErrProtectedAsset
		}
		c := st.UnlockedCharacters[i]
		price = float64(c.CharacterLevel*s.bal.SellCoinsPerLevel + c.Rarity*s.bal.SellCoinsPerRarity)
		st.Coins += price
		st.UnlockedCharacters = append(st.UnlockedCharacters[:i], st.UnlockedCharacters[i+1:]...)
		return st, nil
	})
	if err != nil {
		return 0, err
	}
	s.record(telemetry.EventCharacterSold, telemetry.EventMetadata{
		"id":    id,
		"price": price,
	})
	return price, nil
}
