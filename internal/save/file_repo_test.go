package save

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"coinverse/internal/economy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRepo_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	repo, err := NewFileRepo(dir)
	require.NoError(t, err)

	st := economy.PlayerState{
		UnlockedCharacters: []economy.Character{
			{ID: "c1", Name: "One", CharacterLevel: 2, BaseSpeed: 1, Rarity: 3, UnlockDate: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		},
		Level:               4,
		RewardPoints:        1200,
		Coins:               321.5,
		SelectedCoinFarm:    "c1",
		LastOnline:          time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC),
		LastDailyBonus:      "2026-03-02",
		DailyBonusStreak:    5,
		ClaimedLevelRewards: []int{2, 3},
	}
	require.NoError(t, repo.Save(st))

	// A fresh repo reading the same file sees the same state.
	reread, err := NewFileRepo(dir)
	require.NoError(t, err)
	got, ok, err := reread.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, st, got)
}

func TestFileRepo_AbsentSnapshot(t *testing.T) {
	repo, err := NewFileRepo(t.TempDir())
	require.NoError(t, err)

	_, ok, err := repo.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileRepo_CorruptFileSurfacesErrorThenSaveRecovers(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "saves.json"), []byte("{not json"), 0o644))

	repo, err := NewFileRepo(dir)
	require.NoError(t, err)

	_, _, err = repo.Load()
	require.Error(t, err)

	// Writing a fresh snapshot supersedes the unreadable file.
	require.NoError(t, repo.Save(economy.PlayerState{Level: 1}))
	got, ok, err := repo.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, got.Level)
}

func TestFileRepo_ProfilesAreIsolated(t *testing.T) {
	repo, err := NewFileRepo(t.TempDir())
	require.NoError(t, err)

	alice := repo.ForProfile("alice")
	bob := repo.ForProfile("bob")

	require.NoError(t, alice.Save(economy.PlayerState{Level: 3, Coins: 10}))
	require.NoError(t, bob.Save(economy.PlayerState{Level: 7}))

	got, ok, err := alice.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, got.Level)
	assert.Equal(t, 10.0, got.Coins)

	got, ok, err = bob.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 7, got.Level)

	assert.ElementsMatch(t, []string{"alice", "bob"}, repo.Profiles())
}

func TestFileRepo_BlankProfileFallsBackToDefault(t *testing.T) {
	repo, err := NewFileRepo(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, repo.ForProfile("  ").Save(economy.PlayerState{Level: 2}))

	got, ok, err := repo.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, got.Level)
}

func TestFileRepo_PersistedKeys(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepo(dir)
	require.NoError(t, err)

	require.NoError(t, repo.Save(economy.PlayerState{
		Level:            2,
		Coins:            50,
		SelectedCoinFarm: "c1",
		LastOnline:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}))

	b, err := os.ReadFile(filepath.Join(dir, "saves.json"))
	require.NoError(t, err)

	for _, key := range []string{
		`"unlockedCharacters"`,
		`"level"`,
		`"rewardPoints"`,
		`"coins"`,
		`"selectedCoinFarm"`,
		`"lastOnline"`,
	} {
		assert.Contains(t, string(b), key)
	}
}
