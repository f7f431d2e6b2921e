package economy_test

import (
	"errors"
	"io"
	"log"
	"math/rand"
	"testing"
	"time"

	"coinverse/internal/config"
	"coinverse/internal/economy"
	"coinverse/internal/save"
	"coinverse/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store  *economy.Store
	repo   *save.MemoryRepo
	clock  *economy.FakeClock
	events *telemetry.MemoryRepository
}

func newFixture(t *testing.T, seed *economy.PlayerState) *fixture {
	t.Helper()

	clock := economy.NewFakeClock(testStart)
	repo := save.NewMemoryRepo()
	if seed != nil {
		repo.Seed(*seed)
	}
	events := telemetry.NewMemoryRepository()

	store := economy.NewStore(economy.Options{
		Repo:      repo,
		Clock:     clock,
		Balance:   config.Default(),
		Logger:    log.New(io.Discard, "", 0),
		Telemetry: events,
		Rand:      rand.New(rand.NewSource(1)),
	})
	return &fixture{store: store, repo: repo, clock: clock, events: events}
}

func (f *fixture) eventTypes(t *testing.T) []telemetry.EventType {
	t.Helper()
	evs, err := f.events.GetEvents(time.Time{}, nil)
	require.NoError(t, err)
	out := make([]telemetry.EventType, 0, len(evs))
	for _, e := range evs {
		out = append(out, e.Type)
	}
	return out
}

func TestNewStore_DefaultsWhenSnapshotAbsent(t *testing.T) {
	f := newFixture(t, nil)

	st := f.store.Snapshot()
	assert.Equal(t, 1, st.Level)
	assert.Zero(t, st.Coins)
	assert.Zero(t, st.RewardPoints)
	assert.Empty(t, st.UnlockedCharacters)
	assert.Equal(t, testStart, st.LastOnline)
}

func TestNewStore_CorruptSnapshotDegradesToDefaults(t *testing.T) {
	clock := economy.NewFakeClock(testStart)
	repo := save.NewMemoryRepo()
	repo.LoadErr = errors.New("unexpected end of JSON input")
	events := telemetry.NewMemoryRepository()

	store := economy.NewStore(economy.Options{
		Repo:      repo,
		Clock:     clock,
		Logger:    log.New(io.Discard, "", 0),
		Telemetry: events,
	})

	st := store.Snapshot()
	assert.Equal(t, 1, st.Level)
	assert.Zero(t, st.Coins)

	evs, err := events.GetEvents(time.Time{}, []telemetry.EventType{telemetry.EventStateCorruption})
	require.NoError(t, err)
	assert.Len(t, evs, 1)
}

func TestNewStore_NormalizesLoadedSnapshot(t *testing.T) {
	f := newFixture(t, &economy.PlayerState{
		Level: 0,
		Coins: -20,
		UnlockedCharacters: []economy.Character{
			{ID: "c1", Name: "One"},
		},
		LastOnline: testStart,
	})

	st := f.store.Snapshot()
	assert.Equal(t, 1, st.Level)
	assert.Zero(t, st.Coins)
	require.Len(t, st.UnlockedCharacters, 1)
	assert.Equal(t, 1, st.UnlockedCharacters[0].CharacterLevel)
	assert.Equal(t, 1.0, st.UnlockedCharacters[0].BaseSpeed)
	assert.Equal(t, 1, st.UnlockedCharacters[0].Rarity)
}

func TestMutationStampsAndPersists(t *testing.T) {
	f := newFixture(t, nil)
	f.clock.Advance(5 * time.Minute)

	require.NoError(t, f.store.AddCoins(10))

	st := f.store.Snapshot()
	assert.Equal(t, 10.0, st.Coins)
	assert.Equal(t, testStart.Add(5*time.Minute), st.LastOnline)

	saved, ok := f.repo.Last()
	require.True(t, ok)
	assert.Equal(t, 10.0, saved.Coins)
	assert.Equal(t, st.LastOnline, saved.LastOnline)
}

func TestPersistenceFailureStillAppliesInMemory(t *testing.T) {
	f := newFixture(t, nil)
	f.repo.SaveErr = errors.New("disk full")

	require.NoError(t, f.store.AddCoins(5))
	assert.Equal(t, 5.0, f.store.Snapshot().Coins)

	evs, err := f.events.GetEvents(time.Time{}, []telemetry.EventType{telemetry.EventPersistenceFail})
	require.NoError(t, err)
	assert.Len(t, evs, 1)
}

func TestAddCoins_RejectsOverdraw(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.store.AddCoins(30))

	err := f.store.AddCoins(-31)
	require.ErrorIs(t, err, economy.ErrInsufficientFunds)
	assert.Equal(t, 30.0, f.store.Snapshot().Coins)

	// Negative amounts that stay solvent are a valid debit (shop flows).
	require.NoError(t, f.store.AddCoins(-30))
	assert.Zero(t, f.store.Snapshot().Coins)
}

func TestRejectedOperationDoesNotPersist(t *testing.T) {
	f := newFixture(t, nil)
	before := f.repo.SaveCalls

	err := f.store.AddCoins(-1)
	require.ErrorIs(t, err, economy.ErrInsufficientFunds)
	assert.Equal(t, before, f.repo.SaveCalls)
}

func TestSnapshotIsIsolatedFromStore(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.store.UnlockCharacter("c1", "One", "one.png"))

	snap := f.store.Snapshot()
	snap.Coins = 9999
	snap.UnlockedCharacters[0].Name = "mutated"

	st := f.store.Snapshot()
	assert.Zero(t, st.Coins)
	assert.Equal(t, "One", st.UnlockedCharacters[0].Name)
}

func TestMutationsEmitTelemetry(t *testing.T) {
	f := newFixture(t, nil)

	require.NoError(t, f.store.AddCoins(10))
	require.NoError(t, f.store.UnlockCharacter("c1", "One", ""))

	types := f.eventTypes(t)
	assert.Contains(t, types, telemetry.EventCoinsAdjusted)
	assert.Contains(t, types, telemetry.EventCharacterUnlocked)

	// A rejected operation emits nothing.
	before := len(types)
	require.Error(t, f.store.AddCoins(-999))
	assert.Len(t, f.eventTypes(t), before)
}

func TestSubscribe_ObserverSeesEachMutation(t *testing.T) {
	f := newFixture(t, nil)

	var seen []float64
	f.store.Subscribe(func(st economy.PlayerState) {
		seen = append(seen, st.Coins)
	})

	require.NoError(t, f.store.AddCoins(1))
	require.NoError(t, f.store.AddCoins(2))

	assert.Equal(t, []float64{1, 3}, seen)
}
