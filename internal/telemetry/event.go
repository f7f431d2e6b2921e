package telemetry

import "time"

type EventType string

const (
	EventCoinsTicked       EventType = "coins_ticked"
	EventOfflineCredited   EventType = "offline_credited"
	EventCoinsAdjusted     EventType = "coins_adjusted"
	EventCharacterUnlocked EventType = "character_unlocked"
	EventCharacterUpgraded EventType = "character_upgraded"
	EventCharacterFused    EventType = "character_fused"
	EventCharacterSold     EventType = "character_sold"
	EventIncomeSourceSet   EventType = "income_source_set"
	EventLevelUp           EventType = "level_up"
	EventLevelRewardClaim  EventType = "level_reward_claimed"
	EventDailyBonusClaim   EventType = "daily_bonus_claimed"
	EventPersistenceFail   EventType = "persistence_failure"
	EventStateCorruption   EventType = "state_corruption"
)

type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}

// Recorder is the sink the engine reports into.
type Recorder interface {
	RecordEvent(eventType EventType, metadata EventMetadata) error
}
