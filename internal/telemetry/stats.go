package telemetry

import (
	"encoding/json"
	"time"
)

type Stats struct {
	Period             string            `json:"period"`
	EventCounts        map[EventType]int `json:"event_counts"`
	CoinsTicked        float64           `json:"coins_ticked"`
	CoinsOffline       float64           `json:"coins_offline"`
	CoinsFromBonuses   float64           `json:"coins_from_bonuses"`
	CoinsFromSales     float64           `json:"coins_from_sales"`
	CharactersUnlocked int               `json:"characters_unlocked"`
	CharactersFused    int               `json:"characters_fused"`
	LevelUps           int               `json:"level_ups"`
	PersistenceErrors  int               `json:"persistence_errors"`
}

// CalculateStats aggregates economy events recorded since a point in time.
func CalculateStats(events []Event, since time.Time) (Stats, error) {
	stats := Stats{
		Period:      since.Format("2006-01-02"),
		EventCounts: make(map[EventType]int),
	}

	for _, event := range events {
		stats.EventCounts[event.Type]++

		var metadata EventMetadata
		if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
			continue
		}

		switch event.Type {
		case EventCoinsTicked:
			stats.CoinsTicked += metaFloat(metadata, "amount")
		case EventOfflineCredited:
			stats.CoinsOffline += metaFloat(metadata, "amount")
		case EventDailyBonusClaim:
			stats.CoinsFromBonuses += metaFloat(metadata, "amount")
		case EventCharacterSold:
			stats.CoinsFromSales += metaFloat(metadata, "price")
		case EventCharacterUnlocked:
			stats.CharactersUnlocked++
		case EventCharacterFused:
			stats.CharactersFused++
		case EventLevelUp:
			stats.LevelUps++
		case EventPersistenceFail:
			stats.PersistenceErrors++
		}
	}

	return stats, nil
}

func metaFloat(m EventMetadata, key string) float64 {
	v, ok := m[key].(float64)
	if !ok {
		return 0
	}
	return v
}
