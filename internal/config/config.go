package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Version string  `yaml:"version" json:"version"`
	Balance Balance `yaml:"balance" json:"balance"`
}

// ApplyDefaults fills any balance field the file left at its zero value.
func (c *Config) ApplyDefaults() {
	def := Default()
	b := &c.Balance
	if b.BaseSpeed == 0 {
		b.BaseSpeed = def.BaseSpeed
	}
	if b.TickIntervalSeconds == 0 {
		b.TickIntervalSeconds = def.TickIntervalSeconds
	}
	if b.OfflineMinAwaySeconds == 0 {
		b.OfflineMinAwaySeconds = def.OfflineMinAwaySeconds
	}
	if b.OfflineMaxAwayHours == 0 {
		b.OfflineMaxAwayHours = def.OfflineMaxAwayHours
	}
	if b.OfflineRateMultiplier == 0 {
		b.OfflineRateMultiplier = def.OfflineRateMultiplier
	}
	if b.PointsPerLevel == 0 {
		b.PointsPerLevel = def.PointsPerLevel
	}
	if b.LevelRewardPerLevel == 0 {
		b.LevelRewardPerLevel = def.LevelRewardPerLevel
	}
	if b.MissionDefaultReward == 0 {
		b.MissionDefaultReward = def.MissionDefaultReward
	}
	if b.QuizDefaultReward == 0 {
		b.QuizDefaultReward = def.QuizDefaultReward
	}
	if b.RarityMin == 0 {
		b.RarityMin = def.RarityMin
	}
	if b.RarityMax == 0 {
		b.RarityMax = def.RarityMax
	}
	if b.SpeedPerLevel == 0 {
		b.SpeedPerLevel = def.SpeedPerLevel
	}
	if b.SpeedPerRarity == 0 {
		b.SpeedPerRarity = def.SpeedPerRarity
	}
	if b.UpgradeCostPerLevel == 0 {
		b.UpgradeCostPerLevel = def.UpgradeCostPerLevel
	}
	if b.SellCoinsPerLevel == 0 {
		b.SellCoinsPerLevel = def.SellCoinsPerLevel
	}
	if b.SellCoinsPerRarity == 0 {
		b.SellCoinsPerRarity = def.SellCoinsPerRarity
	}
	if b.FusionDivisor == 0 {
		b.FusionDivisor = def.FusionDivisor
	}
	if b.DailyBonusBaseCoins == 0 {
		b.DailyBonusBaseCoins = def.DailyBonusBaseCoins
	}
	if b.DailyBonusStreakStep == 0 {
		b.DailyBonusStreakStep = def.DailyBonusStreakStep
	}
	if b.DailyBonusMaxMultiplier == 0 {
		b.DailyBonusMaxMultiplier = def.DailyBonusMaxMultiplier
	}
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Config
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	r.ApplyDefaults()
	return &r, nil
}
