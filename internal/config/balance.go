package config

// Balance holds the economy tuning numbers.
type Balance struct {
	// Passive income
	BaseSpeed           float64 `yaml:"base_speed" json:"base_speed"`
	TickIntervalSeconds int     `yaml:"tick_interval_seconds" json:"tick_interval_seconds"`

	// Offline accrual
	OfflineMinAwaySeconds int     `yaml:"offline_min_away_seconds" json:"offline_min_away_seconds"`
	OfflineMaxAwayHours   int     `yaml:"offline_max_away_hours" json:"offline_max_away_hours"`
	OfflineRateMultiplier float64 `yaml:"offline_rate_multiplier" json:"offline_rate_multiplier"`

	// Leveling
	PointsPerLevel       int `yaml:"points_per_level" json:"points_per_level"`
	LevelRewardPerLevel  int `yaml:"level_reward_per_level" json:"level_reward_per_level"`
	MissionDefaultReward int `yaml:"mission_default_reward" json:"mission_default_reward"`
	QuizDefaultReward    int `yaml:"quiz_default_reward" json:"quiz_default_reward"`

	// Characters
	RarityMin           int     `yaml:"rarity_min" json:"rarity_min"`
	RarityMax           int     `yaml:"rarity_max" json:"rarity_max"`
	SpeedPerLevel       float64 `yaml:"speed_per_level" json:"speed_per_level"`
	SpeedPerRarity      float64 `yaml:"speed_per_rarity" json:"speed_per_rarity"`
	UpgradeCostPerLevel int     `yaml:"upgrade_cost_per_level" json:"upgrade_cost_per_level"`
	SellCoinsPerLevel   int     `yaml:"sell_coins_per_level" json:"sell_coins_per_level"`
	SellCoinsPerRarity  int     `yaml:"sell_coins_per_rarity" json:"sell_coins_per_rarity"`
	FusionDivisor       float64 `yaml:"fusion_divisor" json:"fusion_divisor"`

	// Daily bonus
	DailyBonusBaseCoins     int `yaml:"daily_bonus_base_coins" json:"daily_bonus_base_coins"`
	DailyBonusStreakStep    int `yaml:"daily_bonus_streak_step" json:"daily_bonus_streak_step"`
	DailyBonusMaxMultiplier int `yaml:"daily_bonus_max_multiplier" json:"daily_bonus_max_multiplier"`
}

// Default returns the canonical balance.
func Default() Balance {
	return Balance{
		BaseSpeed:               1,
		TickIntervalSeconds:     60,
		OfflineMinAwaySeconds:   10,
		OfflineMaxAwayHours:     24,
		OfflineRateMultiplier:   0.5,
		PointsPerLevel:          500,
		LevelRewardPerLevel:     200,
		MissionDefaultReward:    100,
		QuizDefaultReward:       50,
		RarityMin:               1,
		RarityMax:               5,
		SpeedPerLevel:           0.5,
		SpeedPerRarity:          0.5,
		UpgradeCostPerLevel:     100,
		SellCoinsPerLevel:       50,
		SellCoinsPerRarity:      100,
		FusionDivisor:           1.5,
		DailyBonusBaseCoins:     50,
		DailyBonusStreakStep:    3,
		DailyBonusMaxMultiplier: 3,
	}
}

// Generous is a faster-progression preset for demos and playtesting.
func Generous() Balance {
	cfg := Default()
	cfg.TickIntervalSeconds = 15
	cfg.OfflineRateMultiplier = 1
	cfg.MissionDefaultReward = 250
	cfg.DailyBonusBaseCoins = 100
	return cfg
}

// Grind is a slower preset for long-running profiles.
func Grind() Balance {
	cfg := Default()
	cfg.OfflineMaxAwayHours = 12
	cfg.PointsPerLevel = 750
	cfg.UpgradeCostPerLevel = 150
	return cfg
}
