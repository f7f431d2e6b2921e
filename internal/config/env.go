package config

import (
	"github.com/caarlos0/env/v11"
)

// Runtime holds process settings sourced from the environment, as opposed
// to the gameplay numbers in Balance.
type Runtime struct {
	Addr           string `env:"ADDR" envDefault:":8080"`
	DataDir        string `env:"DATA_DIR" envDefault:"data"`
	ConfigPath     string `env:"CONFIG_PATH" envDefault:"coinverse_config.yml"`
	CatalogBaseURL string `env:"CATALOG_BASE_URL" envDefault:"https://rickandmortyapi.com/api"`
	// BalancePreset selects a named preset ("generous", "grind") over the
	// config file's balance section.
	BalancePreset string `env:"BALANCE_PRESET"`
}

func LoadRuntime() (Runtime, error) {
	var rt Runtime
	if err := env.Parse(&rt); err != nil {
		return Runtime{}, err
	}
	return rt, nil
}

// BalanceFor resolves the effective balance: a preset wins over the file.
func (rt Runtime) BalanceFor(fileBalance Balance) Balance {
	switch rt.BalancePreset {
	case "generous":
		return Generous()
	case "grind":
		return Grind()
	default:
		return fileBalance
	}
}
