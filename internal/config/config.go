// Package config loads the simulator configuration from YAML with sane
// defaults for every field, so a missing file still yields a runnable
// setup.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pocketsim/pocket-sim-go/internal/game"
)

// LoggingConfig controls logger construction.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CardDBConfig points at the card database file.
type CardDBConfig struct {
	Path string `mapstructure:"path"`
}

// ReplayConfig controls replay persistence.
type ReplayConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// RulesConfig mirrors the engine rules contract in config form.
type RulesConfig struct {
	Draw struct {
		OpeningHand int `mapstructure:"opening_hand"`
		HandCap     int `mapstructure:"hand_cap"`
	} `mapstructure:"draw"`
	GoingFirst struct {
		SkipEnergyGenerationOnTurn1 bool `mapstructure:"skip_energy_generation_on_turn1"`
	} `mapstructure:"going_first"`
	Win struct {
		PointsToWin int `mapstructure:"points_to_win"`
	} `mapstructure:"win"`
	MaxTurns int `mapstructure:"max_turns"`
}

// Config is the top-level simulator configuration.
type Config struct {
	Rules   RulesConfig   `mapstructure:"rules"`
	Logging LoggingConfig `mapstructure:"logging"`
	CardDB  CardDBConfig  `mapstructure:"carddb"`
	Replay  ReplayConfig  `mapstructure:"replay"`
}

// Load reads configuration from the given path. An empty path loads
// defaults only; a named file that cannot be read is an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("rules.draw.opening_hand", 5)
	v.SetDefault("rules.draw.hand_cap", 10)
	v.SetDefault("rules.going_first.skip_energy_generation_on_turn1", true)
	v.SetDefault("rules.win.points_to_win", 3)
	v.SetDefault("rules.max_turns", game.DefaultMaxTurns)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("carddb.path", "data/cards.json")
	v.SetDefault("replay.enabled", false)
	v.SetDefault("replay.dir", "replays")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// GameRules converts the config form into the engine rules contract.
func (c *Config) GameRules() game.Rules {
	var r game.Rules
	r.Draw.OpeningHand = c.Rules.Draw.OpeningHand
	r.Draw.HandCap = c.Rules.Draw.HandCap
	r.GoingFirst.SkipEnergyGenerationOnTurn1 = c.Rules.GoingFirst.SkipEnergyGenerationOnTurn1
	r.Win.PointsToWin = c.Rules.Win.PointsToWin
	return r
}
