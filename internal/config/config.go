// Package config loads harbor server and game settings from a yaml file,
// MAIG_ environment variables and a .env file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the main configuration struct combining all sub-configs.
type Config struct {
	Game     GameConfig     `mapstructure:"game"`
	Rules    RulesConfig    `mapstructure:"rules"`
	Pacing   PacingConfig   `mapstructure:"pacing"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// GameConfig describes the table: who sits at it and what board it uses.
type GameConfig struct {
	Name    string       `mapstructure:"name" validate:"required"`
	Seed    int64        `mapstructure:"seed"` // 0 draws a seed from crypto/rand
	Funding string       `mapstructure:"funding" validate:"oneof=personal company"`
	Players []SeatConfig `mapstructure:"players" validate:"dive"`

	// Fill adds autonomous skippers until the table has this many seats.
	Fill int `mapstructure:"fill" validate:"min=0,max=8"`

	// MaxRounds stops autoplay after this many rounds; 0 plays to the end.
	MaxRounds int `mapstructure:"max_rounds" validate:"min=0"`

	Board BoardConfig `mapstructure:"board"`
}

// SeatConfig is one configured player.
type SeatConfig struct {
	Name       string `mapstructure:"name" validate:"required"`
	Archetype  string `mapstructure:"archetype" validate:"omitempty,oneof=aggressive conservative balanced passive"`
	Autonomous bool   `mapstructure:"autonomous"`
	Company    string `mapstructure:"company"` // Used when funding is company
}

// BoardConfig selects the board: a yaml file, a generated track, or the
// default harbor.
type BoardConfig struct {
	File     string  `mapstructure:"file"`
	Generate bool    `mapstructure:"generate"`
	Laps     int     `mapstructure:"laps" validate:"min=1,max=5"`
	Jitter   float64 `mapstructure:"jitter" validate:"min=0,max=1"`
}

// RulesConfig overrides game constants.
type RulesConfig struct {
	StartMoney    int     `mapstructure:"start_money" validate:"gt=0"`
	LapBonus      int     `mapstructure:"lap_bonus" validate:"min=0"`
	Bail          int     `mapstructure:"bail" validate:"min=0"`
	MaxHunger     int     `mapstructure:"max_hunger" validate:"gt=0"`
	HungerPenalty int     `mapstructure:"hunger_penalty" validate:"min=0"`
	StormPenalty  int     `mapstructure:"storm_penalty" validate:"min=0"`
	OwnerSetSize  int     `mapstructure:"owner_set_size" validate:"gt=0"`
	OwnerBonus    float64 `mapstructure:"owner_bonus" validate:"gte=1"`
	FateOptions   int     `mapstructure:"fate_options" validate:"min=1,max=5"`
	LogLimit      int     `mapstructure:"log_limit" validate:"gt=0"`
}

// PacingConfig controls cosmetic delays between autonomous actions.
type PacingConfig struct {
	Speed     float64       `mapstructure:"speed" validate:"gte=0"` // 0 disables delays
	ThinkTime time.Duration `mapstructure:"think_time"`
	Poll      time.Duration `mapstructure:"poll"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr     string  `mapstructure:"addr" validate:"required"`
	AdminKey string  `mapstructure:"admin_key"`
	Rate     float64 `mapstructure:"rate" validate:"gt=0"` // Commands per second per client
	Burst    int     `mapstructure:"burst" validate:"gt=0"`
}

// DatabaseConfig locates the SQLite file.
type DatabaseConfig struct {
	Path      string        `mapstructure:"path" validate:"required"`
	SaveEvery time.Duration `mapstructure:"save_every"` // 0 saves only on shutdown and on request
}

// LLMConfig configures flavor content generation.
type LLMConfig struct {
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	PerMinute   int    `mapstructure:"per_minute" validate:"gt=0"`
	Concurrency int    `mapstructure:"concurrency" validate:"gt=0"`
	Fates       int    `mapstructure:"fates" validate:"min=0"` // Generated fate outcomes requested at startup
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// Seats returns the total number of seats at the table.
func (g GameConfig) Seats() int {
	if g.Fill > len(g.Players) {
		return g.Fill
	}
	return len(g.Players)
}

// Load reads configuration with priority:
// 1. Environment variables (MAIG_ prefix, highest priority)
// 2. Config file
// 3. Defaults
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists.
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("maigreifinn")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix("MAIG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// The Anthropic key is commonly exported without our prefix.
	if v.GetString("llm.api_key") == "" {
		if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
			v.Set("llm.api_key", key)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}
