package config

import (
	"time"

	"github.com/spf13/viper"
)

// SetDefaults registers default values for every configuration key. Keys
// must be registered for MAIG_ environment overrides to apply.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("game.name", "Maígreifinn")
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.funding", "personal")
	v.SetDefault("game.fill", 4)
	v.SetDefault("game.max_rounds", 0)
	v.SetDefault("game.board.file", "")
	v.SetDefault("game.board.generate", false)
	v.SetDefault("game.board.laps", 1)
	v.SetDefault("game.board.jitter", 0.15)

	v.SetDefault("rules.start_money", 1500)
	v.SetDefault("rules.lap_bonus", 200)
	v.SetDefault("rules.bail", 50)
	v.SetDefault("rules.max_hunger", 10)
	v.SetDefault("rules.hunger_penalty", 50)
	v.SetDefault("rules.storm_penalty", 50)
	v.SetDefault("rules.owner_set_size", 3)
	v.SetDefault("rules.owner_bonus", 1.5)
	v.SetDefault("rules.fate_options", 3)
	v.SetDefault("rules.log_limit", 200)

	v.SetDefault("pacing.speed", 1.0)
	v.SetDefault("pacing.think_time", 800*time.Millisecond)
	v.SetDefault("pacing.poll", 250*time.Millisecond)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.admin_key", "")
	v.SetDefault("server.rate", 5.0)
	v.SetDefault("server.burst", 10)

	v.SetDefault("database.path", "data/maigreifinn.db")
	v.SetDefault("database.save_every", 5*time.Minute)

	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.per_minute", 20)
	v.SetDefault("llm.concurrency", 2)
	v.SetDefault("llm.fates", 5)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}
