package config

import (
	"github.com/beldeveloper/go-errors-context"
	"github.com/spf13/viper"
)

// Server holds the puppet API server settings.
type Server struct {
	URL               string  `mapstructure:"url"`
	ReconnectCooldown float64 `mapstructure:"reconnect_cooldown"` // seconds
}

// PlayerInfo holds the credentials of one puppet.
type PlayerInfo struct {
	Server   string `mapstructure:"server"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// ServiceFlag is an on/off switch for a per-puppet service.
type ServiceFlag struct {
	Enabled bool `mapstructure:"enabled"`
}

// PlayerServices holds the per-puppet service switches.
type PlayerServices struct {
	AttackListener ServiceFlag `mapstructure:"attack_listener"`
	// StormSearcher is accepted in the config file but no service implements it yet.
	StormSearcher ServiceFlag `mapstructure:"storm_searcher"`
}

// Player is one puppet entry: credentials, enabled services and the guilds allowed to see it.
type Player struct {
	Info       PlayerInfo     `mapstructure:"info"`
	Services   PlayerServices `mapstructure:"services"`
	Visibility []int64        `mapstructure:"visibility"` // guild ids
}

// AttackListener holds the polling settings of the attack listener service.
type AttackListener struct {
	RequestCooldown float64 `mapstructure:"request_cooldown"` // seconds
	RequestTimeout  float64 `mapstructure:"request_timeout"`  // seconds
}

// Logging holds the log settings.
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GuildChannel registers a guild together with its configuration channel.
type GuildChannel struct {
	GuildID       int64 `mapstructure:"guild_id"`
	ConfigChannel int64 `mapstructure:"config_channel"`
}

// Discord holds the guild registry.
type Discord struct {
	Guilds []GuildChannel `mapstructure:"guilds"`
}

// Config is the application configuration loaded from the config file.
type Config struct {
	Server         Server         `mapstructure:"server"`
	Players        []Player       `mapstructure:"players"`
	AttackListener AttackListener `mapstructure:"attack_listener"`
	Logging        Logging        `mapstructure:"logging"`
	Discord        Discord        `mapstructure:"discord"`
}

// Load reads and decodes the configuration file at the given path.
func Load(path string) (Config, error) {
	var cfg Config
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	err := v.ReadInConfig()
	if err != nil {
		return cfg, errors.WrapContext(err, errors.Context{
			Path:   "config.Load.ReadInConfig",
			Params: errors.Params{"file": path},
		})
	}
	err = v.Unmarshal(&cfg)
	return cfg, errors.WrapContext(err, errors.Context{
		Path:   "config.Load.Unmarshal",
		Params: errors.Params{"file": path},
	})
}
