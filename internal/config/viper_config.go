package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration using Viper
// Priority order: Environment variables > Config file > Defaults
func LoadConfig(configPath string) (*ServerConfig, error) {
	v := viper.New()

	v.SetConfigName("server")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/spyfall")
	}

	// SPYFALL_SERVER_PORT, SPYFALL_GAME_ROUNDDURATION, ...
	v.SetEnvPrefix("spyfall")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// The bare names work too
	v.BindEnv("server.port", "SPYFALL_SERVER_PORT", "PORT")
	v.BindEnv("server.host", "SPYFALL_SERVER_HOST", "HOST")
	v.BindEnv("server.loglevel", "SPYFALL_SERVER_LOGLEVEL", "LOG_LEVEL")
	v.BindEnv("server.logformat", "SPYFALL_SERVER_LOGFORMAT", "LOG_FORMAT")
	v.BindEnv("server.ratelimit", "SPYFALL_SERVER_RATELIMIT", "RATE_LIMIT")
	v.BindEnv("server.ratelimitburst", "SPYFALL_SERVER_RATELIMITBURST", "RATE_LIMIT_BURST")
	v.BindEnv("server.maxrequestsize", "SPYFALL_SERVER_MAXREQUESTSIZE", "MAX_REQUEST_SIZE")
	v.BindEnv("server.catalogpath", "SPYFALL_SERVER_CATALOGPATH", "CATALOG_PATH")

	setDefaults(v)

	// The config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &ServerConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("server.readtimeout", d.Server.ReadTimeout)
	v.SetDefault("server.writetimeout", d.Server.WriteTimeout)
	v.SetDefault("server.idletimeout", d.Server.IdleTimeout) // 0 for SSE support
	v.SetDefault("server.shutdowntimeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.requesttimeout", d.Server.RequestTimeout)

	v.SetDefault("server.ratelimit", d.Server.RateLimit)
	v.SetDefault("server.ratelimitburst", d.Server.RateLimitBurst)
	v.SetDefault("server.maxrequestsize", d.Server.MaxRequestSize)

	v.SetDefault("server.tabletimeout", d.Server.TableTimeout)
	v.SetDefault("server.sweepinterval", d.Server.SweepInterval)

	v.SetDefault("server.loglevel", d.Server.LogLevel)
	v.SetDefault("server.logformat", d.Server.LogFormat)
	v.SetDefault("server.catalogpath", "")

	v.SetDefault("game.minplayers", d.Game.MinPlayers)
	v.SetDefault("game.maxplayers", d.Game.MaxPlayers)
	v.SetDefault("game.roundduration", d.Game.RoundDuration)
	v.SetDefault("game.revealgrace", d.Game.RevealGrace)
}
