package config

import (
	"fmt"
	"time"

	"spyfall/internal/game"
)

// This file defines the configuration structures used by viper_config.go
// The actual loading is handled by viper in viper_config.go

// ServerConfig represents the server configuration
type ServerConfig struct {
	Server ServerSettings `yaml:"server"`
	Game   GameSettings   `yaml:"game"`
}

// ServerSettings contains server-wide settings
type ServerSettings struct {
	Port            string        `yaml:"port"`
	Host            string        `yaml:"host"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"` // 0 for SSE support
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	RequestTimeout  time.Duration `yaml:"requestTimeout"` // Timeout for regular HTTP requests (middleware)

	// Rate limiting (using golang.org/x/time/rate)
	RateLimit      float64 `yaml:"rateLimit"`      // requests per second
	RateLimitBurst int     `yaml:"rateLimitBurst"` // burst size

	MaxRequestSize int64 `yaml:"maxRequestSize"`

	// Idle tables are swept after TableTimeout
	TableTimeout  time.Duration `yaml:"tableTimeout"`
	SweepInterval time.Duration `yaml:"sweepInterval"`

	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`

	// CatalogPath replaces the embedded location catalog when set
	CatalogPath string `yaml:"catalogPath"`
}

// GameSettings are the rules every table is created with
type GameSettings struct {
	MinPlayers    int           `yaml:"minPlayers"`
	MaxPlayers    int           `yaml:"maxPlayers"`
	RoundDuration time.Duration `yaml:"roundDuration"`
	RevealGrace   time.Duration `yaml:"revealGrace"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Port:            "", // Must be set via env
			Host:            "", // Must be set via env
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     0,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  60 * time.Second,

			RateLimit:      10,
			RateLimitBurst: 20,

			MaxRequestSize: 1048576, // 1MB

			TableTimeout:  6 * time.Hour,
			SweepInterval: 5 * time.Minute,

			LogLevel:  "info",
			LogFormat: "text",
		},
		Game: GameSettings{
			MinPlayers:    game.DefaultMinPlayers,
			MaxPlayers:    game.DefaultMaxPlayers,
			RoundDuration: game.DefaultRoundDuration,
			RevealGrace:   game.DefaultRevealGrace,
		},
	}
}

// Validate checks if the configuration is valid
func (c *ServerConfig) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT environment variable must be set")
	}
	if c.Server.Host == "" {
		return fmt.Errorf("HOST environment variable must be set")
	}

	if c.Server.RateLimit <= 0 {
		return fmt.Errorf("rateLimit must be positive")
	}
	if c.Server.RateLimitBurst < 1 {
		return fmt.Errorf("rateLimitBurst must be at least 1")
	}
	if c.Server.MaxRequestSize < 1 {
		return fmt.Errorf("maxRequestSize must be at least 1")
	}
	if c.Server.SweepInterval <= 0 {
		return fmt.Errorf("sweepInterval must be positive")
	}

	switch c.Server.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("logFormat must be text or json, got %q", c.Server.LogFormat)
	}

	if c.Game.MinPlayers < 3 {
		return fmt.Errorf("minPlayers must be at least 3")
	}
	if c.Game.MaxPlayers > game.DefaultMaxPlayers {
		return fmt.Errorf("maxPlayers cannot exceed %d", game.DefaultMaxPlayers)
	}
	if c.Game.MinPlayers > c.Game.MaxPlayers {
		return fmt.Errorf("minPlayers cannot be greater than maxPlayers")
	}
	if c.Game.RoundDuration < time.Second {
		return fmt.Errorf("roundDuration must be at least 1s")
	}
	if c.Game.RevealGrace < 0 {
		return fmt.Errorf("revealGrace cannot be negative")
	}

	return nil
}

// Rules returns the game rules for new tables
func (c *ServerConfig) Rules() game.Rules {
	return game.Rules{
		MinPlayers:    c.Game.MinPlayers,
		MaxPlayers:    c.Game.MaxPlayers,
		RoundDuration: c.Game.RoundDuration,
		RevealGrace:   c.Game.RevealGrace,
	}
}

// Addr returns the host:port the server listens on
func (c *ServerConfig) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
