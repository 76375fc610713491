package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"coppit/game"
	"coppit/gamemaster"
)

// Config is the server configuration read from COPPIT_* variables.
type Config struct {
	Addr           string   `env:"COPPIT_ADDR" envDefault:":8000"`
	AllowedOrigins []string `env:"COPPIT_ALLOWED_ORIGINS" envDefault:"http://localhost:3000,http://localhost:5173"`
	LogLevel       string   `env:"COPPIT_LOG_LEVEL" envDefault:"info"`
	// BoardPath loads a board document instead of the built-in standard board.
	BoardPath string `env:"COPPIT_BOARD_PATH"`
	// StorePath selects SQLite persistence. Empty keeps rooms in memory.
	StorePath string        `env:"COPPIT_STORE_PATH"`
	RoomTTL   time.Duration `env:"COPPIT_ROOM_TTL" envDefault:"1h"`

	MaxPlayers         int  `env:"COPPIT_MAX_PLAYERS" envDefault:"4"`
	PiecesPerPlayer    int  `env:"COPPIT_PIECES_PER_PLAYER" envDefault:"6"`
	RequireSixToDeploy bool `env:"COPPIT_REQUIRE_SIX_TO_DEPLOY" envDefault:"false"`
	ExtraRollOnSix     bool `env:"COPPIT_EXTRA_ROLL_ON_SIX" envDefault:"false"`
	SafeByColor        bool `env:"COPPIT_SAFE_BY_COLOR" envDefault:"true"`
	MaxTurns           int  `env:"COPPIT_MAX_TURNS" envDefault:"0"`

	BotStrategy  string        `env:"COPPIT_BOT_STRATEGY" envDefault:"heuristic"`
	BotFillDelay time.Duration `env:"COPPIT_BOT_FILL_DELAY" envDefault:"0s"`
	BotMinDelay  time.Duration `env:"COPPIT_BOT_MIN_DELAY" envDefault:"500ms"`
	BotMaxDelay  time.Duration `env:"COPPIT_BOT_MAX_DELAY" envDefault:"1500ms"`
	NoMoveDelay  time.Duration `env:"COPPIT_NO_MOVE_DELAY" envDefault:"1500ms"`
	// Seed fixes dice and bot choices. Zero seeds from the clock.
	Seed int64 `env:"COPPIT_SEED" envDefault:"0"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the server configuration and checks the game rules it describes.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Game().Validate(); err != nil {
		return cfg, err
	}
	if cfg.BotMaxDelay < cfg.BotMinDelay {
		return cfg, fmt.Errorf("bot max delay %s is below min delay %s", cfg.BotMaxDelay, cfg.BotMinDelay)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err != nil {
		return cfg, fmt.Errorf("log level: %w", err)
	}
	return cfg, nil
}

func (c Config) Game() game.Config {
	return game.Config{
		MaxPlayers:         c.MaxPlayers,
		PiecesPerPlayer:    c.PiecesPerPlayer,
		RequireSixToDeploy: c.RequireSixToDeploy,
		ExtraRollOnSix:     c.ExtraRollOnSix,
		SafeByColor:        c.SafeByColor,
		MaxTurns:           c.MaxTurns,
	}
}

func (c Config) Options() gamemaster.Options {
	opts := gamemaster.DefaultOptions()
	opts.Config = c.Game()
	opts.Strategy = c.BotStrategy
	opts.BotFillDelay = c.BotFillDelay
	opts.BotMinDelay = c.BotMinDelay
	opts.BotMaxDelay = c.BotMaxDelay
	opts.NoMoveDelay = c.NoMoveDelay
	opts.RoomTTL = c.RoomTTL
	opts.Seed = c.Seed
	return opts
}

// Level is the zerolog level named by LogLevel, info when it does not parse.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
