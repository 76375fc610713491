package game

import (
	"errors"
	"fmt"
)

type Config struct {
	MaxPlayers         int  `json:"max_players"`
	PiecesPerPlayer    int  `json:"pieces_per_player"`
	RequireSixToDeploy bool `json:"require_six_to_deploy"`
	// ExtraRollOnSix lets the mover roll again after a board move of a six. Deploys never re-roll.
	ExtraRollOnSix bool `json:"extra_roll_on_six"`
	SafeByColor    bool `json:"safe_by_color"`
	// MaxTurns ends the game after that many turns. Zero means no cap.
	MaxTurns int `json:"max_turns"`
}

func DefaultConfig() Config {
	return Config{
		MaxPlayers:      4,
		PiecesPerPlayer: 6,
		SafeByColor:     true,
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.MaxPlayers < 2 {
		errs = append(errs, fmt.Errorf("max players must be at least 2, got %d", c.MaxPlayers))
	}
	if c.PiecesPerPlayer < 1 {
		errs = append(errs, fmt.Errorf("pieces per player must be positive, got %d", c.PiecesPerPlayer))
	}
	if c.MaxTurns < 0 {
		errs = append(errs, fmt.Errorf("max turns must not be negative, got %d", c.MaxTurns))
	}
	return errors.Join(errs...)
}
