package gamemaster

import (
	"time"

	"coppit/game"
	"coppit/player"
)

type Options struct {
	Config game.Config
	// Strategy names the player strategy bots use.
	Strategy string
	// BotFillDelay is how long a waiting room with a human waits before bots take
	// the empty seats. Negative disables filling.
	BotFillDelay time.Duration
	// BotMinDelay and BotMaxDelay bound how long a bot pretends to think.
	BotMinDelay     time.Duration
	BotMaxDelay     time.Duration
	BotPollInterval time.Duration
	// NoMoveDelay is how long a roll without a legal move stays visible before
	// the turn passes.
	NoMoveDelay  time.Duration
	RoomTTL      time.Duration
	StoreTimeout time.Duration
	// Seed feeds the dice and bot choices. Zero seeds from the clock.
	Seed int64
}

func DefaultOptions() Options {
	return Options{
		Config:          game.DefaultConfig(),
		Strategy:        player.HeuristicName,
		BotFillDelay:    0,
		BotMinDelay:     500 * time.Millisecond,
		BotMaxDelay:     1500 * time.Millisecond,
		BotPollInterval: time.Second,
		NoMoveDelay:     1500 * time.Millisecond,
		RoomTTL:         time.Hour,
		StoreTimeout:    2 * time.Second,
	}
}
