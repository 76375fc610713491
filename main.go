package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"coppit/board"
	"coppit/communication/client"
	"coppit/communication/server"
	"coppit/config"
	"coppit/engine"
	"coppit/experiments"
	"coppit/game"
	"coppit/gamemaster"
	"coppit/player"
	"coppit/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	experiment := flag.String("experiment", "", "Run a named experiment (baselines, cutoff) instead of serving")
	dumpBoard := flag.Bool("dump-board", false, "Print the board document and exit")
	remote := flag.String("remote", "", "Server URL to play a seat on as a bot")
	room := flag.String("room", "", "Room to join with -remote")
	playerID := flag.String("player", "", "Player id to join as with -remote")
	strategy := flag.String("strategy", player.HeuristicName, "Bot strategy for -remote")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		config.Exitf("config: %v", err)
	}
	zerolog.SetGlobalLevel(cfg.Level())
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	b := board.Standard()
	if cfg.BoardPath != "" {
		if b, err = board.Load(cfg.BoardPath); err != nil {
			log.Fatal().Err(err).Str("path", cfg.BoardPath).Msg("failed to load board")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *dumpBoard:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(b); err != nil {
			log.Fatal().Err(err).Msg("failed to encode board")
		}
	case *experiment != "":
		x, err := experiments.ByName(*experiment, b, cfg.Game(), ".")
		if err != nil {
			config.Exitf("%v", err)
		}
		if _, err := x.Run(); err != nil {
			log.Fatal().Err(err).Str("experiment", *experiment).Msg("experiment failed")
		}
	case *remote != "":
		playRemote(ctx, *remote, *room, *playerID, *strategy, b, cfg.Seed)
	default:
		serve(ctx, cfg, b)
	}
}

func serve(ctx context.Context, cfg config.Config, b *board.Board) {
	var st store.Store = store.NewMemory()
	if cfg.StorePath != "" {
		sqlite, err := store.OpenSQLite(cfg.StorePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.StorePath).Msg("failed to open store")
		}
		st = sqlite
	}
	defer st.Close()

	gm, err := gamemaster.NewGameMaster(ctx, b, st, cfg.Options())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start game master")
	}
	defer gm.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.NewHub(gm, b, cfg.AllowedOrigins).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.Addr).Int("nodes", b.Len()).Bool("sqlite", cfg.StorePath != "").Msg("serving")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}

func playRemote(ctx context.Context, url, room, playerID, name string, b *board.Board, seed int64) {
	if room == "" || playerID == "" {
		config.Exitf("-remote needs -room and -player")
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	strategy, err := player.New(name, game.NewSource(seed))
	if err != nil {
		config.Exitf("%v", err)
	}

	c, err := client.Dial(ctx, url, room, playerID, playerID)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to join room")
	}
	defer c.Close()

	winners, err := engine.NewRemote(c, playerID, strategy, b).Play(ctx)
	if err != nil {
		log.Error().Err(err).Msg("remote game ended early")
		return
	}
	log.Info().Str("room", room).Strs("winners", winners).Msg("game over")
}
