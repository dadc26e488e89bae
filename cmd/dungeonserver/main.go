package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dungeoncrawl/engine/internal/app"
	"github.com/dungeoncrawl/engine/internal/bus"
	"github.com/dungeoncrawl/engine/internal/bus/retry"
	"github.com/dungeoncrawl/engine/internal/config"
	"github.com/dungeoncrawl/engine/internal/core/clock"
	"github.com/dungeoncrawl/engine/internal/core/seam"
	"github.com/dungeoncrawl/engine/internal/outbox"
	"github.com/dungeoncrawl/engine/internal/persist"
	"github.com/dungeoncrawl/engine/internal/rulebook"
	"github.com/dungeoncrawl/engine/internal/scripting"
)

func main() {
	inspectGame := flag.String("inspect", "", "print a game snapshot (by id) instead of serving")
	createGame := flag.String("create-game", "", "seed a new game with the given id instead of serving")
	cfgPath := flag.String("config", "config/server.toml", "path to server.toml")
	flag.Parse()

	if err := run(*cfgPath, *inspectGame, *createGame); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath, inspectGame, createGame string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	if err := persist.RunMigrations(ctx, db.Pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	log.Info("migrations applied")

	store := persist.NewStore(db)

	rb := rulebook.Default()
	if cfg.Rulebook.Path != "" {
		rb, err = rulebook.Load(cfg.Rulebook.Path)
		if err != nil {
			return fmt.Errorf("load rulebook: %w", err)
		}
	}
	log.Info("rulebook loaded",
		zap.Int("deckTileCount", rb.TotalTileCount()),
		zap.Int("roomTileCount", rb.RoomTileCount()))

	scripts, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return fmt.Errorf("scripting engine: %w", err)
	}
	defer scripts.Close()

	deps := &app.Deps{
		Store:    store,
		Rulebook: rb,
		Clock:    clock.Wall{},
		Seam:     seam.NewRegistry(),
		Scripts:  scripts,
		Log:      log,
	}

	b := bus.New(store, deps.Clock, log)
	app.RegisterAll(b, deps)

	if inspectGame != "" {
		return runInspect(ctx, deps, inspectGame)
	}
	if createGame != "" {
		return runCreateGame(ctx, b, createGame)
	}

	dispatcher := outbox.NewDispatcher(store, outbox.LogSink{Log: log}, log, cfg.Outbox.PollInterval, cfg.Outbox.BatchSize)

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = dispatcher.Run(runCtx)
	}()

	log.Info("dungeoncrawl engine ready", zap.String("server", cfg.Server.Name))
	<-runCtx.Done()
	log.Info("shutting down")
	<-done
	return nil
}

// runInspect prints one game's snapshot for operator debugging (spec §6
// query surface), without starting the outbox dispatcher.
func runInspect(ctx context.Context, deps *app.Deps, gameID string) error {
	view, err := app.GetGame(ctx, deps, gameID)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", gameID, err)
	}
	fmt.Printf("game:      %s (%s)\n", view.Game.ID, view.Game.Status)
	fmt.Printf("players:   %d\n", len(view.Players))
	for id, p := range view.Players {
		fmt.Printf("  - %s  hp=%d/%d  defeated=%v\n", id, p.HP, p.MaxHP, p.Defeated)
	}
	fmt.Printf("deck remaining: %d\n", view.DeckRemain)
	fmt.Printf("tiles placed:   %d\n", len(view.Field.Tiles))
	if view.CurrentTurn != nil {
		fmt.Printf("current turn:   %s (player %s)\n", view.CurrentTurn.ID, view.CurrentTurn.PlayerID)
	}
	return nil
}

// runCreateGame dispatches CreateGame through the retrying bus
// wrapper, so a game seeded while another operator command races it on
// the same brand-new row (the CreateGame insert path) doesn't surface
// a bare ErrOptimisticLock to the CLI.
func runCreateGame(ctx context.Context, b *bus.Bus, gameID string) error {
	result, err := retry.Command(ctx, b, app.CreateGame{Game: gameID, IdempKey: gameID}, 3)
	if err != nil {
		return fmt.Errorf("create game %s: %w", gameID, err)
	}
	fmt.Printf("created game: %v\n", result)
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Load(os.DevNull) // fall through to compiled-in defaults
	}
	return config.Load(path)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
