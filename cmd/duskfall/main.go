package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/noctua-games/duskfall/internal/ai"
	"github.com/noctua-games/duskfall/internal/config"
	"github.com/noctua-games/duskfall/internal/debug"
	"github.com/noctua-games/duskfall/internal/level"
)

const ConfigPath = "config/sim.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("DUSKFALL_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadSim(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("duskfall starting",
		"log_level", cfg.LogLevel,
		"tick_rate", cfg.TickRate)

	tunables, err := config.LoadTunables(cfg.TunablesPath)
	if err != nil {
		return fmt.Errorf("loading tunables: %w", err)
	}

	levelFile, err := level.LoadFile(cfg.LevelPath)
	if err != nil {
		return fmt.Errorf("loading level: %w", err)
	}

	scene, err := level.Build(levelFile, tunables, cfg.TickRate)
	if err != nil {
		return fmt.Errorf("building level: %w", err)
	}
	defer scene.Manager.StopAll()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := scene.Loop.Run(gctx); err != nil {
			return fmt.Errorf("simulation loop: %w", err)
		}
		return nil
	})

	if cfg.DebugBindAddress != "" {
		hub := debug.NewHub()
		scene.Loop.SetPublishFunc(hub.Publish)
		panel := debug.NewServer(cfg.DebugBindAddress, hub, scene.Loop, scene.World, tunables, scene.ApplyTunables)
		g.Go(func() error {
			return panel.Run(gctx)
		})
	}

	if cfg.WatchTunables {
		g.Go(func() error {
			err := tunables.Watch(gctx, func() {
				scene.Loop.Enqueue(scene.ApplyTunables)
			})
			if errors.Is(err, context.Canceled) {
				return err
			}
			if err != nil {
				return fmt.Errorf("tunables watcher: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
