package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hotshotprops/proplab/internal/dashboard"
	"github.com/hotshotprops/proplab/internal/edge"
	"github.com/hotshotprops/proplab/internal/model"
	"github.com/hotshotprops/proplab/internal/notify"
	pkgconfig "github.com/hotshotprops/proplab/internal/pkg/config"
	"github.com/hotshotprops/proplab/internal/pkg/logging"
	"github.com/hotshotprops/proplab/internal/pkg/storage"
	"github.com/hotshotprops/proplab/internal/snapshot"
	"github.com/hotshotprops/proplab/internal/sources"
	"github.com/hotshotprops/proplab/internal/sources/nbastats"

	// Register all prop sources via init().
	_ "github.com/hotshotprops/proplab/internal/sources/all"
)

const defaultConfigPath = "configs/production.yaml"

type cliConfig struct {
	configPath string
	runFor     time.Duration
}

func main() {
	if err := run(); err != nil {
		slog.Error("Dashboard failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := parseFlags()

	// Secrets live in .env during local development; missing file is fine.
	_ = godotenv.Load()

	slog.Info("Loading config", "path", cfg.configPath)
	appConfig, err := pkgconfig.Load(cfg.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logging.SetupLogger(&appConfig.Logging, "dashboard")
	slog.Info("Config loaded successfully")

	ctx, cancel := createContext(cfg.runFor)
	defer cancel()
	setupSignalHandler(ctx, cancel)

	snap := snapshot.NewStore(appConfig.Snapshot.Dir, appConfig.Snapshot.TTL)

	chainSources, err := sources.BuildChainSources(appConfig)
	if err != nil {
		return err
	}
	slog.Info("Prop source chain built", "order", appConfig.Sources.Order)
	chain := sources.NewChain(chainSources, appConfig.Sources.MinRows, snap)

	schedule := nbastats.NewScheduleSource(appConfig)
	games := sources.NewCachedGames(schedule, snap)
	gameLogs := nbastats.NewGameLogSource(appConfig, snap)

	projector := model.NewProjector(&appConfig.Model)
	calc := edge.NewCalculator(&appConfig.Edge)
	store := dashboard.NewStore()

	var history storage.EdgeHistory
	if appConfig.Postgres.DSN != "" {
		h, err := storage.NewPostgresEdgeHistory(&appConfig.Postgres)
		if err != nil {
			slog.Warn("Edge history disabled", "error", err)
		} else {
			history = h
			defer h.Close()
		}
	}

	var notifier dashboard.Notifier
	if appConfig.Telegram.BotToken != "" && appConfig.Telegram.ChatID != 0 {
		if tn := notify.NewTelegramNotifier(appConfig); tn != nil {
			notifier = tn
			defer tn.Stop()
		}
	}

	service := dashboard.NewService(dashboard.ServiceDeps{
		Games:     games,
		Props:     chain,
		Logs:      gameLogs,
		Projector: projector,
		Calc:      calc,
		Store:     store,
		History:   history,
		Notifier:  notifier,
		Interval:  appConfig.Dashboard.RefreshInterval,
	})
	go service.Run(ctx)

	server := dashboard.NewServer(store, service)
	return server.Run(ctx, appConfig.Dashboard.Port, appConfig.Dashboard.ReadHeaderTimeout)
}

func parseFlags() cliConfig {
	var cfg cliConfig

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}

	flag.StringVar(&cfg.configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.DurationVar(&cfg.runFor, "run-for", 0, "Auto-stop after duration (e.g. 10s, 1m). 0 = run until SIGINT/SIGTERM")
	flag.Parse()
	return cfg
}

func createContext(runFor time.Duration) (context.Context, context.CancelFunc) {
	if runFor > 0 {
		return context.WithTimeout(context.Background(), runFor)
	}
	return context.WithCancel(context.Background())
}

func setupSignalHandler(ctx context.Context, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal, stopping dashboard...", "signal", sig.String())
			cancel()
		case <-ctx.Done():
			signal.Stop(sigChan)
			close(sigChan)
		}
	}()
}
