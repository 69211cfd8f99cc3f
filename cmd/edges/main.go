// edges runs one full pipeline cycle from the command line and prints the
// scored slate, without serving HTTP or touching Telegram.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/hotshotprops/proplab/internal/dashboard"
	"github.com/hotshotprops/proplab/internal/edge"
	"github.com/hotshotprops/proplab/internal/model"
	pkgconfig "github.com/hotshotprops/proplab/internal/pkg/config"
	"github.com/hotshotprops/proplab/internal/pkg/logging"
	"github.com/hotshotprops/proplab/internal/pkg/storage"
	"github.com/hotshotprops/proplab/internal/snapshot"
	"github.com/hotshotprops/proplab/internal/sources"
	"github.com/hotshotprops/proplab/internal/sources/nbastats"

	_ "github.com/hotshotprops/proplab/internal/sources/all"
)

func main() {
	if err := run(); err != nil {
		slog.Error("edges failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "configs/production.yaml", "Path to config file")
	timeout := flag.Duration("timeout", 10*time.Minute, "Overall cycle timeout")
	persist := flag.Bool("persist", false, "Also store results in edge history (needs postgres.dsn)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := pkgconfig.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.SetupLogger(&cfg.Logging, "edges")

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	snap := snapshot.NewStore(cfg.Snapshot.Dir, cfg.Snapshot.TTL)
	chainSources, err := sources.BuildChainSources(cfg)
	if err != nil {
		return err
	}

	var history storage.EdgeHistory
	if *persist {
		h, err := storage.NewPostgresEdgeHistory(&cfg.Postgres)
		if err != nil {
			return fmt.Errorf("edge history requested but unavailable: %w", err)
		}
		history = h
		defer h.Close()
	}

	store := dashboard.NewStore()
	service := dashboard.NewService(dashboard.ServiceDeps{
		Games:     sources.NewCachedGames(nbastats.NewScheduleSource(cfg), snap),
		Props:     sources.NewChain(chainSources, cfg.Sources.MinRows, snap),
		Logs:      nbastats.NewGameLogSource(cfg, snap),
		Projector: model.NewProjector(&cfg.Model),
		Calc:      edge.NewCalculator(&cfg.Edge),
		Store:     store,
		History:   history,
		Interval:  cfg.Dashboard.RefreshInterval,
	})

	service.RefreshNow(ctx)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(store.Edges())
}
