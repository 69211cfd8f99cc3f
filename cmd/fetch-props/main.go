// fetch-props runs the prop source chain once and prints the result as
// JSON. Handy for checking which source wins and what it returns without
// starting the dashboard.
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

	pkgconfig "github.com/hotshotprops/proplab/internal/pkg/config"
	"github.com/hotshotprops/proplab/internal/pkg/logging"
	"github.com/hotshotprops/proplab/internal/snapshot"
	"github.com/hotshotprops/proplab/internal/sources"

	_ "github.com/hotshotprops/proplab/internal/sources/all"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fetch-props failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "configs/production.yaml", "Path to config file")
	source := flag.String("source", "", "Fetch from one named source instead of the chain")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall fetch timeout")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := pkgconfig.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.SetupLogger(&cfg.Logging, "fetch-props")

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	snap := snapshot.NewStore(cfg.Snapshot.Dir, cfg.Snapshot.TTL)

	if *source != "" {
		f, ok := sources.FactoryByName(*source)
		if !ok {
			return fmt.Errorf("unknown source %q (available: %v)", *source, sources.AvailableNames())
		}
		lines, err := f(cfg).FetchProps(ctx)
		if err != nil {
			return err
		}
		return printJSON(lines)
	}

	chainSources, err := sources.BuildChainSources(cfg)
	if err != nil {
		return err
	}
	chain := sources.NewChain(chainSources, cfg.Sources.MinRows, snap)
	return printJSON(chain.Fetch(ctx))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
