package sources

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hotshotprops/proplab/internal/pkg/models"
	"github.com/hotshotprops/proplab/internal/snapshot"
)

const propsSnapshotName = "odds"

// Chain tries prop sources in priority order until one yields an acceptable
// row count, persisting the winner as the new snapshot. When every source
// fails, the last known good snapshot is returned instead; when that too is
// unusable, the result is empty. Fetch never returns an error: an empty
// slice is the pipeline's "no data available" state.
type Chain struct {
	sources []PropSource
	minRows int
	snap    *snapshot.Store
}

func NewChain(srcs []PropSource, minRows int, snap *snapshot.Store) *Chain {
	if minRows <= 0 {
		minRows = 1
	}
	return &Chain{sources: srcs, minRows: minRows, snap: snap}
}

// Fetch runs the fallback chain. Sources after the first acceptable result
// are never invoked.
func (c *Chain) Fetch(ctx context.Context) []models.PropLine {
	start := time.Now()
	for _, src := range c.sources {
		if ctx.Err() != nil {
			break
		}
		lines, err := src.FetchProps(ctx)
		if err != nil {
			slog.Warn("Prop source failed", "source", src.Name(), "error", err)
			continue
		}
		if len(lines) < c.minRows {
			slog.Info("Prop source below minimum row count, trying next",
				"source", src.Name(), "rows", len(lines), "min_rows", c.minRows)
			continue
		}
		slog.Info("Prop source succeeded",
			"source", src.Name(), "rows", len(lines), "duration", time.Since(start))
		if err := c.snap.Save(propsSnapshotName, lines); err != nil {
			slog.Warn("Failed to persist odds snapshot", "error", err)
		}
		return lines
	}

	slog.Warn("All prop sources failed, falling back to snapshot")
	return c.loadSnapshot()
}

// Load prefers the cached snapshot and fails open into exactly one Fetch
// when the snapshot is missing, corrupt or expired.
func (c *Chain) Load(ctx context.Context) []models.PropLine {
	if lines := c.loadSnapshot(); len(lines) > 0 {
		return lines
	}
	return c.Fetch(ctx)
}

func (c *Chain) loadSnapshot() []models.PropLine {
	var lines []models.PropLine
	fetchedAt, err := c.snap.Load(propsSnapshotName, &lines)
	if err != nil {
		if !errors.Is(err, snapshot.ErrMiss) {
			slog.Warn("Snapshot load failed", "error", err)
		}
		return nil
	}
	slog.Info("Using odds snapshot", "rows", len(lines), "fetched_at", fetchedAt)
	return lines
}

// CachedGames wraps a GameSource with the same fail-open snapshot policy.
type CachedGames struct {
	src  GameSource
	snap *snapshot.Store
}

func NewCachedGames(src GameSource, snap *snapshot.Store) *CachedGames {
	return &CachedGames{src: src, snap: snap}
}

const gamesSnapshotName = "games_today"

// Load returns the cached schedule if usable, otherwise fetches once.
func (g *CachedGames) Load(ctx context.Context) []models.GameRecord {
	var games []models.GameRecord
	if _, err := g.snap.Load(gamesSnapshotName, &games); err == nil && len(games) > 0 {
		return games
	}
	return g.Fetch(ctx)
}

// Fetch always hits the schedule source, persisting on success.
func (g *CachedGames) Fetch(ctx context.Context) []models.GameRecord {
	games, err := g.src.FetchGames(ctx)
	if err != nil {
		slog.Warn("Schedule source failed", "source", g.src.Name(), "error", err)
		return nil
	}
	if len(games) > 0 {
		if err := g.snap.Save(gamesSnapshotName, games); err != nil {
			slog.Warn("Failed to persist games snapshot", "error", err)
		}
	}
	return games
}
