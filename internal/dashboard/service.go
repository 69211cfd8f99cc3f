package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/hotshotprops/proplab/internal/edge"
	"github.com/hotshotprops/proplab/internal/model"
	"github.com/hotshotprops/proplab/internal/pkg/models"
	"github.com/hotshotprops/proplab/internal/pkg/storage"
	"github.com/hotshotprops/proplab/internal/sources"
)

// Notifier receives the scored edges of each cycle. Implementations must
// not block; the refresh loop stays single-threaded.
type Notifier interface {
	NotifyEdges(ctx context.Context, edges []models.EdgeResult)
}

// Service runs the refresh pipeline: schedule, props, game logs, model,
// edges, in that order, each stage consuming the previous one's output.
// One cycle at a time; there is no intra-cycle parallelism to tune.
type Service struct {
	games     *sources.CachedGames
	props     *sources.Chain
	logs      sources.GameLogSource
	projector *model.Projector
	calc      *edge.Calculator
	store     *Store
	history   storage.EdgeHistory
	notifier  Notifier
	interval  time.Duration
}

type ServiceDeps struct {
	Games     *sources.CachedGames
	Props     *sources.Chain
	Logs      sources.GameLogSource
	Projector *model.Projector
	Calc      *edge.Calculator
	Store     *Store
	History   storage.EdgeHistory // optional
	Notifier  Notifier            // optional
	Interval  time.Duration
}

func NewService(d ServiceDeps) *Service {
	interval := d.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Service{
		games:     d.Games,
		props:     d.Props,
		logs:      d.Logs,
		projector: d.Projector,
		calc:      d.Calc,
		store:     d.Store,
		history:   d.History,
		notifier:  d.Notifier,
		interval:  interval,
	}
}

// Run executes one warm-up cycle from cache, then refreshes on a fixed
// interval until the context is cancelled.
func (s *Service) Run(ctx context.Context) {
	s.cycle(ctx, true)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("Refresh loop stopped")
			return
		case <-ticker.C:
			s.cycle(ctx, false)
		}
	}
}

// RefreshNow runs one full fetch cycle outside the schedule.
func (s *Service) RefreshNow(ctx context.Context) {
	s.cycle(ctx, false)
}

// cycle runs every pipeline stage once. warm cycles prefer snapshots so a
// restart serves data immediately; scheduled cycles always hit the sources.
func (s *Service) cycle(ctx context.Context, warm bool) {
	start := time.Now()

	var games []models.GameRecord
	var props []models.PropLine
	if warm {
		games = s.games.Load(ctx)
		props = s.props.Load(ctx)
	} else {
		games = s.games.Fetch(ctx)
		props = s.props.Fetch(ctx)
	}

	logs := s.fetchLogs(ctx, props)
	projections := s.project(props, logs)
	edges := s.calc.ComputeAll(projections, props)

	s.store.SetCycle(games, props, logs, projections, edges)

	if s.history != nil {
		s.persistEdges(ctx, edges)
	}
	if s.notifier != nil {
		s.notifier.NotifyEdges(ctx, edges)
	}

	slog.Info("Refresh cycle complete",
		"warm", warm, "games", len(games), "props", len(props),
		"players", len(logs), "edges", len(edges), "duration", time.Since(start))
}

// fetchLogs pulls game history for every player with at least one prop.
// A player whose log cannot be fetched simply has no entry.
func (s *Service) fetchLogs(ctx context.Context, props []models.PropLine) map[string][]models.PlayerGameLog {
	logs := make(map[string][]models.PlayerGameLog)
	for _, p := range props {
		if _, seen := logs[p.Player]; seen {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		log, err := s.logs.FetchGameLog(ctx, p.Player)
		if err != nil {
			slog.Warn("Game log fetch failed", "player", p.Player, "error", err)
			continue
		}
		if len(log) > 0 {
			logs[p.Player] = log
		}
	}
	return logs
}

// project produces one projection per distinct (player, stat) that has a
// quoted prop. Baseline mode bypasses the logs entirely.
func (s *Service) project(props []models.PropLine, logs map[string][]models.PlayerGameLog) []models.Projection {
	type key struct {
		player string
		stat   models.StatCategory
	}
	seen := make(map[key]bool)
	var out []models.Projection

	for _, p := range props {
		k := key{p.Player, p.Stat}
		if seen[k] {
			continue
		}
		seen[k] = true

		if s.projector.UseBaseline() {
			out = append(out, s.projector.ProjectLine(p.Player, p.Stat, p.Line))
			continue
		}
		proj, ok := s.projector.Project(logs[p.Player], p.Stat)
		if !ok {
			continue
		}
		out = append(out, proj)
	}
	return out
}

func (s *Service) persistEdges(ctx context.Context, edges []models.EdgeResult) {
	slate := time.Now().UTC().Truncate(24 * time.Hour)
	stored := 0
	for _, e := range edges {
		if err := s.history.StoreEdge(ctx, slate, e); err != nil {
			slog.Warn("Failed to store edge", "player", e.Player, "stat", e.Stat, "error", err)
			continue
		}
		stored++
	}
	if stored > 0 {
		slog.Debug("Edge history updated", "rows", stored)
	}
}
