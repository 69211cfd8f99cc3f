// Package dashboard holds the refresh pipeline and the HTTP surface that
// serves its latest results.
package dashboard

import (
	"sync"
	"time"

	"github.com/hotshotprops/proplab/internal/features"
	"github.com/hotshotprops/proplab/internal/pkg/models"
)

// Store is the single in-memory home for the latest refresh cycle's output.
// Writers replace whole slices; readers get copies. Nothing here survives a
// restart, the snapshot layer covers that.
type Store struct {
	mu          sync.RWMutex
	games       []models.GameRecord
	props       []models.PropLine
	logs        map[string][]models.PlayerGameLog
	projections []models.Projection
	edges       []models.EdgeResult
	refreshedAt time.Time
	cycles      int
}

func NewStore() *Store {
	return &Store{logs: make(map[string][]models.PlayerGameLog)}
}

// SetCycle atomically replaces every artifact of one refresh cycle.
func (s *Store) SetCycle(games []models.GameRecord, props []models.PropLine,
	logs map[string][]models.PlayerGameLog, projections []models.Projection,
	edges []models.EdgeResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games = games
	s.props = props
	s.logs = logs
	s.projections = projections
	s.edges = edges
	s.refreshedAt = time.Now().UTC()
	s.cycles++
}

func (s *Store) Games() []models.GameRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.GameRecord(nil), s.games...)
}

func (s *Store) Props() []models.PropLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.PropLine(nil), s.props...)
}

func (s *Store) Edges() []models.EdgeResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.EdgeResult(nil), s.edges...)
}

// Status summarizes the store for the health endpoint.
type Status struct {
	RefreshedAt time.Time `json:"refreshed_at"`
	Cycles      int       `json:"cycles"`
	Games       int       `json:"games"`
	Props       int       `json:"props"`
	Players     int       `json:"players"`
	Edges       int       `json:"edges"`
}

func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		RefreshedAt: s.refreshedAt,
		Cycles:      s.cycles,
		Games:       len(s.games),
		Props:       len(s.props),
		Players:     len(s.logs),
		Edges:       len(s.edges),
	}
}

// PlayerSummary bundles everything the dashboard shows for one player.
type PlayerSummary struct {
	Player      string                      `json:"player"`
	Games       int                         `json:"games"`
	Props       []models.PropLine           `json:"props"`
	Projections []models.Projection         `json:"projections"`
	Edges       []models.EdgeResult         `json:"edges"`
	HitRates    map[string]features.HitRate `json:"hit_rates"`
	Log         []models.PlayerGameLog      `json:"log"`
}

// Player assembles the per-player view, or false when the player appeared
// in neither the props nor the logs of the last cycle.
func (s *Store) Player(name string) (PlayerSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := PlayerSummary{Player: name, HitRates: make(map[string]features.HitRate)}
	log, hasLog := s.logs[name]
	out.Log = append([]models.PlayerGameLog(nil), log...)
	out.Games = len(log)

	for _, p := range s.props {
		if p.Player == name {
			out.Props = append(out.Props, p)
			if hasLog {
				out.HitRates[string(p.Stat)] = features.HitRates(log, p.Stat, p.Line)
			}
		}
	}
	for _, pr := range s.projections {
		if pr.Player == name {
			out.Projections = append(out.Projections, pr)
		}
	}
	for _, e := range s.edges {
		if e.Player == name {
			out.Edges = append(out.Edges, e)
		}
	}

	if !hasLog && len(out.Props) == 0 {
		return PlayerSummary{}, false
	}
	return out, true
}
