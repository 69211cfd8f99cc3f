package nbastats

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hotshotprops/proplab/internal/pkg/config"
	"github.com/hotshotprops/proplab/internal/pkg/models"
	"github.com/hotshotprops/proplab/internal/snapshot"
)

// GameLogSource fetches per-player box-score history. The player-name index
// is resolved once per process; per-player logs fall back to their snapshot
// when the provider rate-limits or errors.
type GameLogSource struct {
	client   *Client
	season   string
	maxGames int
	delay    time.Duration
	snap     *snapshot.Store

	mu      sync.Mutex
	players map[string]int64 // lowercased full name -> player id
}

func NewGameLogSource(cfg *config.Config, snap *snapshot.Store) *GameLogSource {
	c := &cfg.Sources.GameLog
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = cfg.Sources.Timeout
	}
	season := c.Season
	if season == "" {
		season = "2024-25"
	}
	maxGames := c.MaxGames
	if maxGames <= 0 {
		maxGames = 20
	}
	return &GameLogSource{
		client:   NewClient(c.BaseURL, cfg.Sources.UserAgent, timeout),
		season:   season,
		maxGames: maxGames,
		delay:    c.BatchDelay,
		snap:     snap,
	}
}

func (s *GameLogSource) Name() string { return "gamelog" }

// FetchGameLog returns up to maxGames recent rows for the named player,
// oldest first. A player the index cannot resolve yields an empty log.
func (s *GameLogSource) FetchGameLog(ctx context.Context, player string) ([]models.PlayerGameLog, error) {
	playerID, fullName, err := s.resolvePlayer(ctx, player)
	if err != nil {
		slog.Warn("Player not resolved", "player", player, "error", err)
		return nil, nil
	}

	snapName := fmt.Sprintf("gamelog_%d", playerID)

	resp, err := s.client.GetPlayerGameLog(ctx, playerID, s.season)
	if err != nil {
		slog.Warn("Game log request failed, trying snapshot", "player", fullName, "error", err)
		var cached []models.PlayerGameLog
		if _, serr := s.snap.Load(snapName, &cached); serr == nil {
			return relabel(cached, player), nil
		}
		return nil, nil
	}

	// Rows keep the caller's spelling of the name: downstream joins against
	// prop lines key on it.
	logs := s.parseGameLog(resp, player)
	if len(logs) > 0 {
		if err := s.snap.Save(snapName, logs); err != nil {
			slog.Warn("Failed to persist game log snapshot", "player", fullName, "error", err)
		}
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return logs, nil
}

func (s *GameLogSource) parseGameLog(resp response, player string) []models.PlayerGameLog {
	set, err := resp.set("PlayerGameLog")
	if err != nil {
		slog.Warn("Game log payload malformed", "player", player, "error", err)
		return nil
	}

	cols := set.columns()
	date := cols["GAME_DATE"]
	matchup := cols["MATCHUP"]
	mins := cols["MIN"]
	pts := cols["PTS"]
	reb := cols["REB"]
	ast := cols["AST"]
	fg3m := cols["FG3M"]

	logs := make([]models.PlayerGameLog, 0, len(set.RowSet))
	for _, row := range set.RowSet {
		g := models.PlayerGameLog{
			Player:   player,
			Matchup:  cellString(row, matchup),
			Minutes:  cellFloat(row, mins),
			Points:   cellFloat(row, pts),
			Rebounds: cellFloat(row, reb),
			Assists:  cellFloat(row, ast),
			Threes:   cellFloat(row, fg3m),
		}
		// Provider format: "APR 01, 2025"
		if t, err := time.Parse("Jan 02, 2006", titleCaseDate(cellString(row, date))); err == nil {
			g.GameDate = t
		} else {
			continue
		}
		logs = append(logs, g)
	}

	sort.Slice(logs, func(i, j int) bool { return logs[i].GameDate.Before(logs[j].GameDate) })
	if len(logs) > s.maxGames {
		logs = logs[len(logs)-s.maxGames:]
	}
	return logs
}

// resolvePlayer maps a (possibly partial) name onto a player id using the
// lazily fetched current-season index. Partial matching mirrors how props
// feeds and the stats site abbreviate names differently.
func (s *GameLogSource) resolvePlayer(ctx context.Context, player string) (int64, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.players == nil {
		if err := s.loadPlayerIndex(ctx); err != nil {
			return 0, "", err
		}
	}

	needle := strings.ToLower(strings.TrimSpace(player))
	if needle == "" {
		return 0, "", fmt.Errorf("empty player name")
	}
	if id, ok := s.players[needle]; ok {
		return id, canonicalName(needle), nil
	}
	for name, id := range s.players {
		if strings.Contains(name, needle) {
			return id, canonicalName(name), nil
		}
	}
	return 0, "", fmt.Errorf("player %q not in index", player)
}

func (s *GameLogSource) loadPlayerIndex(ctx context.Context) error {
	resp, err := s.client.GetAllPlayers(ctx, "00", s.season)
	if err != nil {
		return fmt.Errorf("fetch player index: %w", err)
	}
	set, err := resp.set("CommonAllPlayers")
	if err != nil {
		return fmt.Errorf("player index malformed: %w", err)
	}

	cols := set.columns()
	idCol := cols["PERSON_ID"]
	nameCol := cols["DISPLAY_FIRST_LAST"]

	s.players = make(map[string]int64, len(set.RowSet))
	for _, row := range set.RowSet {
		name := strings.ToLower(strings.TrimSpace(cellString(row, nameCol)))
		id := cellInt(row, idCol)
		if name != "" && id > 0 {
			s.players[name] = id
		}
	}
	slog.Info("Player index loaded", "players", len(s.players))
	return nil
}

// relabel rewrites the player field on cached rows to the caller's spelling.
func relabel(logs []models.PlayerGameLog, player string) []models.PlayerGameLog {
	for i := range logs {
		logs[i].Player = player
	}
	return logs
}

// titleCaseDate turns "APR 01, 2025" into "Apr 01, 2025" for time.Parse.
func titleCaseDate(s string) string {
	if len(s) < 3 {
		return s
	}
	return s[:1] + strings.ToLower(s[1:3]) + s[3:]
}

// canonicalName restores display casing for a lowercased index key.
func canonicalName(lower string) string {
	parts := strings.Fields(lower)
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
