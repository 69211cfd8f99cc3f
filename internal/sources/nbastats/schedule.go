package nbastats

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/hotshotprops/proplab/internal/pkg/config"
	"github.com/hotshotprops/proplab/internal/pkg/models"
)

// Eastern time decides which provider-local date "today" is; a late west
// coast tip-off still belongs to the eastern calendar day.
var eastern = time.FixedZone("EST", -5*60*60)

// ScheduleSource adapts the scoreboard endpoint to the GameSource contract.
type ScheduleSource struct {
	client   *Client
	leagueID string
	now      func() time.Time // injected for tests
}

func NewScheduleSource(cfg *config.Config) *ScheduleSource {
	c := &cfg.Sources.Schedule
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = cfg.Sources.Timeout
	}
	leagueID := c.LeagueID
	if leagueID == "" {
		leagueID = "00" // NBA
	}
	return &ScheduleSource{
		client:   NewClient(c.BaseURL, cfg.Sources.UserAgent, timeout),
		leagueID: leagueID,
		now:      time.Now,
	}
}

func (s *ScheduleSource) Name() string { return "schedule" }

// FetchGames returns today's games. Provider failures are absorbed into an
// empty result; the caller falls back to its snapshot.
func (s *ScheduleSource) FetchGames(ctx context.Context) ([]models.GameRecord, error) {
	today := s.now().In(eastern).Format("2006-01-02")
	slog.Info("Fetching NBA games", "date", today)

	resp, err := s.client.GetScoreboard(ctx, s.leagueID, today)
	if err != nil {
		slog.Warn("Scoreboard request failed", "error", err)
		return nil, nil
	}

	header, err := resp.set("GameHeader")
	if err != nil {
		slog.Warn("Scoreboard payload malformed", "error", err)
		return nil, nil
	}

	cols := header.columns()
	gameID := cols["GAME_ID"]
	home := cols["HOME_TEAM_ABBREVIATION"]
	away := cols["VISITOR_TEAM_ABBREVIATION"]
	statusText := cols["GAME_STATUS_TEXT"]
	gameDate := cols["GAME_DATE_EST"]

	games := make([]models.GameRecord, 0, len(header.RowSet))
	for _, row := range header.RowSet {
		g := models.GameRecord{
			GameID:   cellString(row, gameID),
			HomeTeam: cellString(row, home),
			AwayTeam: cellString(row, away),
			Status:   parseStatus(cellString(row, statusText)),
			Date:     today,
		}
		if t, err := time.Parse("2006-01-02T15:04:05", cellString(row, gameDate)); err == nil {
			g.StartTime = t
		}
		if g.GameID == "" || g.HomeTeam == "" || g.AwayTeam == "" {
			continue
		}
		games = append(games, g)
	}
	slog.Info("Fetched NBA games", "count", len(games))
	return games, nil
}

// parseStatus maps the provider status text ("7:30 pm ET", "End of 3rd Qtr",
// "Final") onto the three-state schedule status.
func parseStatus(text string) models.GameStatus {
	t := strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.HasPrefix(t, "final"):
		return models.GameFinal
	case strings.Contains(t, "qtr") || strings.Contains(t, "halftime") || strings.Contains(t, "ot"):
		return models.GameLive
	default:
		return models.GameScheduled
	}
}
