// Package prizepicks implements the emergency last-resort prop source.
// PrizePicks quotes no real prices (1:1 payout), so every line carries the
// same pseudo-price; it exists so the dashboard still has lines to show
// when both the sportsbook scraper and the aggregator are down.
package prizepicks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hotshotprops/proplab/internal/pkg/config"
	"github.com/hotshotprops/proplab/internal/pkg/models"
	"github.com/hotshotprops/proplab/internal/sources"
)

const (
	sourceName     = "prizepicks"
	defaultBaseURL = "https://api.prizepicks.com/projections"
	defaultLeague  = "7" // NBA

	// pseudoPrice maps the 1:1 payout onto an American price.
	pseudoPrice = -119
)

func init() {
	sources.Register(sourceName, func(cfg *config.Config) sources.PropSource {
		return NewSource(cfg)
	})
}

type Source struct {
	baseURL  string
	leagueID string
	client   *http.Client
}

func NewSource(cfg *config.Config) *Source {
	c := &cfg.Sources.PrizePicks
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	leagueID := c.LeagueID
	if leagueID == "" {
		leagueID = defaultLeague
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = cfg.Sources.Timeout
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Source{
		baseURL:  baseURL,
		leagueID: leagueID,
		client:   &http.Client{Timeout: timeout},
	}
}

func (s *Source) Name() string { return sourceName }

func (s *Source) FetchProps(ctx context.Context) ([]models.PropLine, error) {
	u := s.baseURL + "?" + url.Values{"league_id": {s.leagueID}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Warn("PrizePicks request failed", "error", err)
		return nil, nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		slog.Warn("PrizePicks request failed", "status", resp.StatusCode)
		return nil, nil
	}

	var raw projectionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		slog.Warn("PrizePicks payload malformed", "error", err)
		return nil, nil
	}
	return s.normalize(raw), nil
}

func (s *Source) normalize(raw projectionsResponse) []models.PropLine {
	players := make(map[string]string, len(raw.Included))
	for _, inc := range raw.Included {
		if inc.Attributes.Name != "" {
			players[inc.ID] = strings.TrimSpace(inc.Attributes.Name)
		}
	}

	now := time.Now().UTC()
	var lines []models.PropLine
	for _, proj := range raw.Data {
		attr := proj.Attributes
		stat, ok := statForType(attr.StatType)
		if !ok {
			continue
		}
		line := models.PropLine{
			Player:     players[playerIDString(attr.PlayerID)],
			Stat:       stat,
			Line:       attr.LineScore,
			PriceOver:  pseudoPrice,
			PriceUnder: pseudoPrice,
			Book:       "PrizePicks",
			Source:     "PrizePicks API",
			FetchedAt:  now,
		}
		if line.Joinable() {
			lines = append(lines, line)
		}
	}
	return lines
}

// playerIDString tolerates both numeric and string player_id values.
func playerIDString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return fmt.Sprintf("%.0f", id)
	case json.Number:
		return id.String()
	}
	return ""
}

func statForType(statType string) (models.StatCategory, bool) {
	switch strings.ToLower(strings.TrimSpace(statType)) {
	case "points", "pts":
		return models.StatPoints, true
	case "rebounds", "rebs":
		return models.StatRebounds, true
	case "assists", "asts":
		return models.StatAssists, true
	case "pts+rebs+asts", "pts rebs asts":
		return models.StatPRA, true
	case "3-pt made", "three pointers made", "3pm":
		return models.StatThrees, true
	}
	return "", false
}
