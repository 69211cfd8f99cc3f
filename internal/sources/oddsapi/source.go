package oddsapi

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/hotshotprops/proplab/internal/pkg/config"
	"github.com/hotshotprops/proplab/internal/pkg/models"
	"github.com/hotshotprops/proplab/internal/sources"
)

const sourceName = "oddsapi"

func init() {
	sources.Register(sourceName, func(cfg *config.Config) sources.PropSource {
		return NewSource(cfg)
	})
}

// Source adapts The Odds API aggregator to the PropSource contract.
// It is the mid-priority fallback between the sportsbook scraper and the
// last-resort aggregator.
type Source struct {
	client *Client
}

func NewSource(cfg *config.Config) *Source {
	c := &cfg.Sources.OddsAPI
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = cfg.Sources.Timeout
	}
	return &Source{client: NewClient(c.BaseURL, c.APIKey, c.Regions, c.Markets, timeout)}
}

func (s *Source) Name() string { return sourceName }

// FetchProps pulls the nested bookmaker/market/outcome tree and flattens it
// into prop lines. Provider failures come back as an empty set; only a
// missing API key is surfaced, since no retry can fix it.
func (s *Source) FetchProps(ctx context.Context) ([]models.PropLine, error) {
	if s.client.apiKey == "" {
		return nil, fmt.Errorf("oddsapi: api key not configured")
	}

	events, err := s.client.GetEvents(ctx)
	if err != nil {
		slog.Warn("Odds API request failed", "error", err)
		return nil, nil
	}

	now := time.Now().UTC()
	var lines []models.PropLine
	for _, ev := range events {
		game := fmt.Sprintf("%s @ %s", ev.AwayTeam, ev.HomeTeam)
		for _, bk := range ev.Bookmakers {
			for _, market := range bk.Markets {
				stat, ok := statForMarket(market.Key)
				if !ok {
					continue
				}
				for _, line := range pairOutcomes(market.Outcomes, stat) {
					line.Book = bk.Title
					line.Game = game
					line.Source = "The Odds API"
					line.FetchedAt = now
					if line.Joinable() {
						lines = append(lines, line)
					}
				}
			}
		}
	}
	return lines, nil
}

func statForMarket(key string) (models.StatCategory, bool) {
	switch {
	case strings.Contains(key, "points"):
		return models.StatPoints, true
	case strings.Contains(key, "rebounds"):
		return models.StatRebounds, true
	case strings.Contains(key, "assists"):
		return models.StatAssists, true
	case strings.Contains(key, "threes"):
		return models.StatThrees, true
	}
	return "", false
}

// pairOutcomes joins the Over and Under sides quoted for the same player and
// point into one line. Outcomes without a resolvable player are dropped.
func pairOutcomes(outcomes []Outcome, stat models.StatCategory) []models.PropLine {
	type key struct {
		player string
		point  float64
	}
	byPlayer := make(map[key]*models.PropLine)
	order := make([]key, 0, len(outcomes))

	for _, oc := range outcomes {
		player := playerOf(oc)
		if player == "" || oc.Point <= 0 {
			continue
		}
		k := key{player: player, point: oc.Point}
		line, ok := byPlayer[k]
		if !ok {
			line = &models.PropLine{Player: player, Stat: stat, Line: oc.Point}
			byPlayer[k] = line
			order = append(order, k)
		}
		price := int(math.Round(oc.Price))
		switch strings.ToLower(oc.Name) {
		case "under":
			line.PriceUnder = price
		default: // "Over", or legacy payloads naming the player directly
			line.PriceOver = price
		}
	}

	out := make([]models.PropLine, 0, len(order))
	for _, k := range order {
		out = append(out, *byPlayer[k])
	}
	return out
}

func playerOf(oc Outcome) string {
	if oc.Description != "" {
		return strings.TrimSpace(oc.Description)
	}
	name := strings.TrimSpace(oc.Name)
	if strings.EqualFold(name, "over") || strings.EqualFold(name, "under") {
		return ""
	}
	return name
}
