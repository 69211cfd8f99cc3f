package models

import (
	"time"
)

// PlayerGameLog is one historical box-score row for a player.
// Append-only: fetched in batches per player, ordered by date ascending.
type PlayerGameLog struct {
	Player   string    `json:"player"`
	GameDate time.Time `json:"game_date"`
	Matchup  string    `json:"matchup"` // "LAL vs. BOS" or "LAL @ BOS"
	Minutes  float64   `json:"min"`
	Points   float64   `json:"pts"`
	Rebounds float64   `json:"reb"`
	Assists  float64   `json:"ast"`
	Threes   float64   `json:"fg3m"`
}

// Stat returns the value of one tracked category for this game.
// PRA is derived, not stored.
func (g PlayerGameLog) Stat(c StatCategory) float64 {
	switch c {
	case StatPoints:
		return g.Points
	case StatRebounds:
		return g.Rebounds
	case StatAssists:
		return g.Assists
	case StatThrees:
		return g.Threes
	case StatPRA:
		return g.Points + g.Rebounds + g.Assists
	}
	return 0
}
