package oddsapi

// API models for The Odds API v4.
// Odds: GET /v4/sports/basketball_nba/odds/?apiKey=...&regions=us&markets=player_points,...&oddsFormat=american

import (
	"time"
)

// Event is one game with nested bookmaker/market/outcome arrays.
type Event struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	SportTitle   string      `json:"sport_title"`
	CommenceTime time.Time   `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

type Bookmaker struct {
	Key        string    `json:"key"`
	Title      string    `json:"title"`
	LastUpdate time.Time `json:"last_update"`
	Markets    []Market  `json:"markets"`
}

type Market struct {
	Key        string    `json:"key"` // "player_points", "player_rebounds", ...
	LastUpdate time.Time `json:"last_update"`
	Outcomes   []Outcome `json:"outcomes"`
}

// Outcome is one priced side. For player-prop markets Name is "Over"/"Under"
// and Description carries the player; older payloads put the player in Name.
type Outcome struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Point       float64 `json:"point,omitempty"`
}
