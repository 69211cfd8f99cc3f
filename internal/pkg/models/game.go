package models

import (
	"time"
)

// GameStatus is the schedule-provider status of a contest.
type GameStatus string

const (
	GameScheduled GameStatus = "scheduled"
	GameLive      GameStatus = "live"
	GameFinal     GameStatus = "final"
)

// GameRecord identifies one scheduled contest. Records are immutable after
// creation; the next fetch cycle supersedes the whole set.
type GameRecord struct {
	GameID    string     `json:"game_id"`
	HomeTeam  string     `json:"home_team"`
	AwayTeam  string     `json:"away_team"`
	StartTime time.Time  `json:"game_time"`
	Status    GameStatus `json:"status"`
	Date      string     `json:"date"` // provider-local date, YYYY-MM-DD
}
