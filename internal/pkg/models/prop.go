package models

import (
	"time"
)

// StatCategory identifies the player statistic a prop line is quoted on.
type StatCategory string

const (
	StatPoints   StatCategory = "PTS"
	StatRebounds StatCategory = "REB"
	StatAssists  StatCategory = "AST"
	StatPRA      StatCategory = "PRA" // points + rebounds + assists
	StatThrees   StatCategory = "FG3M"
)

// KnownStats lists every category the pipeline tracks, in display order.
func KnownStats() []StatCategory {
	return []StatCategory{StatPoints, StatRebounds, StatAssists, StatPRA, StatThrees}
}

// PropLine is one sportsbook-quoted betting line for a player and stat.
// A fresh fetch fully replaces the prior set; there is no incremental merge.
type PropLine struct {
	Player     string       `json:"player"`
	Stat       StatCategory `json:"prop_type"`
	Line       float64      `json:"line"`
	PriceOver  int          `json:"odds_over"`  // American price, 0 = not quoted
	PriceUnder int          `json:"odds_under"` // American price, 0 = not quoted
	Book       string       `json:"book"`
	Game       string       `json:"game,omitempty"` // "AWAY @ HOME" when known
	Source     string       `json:"source"`
	FetchedAt  time.Time    `json:"timestamp"`
}

// Joinable reports whether the line carries the fields downstream joins need.
// Rows failing this are excluded at the adapter boundary.
func (p PropLine) Joinable() bool {
	return p.Player != "" && p.Stat != "" && p.Line > 0
}
