package nbastats

// API models for the stats.nba.com endpoints.
// Scoreboard:  GET /stats/scoreboardv2?LeagueID=00&GameDate=YYYY-MM-DD&DayOffset=0
// Game log:    GET /stats/playergamelog?PlayerID=...&Season=2024-25&SeasonType=Regular+Season
// Player list: GET /stats/commonallplayers?LeagueID=00&Season=...&IsOnlyCurrentSeason=1

import (
	"encoding/json"
	"fmt"
	"strings"
)

// response is the provider envelope: every endpoint answers with named
// result sets of header/rowSet pairs.
type response struct {
	Resource   string      `json:"resource"`
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string              `json:"name"`
	Headers []string            `json:"headers"`
	RowSet  [][]json.RawMessage `json:"rowSet"`
}

// set returns the result set with the given name.
func (r response) set(name string) (resultSet, error) {
	for _, rs := range r.ResultSets {
		if strings.EqualFold(rs.Name, name) {
			return rs, nil
		}
	}
	return resultSet{}, fmt.Errorf("result set %q not found", name)
}

// columns maps header names to row indices for keyed cell access.
func (rs resultSet) columns() map[string]int {
	out := make(map[string]int, len(rs.Headers))
	for i, h := range rs.Headers {
		out[strings.ToUpper(h)] = i
	}
	return out
}

// cell helpers tolerate the provider's loose typing: numbers arrive as
// numbers or strings, and minutes sometimes as "34:12".

func cellString(row []json.RawMessage, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	var s string
	if err := json.Unmarshal(row[idx], &s); err == nil {
		return s
	}
	var f float64
	if err := json.Unmarshal(row[idx], &f); err == nil {
		return fmt.Sprintf("%v", f)
	}
	return ""
}

func cellFloat(row []json.RawMessage, idx int) float64 {
	if idx < 0 || idx >= len(row) {
		return 0
	}
	var f float64
	if err := json.Unmarshal(row[idx], &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(row[idx], &s); err == nil {
		// "34:12" minutes form: keep whole minutes.
		if i := strings.IndexByte(s, ':'); i > 0 {
			s = s[:i]
		}
		var v float64
		if _, err := fmt.Sscanf(strings.TrimSpace(s), "%f", &v); err == nil {
			return v
		}
	}
	return 0
}

func cellInt(row []json.RawMessage, idx int) int64 {
	return int64(cellFloat(row, idx))
}
