package prizepicks

// API models for the public PrizePicks projections feed (JSON:API shape).
// Projections: GET /projections?league_id=7 (7 = NBA)

type projectionsResponse struct {
	Data     []resource `json:"data"`
	Included []resource `json:"included"`
}

type resource struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Attributes attributes `json:"attributes"`
}

type attributes struct {
	// projection attributes
	LineScore float64 `json:"line_score"`
	StatType  string  `json:"stat_type"`
	PlayerID  any     `json:"player_id"` // number or string depending on feed version
	LeagueID  int     `json:"league_id"`

	// player attributes (included resources)
	Name string `json:"name"`
	Team string `json:"team"`
}
