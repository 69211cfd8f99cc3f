package models

import (
	"time"
)

// FeatureVector holds trailing rolling means for one player as of one game.
// Derived and ephemeral: recomputed each cycle from the game log, never
// treated as ground truth.
type FeatureVector struct {
	Player  string       `json:"player"`
	Stat    StatCategory `json:"stat"`
	AsOf    time.Time    `json:"as_of"` // date of the last game inside the window
	MeanL5  float64      `json:"mean_l5"`
	MeanL10 float64      `json:"mean_l10"`
	MinsL5  float64      `json:"mins_l5"`
	Games   int          `json:"games"` // log rows behind this vector
}

// Projection is the model output for one (player, stat) pair.
type Projection struct {
	Player    string       `json:"player"`
	Stat      StatCategory `json:"prop_type"`
	Value     float64      `json:"model_projection"`
	ModelName string       `json:"model"`
}
