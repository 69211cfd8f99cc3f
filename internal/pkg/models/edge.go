package models

import (
	"time"
)

// EdgeResult joins a Projection with the PropLine quoted for the same
// (player, stat) pair. It is the final artifact handed to presentation.
type EdgeResult struct {
	Player       string       `json:"player"`
	Stat         StatCategory `json:"prop_type"`
	Book         string       `json:"book"`
	Line         float64      `json:"line"`
	Projection   float64      `json:"model_projection"`
	EdgePercent  float64      `json:"edge_pct"`
	EVOver       float64      `json:"expected_value_over"`
	EVUnder      float64      `json:"expected_value_under"`
	ImpliedOver  float64      `json:"implied_over,omitempty"`  // from quoted price, 0 when unpriced
	ImpliedUnder float64      `json:"implied_under,omitempty"` // from quoted price, 0 when unpriced
	ComputedAt   time.Time    `json:"timestamp"`
}
