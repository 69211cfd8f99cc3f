package features

import (
	"github.com/hotshotprops/proplab/internal/pkg/models"
)

// HitRate is the fraction of recent games where the player cleared a line,
// over three lookbacks. A lookback longer than the log uses every game.
type HitRate struct {
	L5    float64 `json:"hit_rate_l5"`
	L10   float64 `json:"hit_rate_l10"`
	L20   float64 `json:"hit_rate_l20"`
	Games int     `json:"games"`
}

// HitRates computes over-the-line frequencies for one stat against a fixed
// line. Pushes (exact ties) count as misses, matching how books grade them
// on half-point lines where ties cannot happen anyway.
func HitRates(log []models.PlayerGameLog, stat models.StatCategory, line float64) HitRate {
	values := statSeries(log, stat)
	return HitRate{
		L5:    tailHitRate(values, 5, line),
		L10:   tailHitRate(values, 10, line),
		L20:   tailHitRate(values, 20, line),
		Games: len(values),
	}
}

func tailHitRate(values []float64, n int, line float64) float64 {
	if len(values) == 0 || n <= 0 {
		return 0
	}
	if n > len(values) {
		n = len(values)
	}
	tail := values[len(values)-n:]
	hits := 0
	for _, v := range tail {
		if v > line {
			hits++
		}
	}
	return float64(hits) / float64(len(tail))
}
