// Package edge compares model projections against sportsbook lines and
// quantifies the disagreement.
package edge

import (
	"math"
	"sort"
	"time"

	"github.com/hotshotprops/proplab/internal/pkg/config"
	"github.com/hotshotprops/proplab/internal/pkg/models"
)

// Calculator scores (projection, line) pairs. EVScale converts raw stat
// distance into a rough expected-value figure; it is a display knob, not a
// calibrated payout model.
type Calculator struct {
	evScale float64
	minEdge float64
	now     func() time.Time
}

func NewCalculator(cfg *config.EdgeConfig) *Calculator {
	scale := cfg.EVScale
	if scale <= 0 {
		scale = 1.5
	}
	return &Calculator{
		evScale: scale,
		minEdge: cfg.MinEdgePercent,
		now:     time.Now,
	}
}

// Compute scores one pair. Returns false when the line is non-positive,
// which makes the percentage undefined.
func (c *Calculator) Compute(proj models.Projection, prop models.PropLine) (models.EdgeResult, bool) {
	if prop.Line <= 0 {
		return models.EdgeResult{}, false
	}
	diff := proj.Value - prop.Line
	return models.EdgeResult{
		Player:       prop.Player,
		Stat:         prop.Stat,
		Book:         prop.Book,
		Line:         prop.Line,
		Projection:   proj.Value,
		EdgePercent:  math.Abs(diff) / prop.Line * 100,
		EVOver:       diff * c.evScale,
		EVUnder:      -diff * c.evScale,
		ImpliedOver:  AmericanToImplied(prop.PriceOver),
		ImpliedUnder: AmericanToImplied(prop.PriceUnder),
		ComputedAt:   c.now().UTC(),
	}, true
}

// ComputeAll joins projections against prop lines on (player, stat) and
// scores the intersection. Pairs present on only one side are dropped
// silently; the result is sorted by edge percent descending so the most
// interesting rows surface first.
func (c *Calculator) ComputeAll(projections []models.Projection, props []models.PropLine) []models.EdgeResult {
	type key struct {
		player string
		stat   models.StatCategory
	}
	byKey := make(map[key]models.Projection, len(projections))
	for _, p := range projections {
		byKey[key{p.Player, p.Stat}] = p
	}

	out := make([]models.EdgeResult, 0, len(props))
	for _, prop := range props {
		proj, ok := byKey[key{prop.Player, prop.Stat}]
		if !ok {
			continue
		}
		res, ok := c.Compute(proj, prop)
		if !ok || res.EdgePercent < c.minEdge {
			continue
		}
		out = append(out, res)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EdgePercent > out[j].EdgePercent
	})
	return out
}

// AmericanToImplied converts an American price to its implied probability.
// Zero means unquoted and maps to zero.
func AmericanToImplied(price int) float64 {
	switch {
	case price == 0:
		return 0
	case price > 0:
		return 100 / (float64(price) + 100)
	default:
		p := float64(-price)
		return p / (p + 100)
	}
}
