package model

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/hotshotprops/proplab/internal/features"
	"github.com/hotshotprops/proplab/internal/pkg/config"
	"github.com/hotshotprops/proplab/internal/pkg/models"
)

const (
	nameRegression = "ols-l5l10"
	nameWindowMean = "window-mean"
	nameBaseline   = "line-noise"
)

// Projector fits one regression per (player, stat) each cycle and falls
// back to the trailing window mean when the log is too thin to train on.
type Projector struct {
	short    int
	long     int
	minRows  int
	baseline bool
	rng      *rand.Rand
}

func NewProjector(cfg *config.ModelConfig) *Projector {
	return &Projector{
		short:    cfg.ShortWindow,
		long:     cfg.LongWindow,
		minRows:  cfg.MinTrainRows,
		baseline: cfg.UseBaseline,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Project returns the next-game projection for one (player, stat). The
// second return is false when the log is empty and nothing can be said.
func (p *Projector) Project(log []models.PlayerGameLog, stat models.StatCategory) (models.Projection, bool) {
	vec, ok := features.Vector(log, stat, p.short, p.long)
	if !ok {
		return models.Projection{}, false
	}

	proj := models.Projection{
		Player:    vec.Player,
		Stat:      stat,
		Value:     vec.MeanL5,
		ModelName: nameWindowMean,
	}

	rows := features.BuildTrainingSet(log, stat, p.short, p.long)
	if len(rows) < p.minRows {
		slog.Debug("Falling back to window mean",
			"player", vec.Player, "stat", stat, "train_rows", len(rows), "min", p.minRows)
		return proj, true
	}

	m, err := fitLinear(rows)
	if err != nil {
		slog.Debug("Regression fit failed, using window mean",
			"player", vec.Player, "stat", stat, "error", err)
		return proj, true
	}

	value := m.predict(vec.MeanL5, vec.MeanL10, vec.MinsL5)
	if value < 0 {
		value = 0
	}
	proj.Value = value
	proj.ModelName = nameRegression
	return proj, true
}

// ProjectLine covers the baseline mode: the posted line plus a small
// uniform jitter. It exists to exercise the rest of the pipeline when no
// game logs are available, not to find edges.
func (p *Projector) ProjectLine(player string, stat models.StatCategory, line float64) models.Projection {
	return models.Projection{
		Player:    player,
		Stat:      stat,
		Value:     line + (p.rng.Float64()*4 - 2),
		ModelName: nameBaseline,
	}
}

// UseBaseline reports whether the projector was configured for the
// line-plus-noise stub instead of the regression.
func (p *Projector) UseBaseline() bool { return p.baseline }
