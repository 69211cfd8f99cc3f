// Package features turns raw game logs into the rolling aggregates the
// projection model and the dashboard consume.
package features

import (
	"github.com/hotshotprops/proplab/internal/pkg/models"
)

// RollingMeans returns the trailing mean of every full window of size w.
// Entry i covers values[i : i+w]. A log of L rows yields max(0, L-w+1)
// entries; partial windows are never emitted.
func RollingMeans(values []float64, w int) []float64 {
	if w <= 0 || len(values) < w {
		return nil
	}
	out := make([]float64, 0, len(values)-w+1)
	var sum float64
	for i, v := range values {
		sum += v
		if i >= w {
			sum -= values[i-w]
		}
		if i >= w-1 {
			out = append(out, sum/float64(w))
		}
	}
	return out
}

// statSeries extracts one category from a log, oldest first.
func statSeries(log []models.PlayerGameLog, stat models.StatCategory) []float64 {
	out := make([]float64, len(log))
	for i, g := range log {
		out[i] = g.Stat(stat)
	}
	return out
}

func minutesSeries(log []models.PlayerGameLog) []float64 {
	out := make([]float64, len(log))
	for i, g := range log {
		out[i] = g.Minutes
	}
	return out
}

// tailMean averages the last n values, or all of them when fewer exist.
func tailMean(values []float64, n int) float64 {
	if len(values) == 0 || n <= 0 {
		return 0
	}
	if n > len(values) {
		n = len(values)
	}
	var sum float64
	for _, v := range values[len(values)-n:] {
		sum += v
	}
	return sum / float64(n)
}

// TrainingRow pairs a feature vector with the stat the player actually put
// up in the following game. The target is always the NEXT game, never the
// one closing the window, so the model cannot see its own answer.
type TrainingRow struct {
	StatShort float64 // trailing short-window mean of the stat
	StatLong  float64 // trailing long-window mean of the stat
	MinsShort float64 // trailing short-window mean of minutes
	Target    float64 // stat in the game after the window
}

// BuildTrainingSet walks the log oldest to newest and emits one row per
// position where the long window is full and a next game exists. A log of
// L rows with long window W yields max(0, L-W) rows.
func BuildTrainingSet(log []models.PlayerGameLog, stat models.StatCategory, short, long int) []TrainingRow {
	if short <= 0 || long <= 0 || long < short || len(log) <= long {
		return nil
	}
	stats := statSeries(log, stat)
	mins := minutesSeries(log)

	rows := make([]TrainingRow, 0, len(log)-long)
	for end := long - 1; end < len(log)-1; end++ {
		rows = append(rows, TrainingRow{
			StatShort: tailMean(stats[:end+1], short),
			StatLong:  tailMean(stats[:end+1], long),
			MinsShort: tailMean(mins[:end+1], short),
			Target:    stats[end+1],
		})
	}
	return rows
}

// Vector builds the current feature vector for one (player, stat) from the
// full log. Unlike training rows it tolerates short logs: the means shrink
// to whatever history exists. Returns false only on an empty log.
func Vector(log []models.PlayerGameLog, stat models.StatCategory, short, long int) (models.FeatureVector, bool) {
	if len(log) == 0 {
		return models.FeatureVector{}, false
	}
	stats := statSeries(log, stat)
	return models.FeatureVector{
		Player:  log[0].Player,
		Stat:    stat,
		AsOf:    log[len(log)-1].GameDate,
		MeanL5:  tailMean(stats, short),
		MeanL10: tailMean(stats, long),
		MinsL5:  tailMean(minutesSeries(log), short),
		Games:   len(log),
	}, true
}
