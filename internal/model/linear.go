// Package model produces per-stat projections from rolling features.
// The regression is deliberately small: three features and an intercept,
// refit from scratch on every cycle from at most a season of games.
package model

import (
	"fmt"
	"math"

	"github.com/hotshotprops/proplab/internal/features"
)

// linearModel holds OLS coefficients for one stat category.
// y = b0 + b1*statShort + b2*statLong + b3*minsShort
type linearModel struct {
	coef [4]float64
}

// fitLinear solves the normal equations X'X b = X'y by Gaussian elimination
// with partial pivoting. At four unknowns a linear algebra dependency would
// be heavier than the solver itself.
func fitLinear(rows []features.TrainingRow) (*linearModel, error) {
	const n = 4
	if len(rows) < n {
		return nil, fmt.Errorf("need at least %d rows, have %d", n, len(rows))
	}

	var xtx [n][n]float64
	var xty [n]float64
	for _, r := range rows {
		x := [n]float64{1, r.StatShort, r.StatLong, r.MinsShort}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				xtx[i][j] += x[i] * x[j]
			}
			xty[i] += x[i] * r.Target
		}
	}

	// Augment and eliminate.
	var aug [n][n + 1]float64
	for i := 0; i < n; i++ {
		copy(aug[i][:n], xtx[i][:])
		aug[i][n] = xty[i]
	}
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(aug[r][col]) > math.Abs(aug[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(aug[pivot][col]) < 1e-10 {
			return nil, fmt.Errorf("singular design matrix at column %d", col)
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			f := aug[r][col] / aug[col][col]
			for c := col; c <= n; c++ {
				aug[r][c] -= f * aug[col][c]
			}
		}
	}

	var m linearModel
	for i := 0; i < n; i++ {
		m.coef[i] = aug[i][n] / aug[i][i]
		if math.IsNaN(m.coef[i]) || math.IsInf(m.coef[i], 0) {
			return nil, fmt.Errorf("unstable fit, coefficient %d is %v", i, m.coef[i])
		}
	}
	return &m, nil
}

func (m *linearModel) predict(statShort, statLong, minsShort float64) float64 {
	return m.coef[0] + m.coef[1]*statShort + m.coef[2]*statLong + m.coef[3]*minsShort
}
