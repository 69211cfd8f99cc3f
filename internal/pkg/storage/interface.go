// Package storage persists scored edges beyond a single process run.
package storage

import (
	"context"
	"time"

	"github.com/hotshotprops/proplab/internal/pkg/models"
)

// EdgeHistory is the durable record of scored edges per slate date.
// The dashboard runs fine without one; persistence is optional by config.
type EdgeHistory interface {
	StoreEdge(ctx context.Context, slateDate time.Time, e models.EdgeResult) error
	GetEdges(ctx context.Context, slateDate time.Time) ([]models.EdgeResult, error)
	CleanPastSlates(ctx context.Context, keepDays int) error
	Close() error
}
