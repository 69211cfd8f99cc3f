// Package sources defines the capability interfaces for the external data
// adapters and the fallback chain that orders them. Adapters absorb
// connectivity errors, bad status codes and malformed payloads at their own
// boundary; the chain only ever sees row counts.
package sources

import (
	"context"

	"github.com/hotshotprops/proplab/internal/pkg/models"
)

// PropSource fetches player-prop lines from one external provider.
// Implementations return an error only for caller-visible problems
// (cancelled context, missing credentials); a provider that is down or
// answering garbage yields an empty slice.
type PropSource interface {
	// Name returns the source name used in config ordering and snapshots.
	Name() string

	// FetchProps fetches the current prop lines. Rows missing the fields
	// required by downstream joins are already excluded.
	FetchProps(ctx context.Context) ([]models.PropLine, error)
}

// GameSource fetches the schedule for the current date.
type GameSource interface {
	Name() string
	FetchGames(ctx context.Context) ([]models.GameRecord, error)
}

// GameLogSource fetches historical box-score rows for one named player,
// ordered by game date ascending.
type GameLogSource interface {
	Name() string
	FetchGameLog(ctx context.Context, player string) ([]models.PlayerGameLog, error)
}
