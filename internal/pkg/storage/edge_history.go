package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/hotshotprops/proplab/internal/pkg/config"
	"github.com/hotshotprops/proplab/internal/pkg/models"
)

// Ensure PostgresEdgeHistory implements EdgeHistory
var _ EdgeHistory = (*PostgresEdgeHistory)(nil)

// PostgresEdgeHistory keeps one row per (date, player, stat, book) so the
// evening's best edge survives restarts and can be reviewed after games
// settle. Each refresh upserts; re-running a cycle never duplicates rows.
type PostgresEdgeHistory struct {
	db *sql.DB
}

func NewPostgresEdgeHistory(cfg *config.PostgresConfig) (*PostgresEdgeHistory, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &PostgresEdgeHistory{db: db}
	if err := s.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL edge history initialized successfully")
	return s, nil
}

func (s *PostgresEdgeHistory) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS edge_history (
		id SERIAL PRIMARY KEY,
		slate_date DATE NOT NULL,
		player VARCHAR(200) NOT NULL,
		stat VARCHAR(20) NOT NULL,
		book VARCHAR(100) NOT NULL,
		line DECIMAL(8, 2) NOT NULL,
		projection DECIMAL(8, 3) NOT NULL,
		edge_pct DECIMAL(8, 3) NOT NULL,
		ev_over DECIMAL(8, 3) NOT NULL,
		ev_under DECIMAL(8, 3) NOT NULL,
		computed_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		UNIQUE(slate_date, player, stat, book)
	);

	CREATE INDEX IF NOT EXISTS idx_edge_history_slate_date ON edge_history(slate_date);
	CREATE INDEX IF NOT EXISTS idx_edge_history_player ON edge_history(player, stat);
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// StoreEdge upserts one scored edge for today's slate. The line and
// projection move through the evening; the row always reflects the latest
// cycle.
func (s *PostgresEdgeHistory) StoreEdge(ctx context.Context, slateDate time.Time, e models.EdgeResult) error {
	query := `
	INSERT INTO edge_history (
		slate_date, player, stat, book,
		line, projection, edge_pct, ev_over, ev_under, computed_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (slate_date, player, stat, book) DO UPDATE SET
		line = EXCLUDED.line,
		projection = EXCLUDED.projection,
		edge_pct = EXCLUDED.edge_pct,
		ev_over = EXCLUDED.ev_over,
		ev_under = EXCLUDED.ev_under,
		computed_at = EXCLUDED.computed_at
	`
	_, err := s.db.ExecContext(ctx, query,
		slateDate.Format("2006-01-02"), e.Player, string(e.Stat), e.Book,
		e.Line, e.Projection, e.EdgePercent, e.EVOver, e.EVUnder, e.ComputedAt,
	)
	return err
}

// GetEdges returns every stored edge for one slate date, best first.
func (s *PostgresEdgeHistory) GetEdges(ctx context.Context, slateDate time.Time) ([]models.EdgeResult, error) {
	query := `
	SELECT player, stat, book, line, projection, edge_pct, ev_over, ev_under, computed_at
	FROM edge_history
	WHERE slate_date = $1
	ORDER BY edge_pct DESC
	`
	rows, err := s.db.QueryContext(ctx, query, slateDate.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query edge history: %w", err)
	}
	defer rows.Close()

	var out []models.EdgeResult
	for rows.Next() {
		var e models.EdgeResult
		var stat string
		if err := rows.Scan(&e.Player, &stat, &e.Book, &e.Line, &e.Projection,
			&e.EdgePercent, &e.EVOver, &e.EVUnder, &e.ComputedAt); err != nil {
			return nil, fmt.Errorf("failed to scan edge row: %w", err)
		}
		e.Stat = models.StatCategory(stat)
		out = append(out, e)
	}
	return out, rows.Err()
}

// CleanPastSlates deletes rows older than the given number of days.
func (s *PostgresEdgeHistory) CleanPastSlates(ctx context.Context, keepDays int) error {
	query := `DELETE FROM edge_history WHERE slate_date < NOW() - ($1 || ' days')::INTERVAL`
	res, err := s.db.ExecContext(ctx, query, keepDays)
	if err != nil {
		return fmt.Errorf("failed to clean edge_history: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows > 0 {
		slog.Info("Cleaned old edge history", "rows_deleted", rows)
	}
	return nil
}

// Close closes the database connection.
func (s *PostgresEdgeHistory) Close() error {
	return s.db.Close()
}
