package nbastats

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hotshotprops/proplab/internal/snapshot"
)

const samplePlayerIndex = `{
  "resultSets": [
    {
      "name": "CommonAllPlayers",
      "headers": ["PERSON_ID", "DISPLAY_FIRST_LAST"],
      "rowSet": [
        [2544, "LeBron James"],
        [203999, "Nikola Jokic"]
      ]
    }
  ]
}`

const sampleGameLog = `{
  "resultSets": [
    {
      "name": "PlayerGameLog",
      "headers": ["GAME_DATE", "MATCHUP", "MIN", "PTS", "REB", "AST", "FG3M"],
      "rowSet": [
        ["FEB 20, 2025", "LAL vs. BOS", "36:40", 28, 8, 9, 2],
        ["FEB 18, 2025", "LAL @ DEN", 34, 31, 7, 11, 3],
        ["FEB 15, 2025", "LAL vs. GSW", 38, 25, 10, 8, 1]
      ]
    }
  ]
}`

func testGameLogSource(t *testing.T, handler http.HandlerFunc) *GameLogSource {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &GameLogSource{
		client:   NewClient(srv.URL, "", 5*time.Second),
		season:   "2024-25",
		maxGames: 20,
		snap:     snapshot.NewStore(t.TempDir(), 0),
	}
}

func routeStats(t *testing.T, gamelogBody string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/stats/commonallplayers":
			_, _ = w.Write([]byte(samplePlayerIndex))
		case "/stats/playergamelog":
			_, _ = w.Write([]byte(gamelogBody))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			http.NotFound(w, r)
		}
	}
}

func TestFetchGameLog_SortedOldestFirst(t *testing.T) {
	src := testGameLogSource(t, routeStats(t, sampleGameLog))

	logs, err := src.FetchGameLog(context.Background(), "LeBron James")
	if err != nil {
		t.Fatalf("FetchGameLog failed: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(logs))
	}
	for i := 1; i < len(logs); i++ {
		if logs[i].GameDate.Before(logs[i-1].GameDate) {
			t.Errorf("rows must be oldest first: %v before %v", logs[i].GameDate, logs[i-1].GameDate)
		}
	}
	last := logs[len(logs)-1]
	if last.Points != 28 || last.Rebounds != 8 || last.Assists != 9 || last.Threes != 2 {
		t.Errorf("unexpected newest row: %+v", last)
	}
	if last.Minutes != 36 {
		t.Errorf("clock-form minutes should parse to whole minutes, got %v", last.Minutes)
	}
}

func TestFetchGameLog_PartialNameResolves(t *testing.T) {
	src := testGameLogSource(t, routeStats(t, sampleGameLog))

	logs, err := src.FetchGameLog(context.Background(), "jokic")
	if err != nil {
		t.Fatalf("FetchGameLog failed: %v", err)
	}
	if len(logs) != 3 {
		t.Errorf("partial name should resolve via the index, got %d rows", len(logs))
	}
}

func TestFetchGameLog_UnknownPlayerIsEmpty(t *testing.T) {
	src := testGameLogSource(t, routeStats(t, sampleGameLog))

	logs, err := src.FetchGameLog(context.Background(), "Not A Player")
	if err != nil {
		t.Fatalf("unknown player must be absorbed, got error: %v", err)
	}
	if len(logs) != 0 {
		t.Errorf("expected empty log, got %d rows", len(logs))
	}
}

func TestFetchGameLog_ProviderErrorFallsBackToSnapshot(t *testing.T) {
	var failing atomic.Bool
	src := testGameLogSource(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/stats/commonallplayers":
			_, _ = w.Write([]byte(samplePlayerIndex))
		case "/stats/playergamelog":
			if failing.Load() {
				http.Error(w, "rate limited", http.StatusTooManyRequests)
				return
			}
			_, _ = w.Write([]byte(sampleGameLog))
		}
	})

	// First fetch succeeds and persists the snapshot.
	logs, err := src.FetchGameLog(context.Background(), "LeBron James")
	if err != nil || len(logs) != 3 {
		t.Fatalf("seed fetch failed: %v (%d rows)", err, len(logs))
	}

	failing.Store(true)
	logs, err = src.FetchGameLog(context.Background(), "LeBron James")
	if err != nil {
		t.Fatalf("provider error must be absorbed, got: %v", err)
	}
	if len(logs) != 3 {
		t.Errorf("expected snapshot fallback rows, got %d", len(logs))
	}
}

func TestFetchGameLog_TruncatesToMaxGames(t *testing.T) {
	src := testGameLogSource(t, routeStats(t, sampleGameLog))
	src.maxGames = 2

	logs, err := src.FetchGameLog(context.Background(), "LeBron James")
	if err != nil {
		t.Fatalf("FetchGameLog failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected truncation to 2 rows, got %d", len(logs))
	}
	// The most recent games survive truncation.
	if logs[1].GameDate.Format("2006-01-02") != "2025-02-20" {
		t.Errorf("expected newest row kept, got %v", logs[1].GameDate)
	}
}
