package oddsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hotshotprops/proplab/internal/pkg/models"
)

const sampleEvents = `[
  {
    "id": "e1",
    "sport_key": "basketball_nba",
    "commence_time": "2025-03-01T00:10:00Z",
    "home_team": "Los Angeles Lakers",
    "away_team": "Boston Celtics",
    "bookmakers": [
      {
        "key": "draftkings",
        "title": "DraftKings",
        "markets": [
          {
            "key": "player_points",
            "outcomes": [
              {"name": "Over", "description": "LeBron James", "price": -115, "point": 25.5},
              {"name": "Under", "description": "LeBron James", "price": -105, "point": 25.5},
              {"name": "Over", "description": "", "price": -110, "point": 18.5}
            ]
          },
          {
            "key": "player_threes",
            "outcomes": [
              {"name": "Over", "description": "Stephen Curry", "price": -125, "point": 4.5},
              {"name": "Under", "description": "Stephen Curry", "price": 105, "point": 4.5}
            ]
          },
          {
            "key": "h2h",
            "outcomes": [
              {"name": "Los Angeles Lakers", "price": -150},
              {"name": "Boston Celtics", "price": 130}
            ]
          }
        ]
      }
    ]
  }
]`

func testSource(t *testing.T, handler http.HandlerFunc) *Source {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Source{client: NewClient(srv.URL, "test-key", "us", nil, 5*time.Second)}
}

func TestFetchProps_FlattensAndPairsOutcomes(t *testing.T) {
	src := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apiKey") != "test-key" {
			t.Errorf("missing apiKey query param")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleEvents))
	})

	lines, err := src.FetchProps(context.Background())
	if err != nil {
		t.Fatalf("FetchProps failed: %v", err)
	}

	// The playerless outcome and the h2h market must be excluded.
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %+v", len(lines), lines)
	}

	lbj := lines[0]
	if lbj.Player != "LeBron James" || lbj.Stat != models.StatPoints {
		t.Errorf("unexpected first line: %+v", lbj)
	}
	if lbj.Line != 25.5 || lbj.PriceOver != -115 || lbj.PriceUnder != -105 {
		t.Errorf("over/under not paired onto one line: %+v", lbj)
	}
	if lbj.Book != "DraftKings" || lbj.Game != "Boston Celtics @ Los Angeles Lakers" {
		t.Errorf("metadata not carried: %+v", lbj)
	}

	curry := lines[1]
	if curry.Stat != models.StatThrees || curry.Line != 4.5 || curry.PriceUnder != 105 {
		t.Errorf("unexpected threes line: %+v", curry)
	}
}

func TestFetchProps_NonSuccessStatusReturnsEmpty(t *testing.T) {
	src := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusUnauthorized)
	})

	lines, err := src.FetchProps(context.Background())
	if err != nil {
		t.Fatalf("bad status must be absorbed, got error: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("expected empty result on bad status, got %d", len(lines))
	}
}

func TestFetchProps_MalformedPayloadReturnsEmpty(t *testing.T) {
	src := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"unexpected": "shape"`))
	})

	lines, err := src.FetchProps(context.Background())
	if err != nil {
		t.Fatalf("malformed payload must be absorbed, got error: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("expected empty result on malformed payload, got %d", len(lines))
	}
}

func TestFetchProps_MissingAPIKeyIsAnError(t *testing.T) {
	src := &Source{client: NewClient("http://localhost:0", "", "us", nil, time.Second)}

	if _, err := src.FetchProps(context.Background()); err == nil {
		t.Error("missing api key should surface as an error")
	}
}

func TestStatForMarket(t *testing.T) {
	tests := []struct {
		key  string
		want models.StatCategory
		ok   bool
	}{
		{"player_points", models.StatPoints, true},
		{"player_rebounds", models.StatRebounds, true},
		{"player_assists", models.StatAssists, true},
		{"player_threes", models.StatThrees, true},
		{"h2h", "", false},
		{"totals", "", false},
	}
	for _, tt := range tests {
		got, ok := statForMarket(tt.key)
		if got != tt.want || ok != tt.ok {
			t.Errorf("statForMarket(%q) = %q,%v want %q,%v", tt.key, got, ok, tt.want, tt.ok)
		}
	}
}
