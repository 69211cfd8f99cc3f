package fanduel

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hotshotprops/proplab/internal/pkg/models"
)

const samplePage = `<html><body>
<div class="market">
  <button aria-label="LeBron James Points Over 25.5 -115">O 25.5</button>
  <button aria-label="LeBron James Points Under 25.5 -105">U 25.5</button>
  <button aria-label="Jayson Tatum Rebounds Over 8.5 -110">O 8.5</button>
  <button aria-label="Jayson Tatum Rebounds Under 8.5 -110">U 8.5</button>
  <button aria-label="Luka Doncic Pts + Rebs + Asts Over 48.5 -105">O 48.5</button>
  <button aria-label="Luka Doncic Pts + Rebs + Asts Under 48.5 -115">U 48.5</button>
  <button aria-label="Stephen Curry Made Threes Over 4.5 -125">O 4.5</button>
  <button aria-label="Add to betslip">+</button>
  <span aria-label="Game time 7:30 PM ET">7:30</span>
</div>
</body></html>`

func TestParseProps_PairsOverUnder(t *testing.T) {
	lines := ParseProps(samplePage)

	if len(lines) != 4 {
		t.Fatalf("expected 4 props, got %d: %+v", len(lines), lines)
	}

	lbj := lines[0]
	if lbj.Player != "LeBron James" || lbj.Stat != models.StatPoints || lbj.Line != 25.5 {
		t.Errorf("unexpected first prop: %+v", lbj)
	}
	if lbj.PriceOver != -115 || lbj.PriceUnder != -105 {
		t.Errorf("over/under not paired: %+v", lbj)
	}

	luka := lines[2]
	if luka.Stat != models.StatPRA || luka.Line != 48.5 {
		t.Errorf("PRA label not recognized: %+v", luka)
	}

	curry := lines[3]
	if curry.Stat != models.StatThrees || curry.PriceOver != -125 || curry.PriceUnder != 0 {
		t.Errorf("one-sided quote should keep the missing side at 0: %+v", curry)
	}
}

func TestParseProps_IgnoresUnreadableMarkup(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"empty", ""},
		{"no_labels", `<html><body><div>nothing here</div></body></html>`},
		{"garbage_labels", `<button aria-label="???">x</button>`},
		{"zero_line", `<button aria-label="Some Player Points Over 0 -110">x</button>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseProps(tt.html); len(got) != 0 {
				t.Errorf("expected no props, got %+v", got)
			}
		})
	}
}

func testHTTPSource(t *testing.T, handler http.HandlerFunc) *Source {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Source{
		pageURL:     srv.URL,
		userAgent:   defaultUserAgent,
		timeout:     5 * time.Second,
		maxAttempts: 2,
		client:      srv.Client(),
	}
}

func TestFetchProps_PlainGetPath(t *testing.T) {
	src := testHTTPSource(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(samplePage))
	})

	lines, err := src.FetchProps(context.Background())
	if err != nil {
		t.Fatalf("FetchProps failed: %v", err)
	}
	if len(lines) != 4 {
		t.Errorf("expected 4 props, got %d", len(lines))
	}
}

func TestFetchProps_BlockedPageIsEmpty(t *testing.T) {
	var hits int
	src := testHTTPSource(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "access denied", http.StatusForbidden)
	})

	lines, err := src.FetchProps(context.Background())
	if err != nil {
		t.Fatalf("blocked page must be absorbed, got error: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("expected empty result, got %d", len(lines))
	}
	if hits != 2 {
		t.Errorf("expected bounded retry (2 attempts), got %d", hits)
	}
}

func TestFetchProps_BrowserPathUsesRenderer(t *testing.T) {
	src := &Source{
		pageURL:     "https://example.invalid/nba",
		useBrowser:  true,
		maxAttempts: 1,
		timeout:     time.Second,
		render: func(ctx context.Context, pageURL, userAgent string, renderWait, timeout time.Duration) (string, error) {
			return samplePage, nil
		},
	}

	lines, err := src.FetchProps(context.Background())
	if err != nil {
		t.Fatalf("FetchProps failed: %v", err)
	}
	if len(lines) != 4 {
		t.Errorf("expected rendered page to parse, got %d props", len(lines))
	}
}

func TestFetchProps_RendererFailureIsEmpty(t *testing.T) {
	src := &Source{
		pageURL:     "https://example.invalid/nba",
		useBrowser:  true,
		maxAttempts: 1,
		timeout:     time.Second,
		render: func(ctx context.Context, pageURL, userAgent string, renderWait, timeout time.Duration) (string, error) {
			return "", errors.New("chrome crashed")
		},
	}

	lines, err := src.FetchProps(context.Background())
	if err != nil {
		t.Fatalf("renderer failure must be absorbed, got error: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("expected empty result, got %d", len(lines))
	}
}
