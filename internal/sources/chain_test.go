package sources

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hotshotprops/proplab/internal/pkg/models"
	"github.com/hotshotprops/proplab/internal/snapshot"
)

type fakeSource struct {
	name  string
	lines []models.PropLine
	err   error
	calls int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) FetchProps(ctx context.Context) ([]models.PropLine, error) {
	f.calls++
	return f.lines, f.err
}

func nLines(n int) []models.PropLine {
	out := make([]models.PropLine, n)
	for i := range out {
		out[i] = models.PropLine{Player: "Player", Stat: models.StatPoints, Line: 20.5}
	}
	return out
}

func TestChain_SecondSourceWinsThirdNeverInvoked(t *testing.T) {
	first := &fakeSource{name: "first"}
	second := &fakeSource{name: "second", lines: nLines(12)}
	third := &fakeSource{name: "third", lines: nLines(99)}
	chain := NewChain([]PropSource{first, second, third}, 1, snapshot.NewStore(t.TempDir(), 0))

	got := chain.Fetch(context.Background())

	if len(got) != 12 {
		t.Errorf("expected second source's 12 rows, got %d", len(got))
	}
	if first.calls != 1 || second.calls != 1 {
		t.Errorf("first and second should each be called once, got %d/%d", first.calls, second.calls)
	}
	if third.calls != 0 {
		t.Errorf("third source must never be invoked, got %d calls", third.calls)
	}
}

func TestChain_BelowMinRowsFallsThrough(t *testing.T) {
	small := &fakeSource{name: "small", lines: nLines(3)}
	big := &fakeSource{name: "big", lines: nLines(10)}
	chain := NewChain([]PropSource{small, big}, 5, snapshot.NewStore(t.TempDir(), 0))

	got := chain.Fetch(context.Background())

	if len(got) != 10 {
		t.Errorf("expected fallback past undersized result, got %d rows", len(got))
	}
}

func TestChain_AllFailReturnsSnapshot(t *testing.T) {
	snap := snapshot.NewStore(t.TempDir(), 0)
	if err := snap.Save("odds", nLines(7)); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
	down := &fakeSource{name: "down", err: errors.New("connection refused")}
	chain := NewChain([]PropSource{down}, 1, snap)

	got := chain.Fetch(context.Background())

	if len(got) != 7 {
		t.Errorf("expected 7 rows from snapshot fallback, got %d", len(got))
	}
}

func TestChain_AllFailNoSnapshotReturnsEmpty(t *testing.T) {
	down := &fakeSource{name: "down", err: errors.New("timeout")}
	chain := NewChain([]PropSource{down}, 1, snapshot.NewStore(t.TempDir(), 0))

	if got := chain.Fetch(context.Background()); len(got) != 0 {
		t.Errorf("expected empty result, got %d rows", len(got))
	}
}

func TestChain_SuccessOverwritesSnapshot(t *testing.T) {
	snap := snapshot.NewStore(t.TempDir(), 0)
	src := &fakeSource{name: "live", lines: nLines(4)}
	chain := NewChain([]PropSource{src}, 1, snap)

	chain.Fetch(context.Background())

	var persisted []models.PropLine
	if _, err := snap.Load("odds", &persisted); err != nil {
		t.Fatalf("snapshot should exist after successful fetch: %v", err)
	}
	if len(persisted) != 4 {
		t.Errorf("expected 4 persisted rows, got %d", len(persisted))
	}
}

func TestChain_LoadMissTriggersExactlyOneFetch(t *testing.T) {
	src := &fakeSource{name: "live", lines: nLines(2)}
	chain := NewChain([]PropSource{src}, 1, snapshot.NewStore(t.TempDir(), 0))

	got := chain.Load(context.Background())

	if len(got) != 2 {
		t.Errorf("expected fetched rows on snapshot miss, got %d", len(got))
	}
	if src.calls != 1 {
		t.Errorf("snapshot miss must trigger exactly one fetch, got %d", src.calls)
	}
}

func TestChain_LoadPrefersFreshSnapshot(t *testing.T) {
	snap := snapshot.NewStore(t.TempDir(), time.Hour)
	if err := snap.Save("odds", nLines(5)); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
	src := &fakeSource{name: "live", lines: nLines(50)}
	chain := NewChain([]PropSource{src}, 1, snap)

	got := chain.Load(context.Background())

	if len(got) != 5 {
		t.Errorf("expected snapshot rows, got %d", len(got))
	}
	if src.calls != 0 {
		t.Errorf("fresh snapshot must not trigger a fetch, got %d calls", src.calls)
	}
}

type fakeGameSource struct {
	games []models.GameRecord
	err   error
	calls int
}

func (f *fakeGameSource) Name() string { return "schedule" }

func (f *fakeGameSource) FetchGames(ctx context.Context) ([]models.GameRecord, error) {
	f.calls++
	return f.games, f.err
}

func TestCachedGames_FailedFetchDegradesToEmpty(t *testing.T) {
	src := &fakeGameSource{err: errors.New("502 bad gateway")}
	cached := NewCachedGames(src, snapshot.NewStore(t.TempDir(), 0))

	if got := cached.Load(context.Background()); len(got) != 0 {
		t.Errorf("expected empty games on total failure, got %d", len(got))
	}
	if src.calls != 1 {
		t.Errorf("expected exactly one fetch, got %d", src.calls)
	}
}

func TestCachedGames_LoadUsesSnapshot(t *testing.T) {
	snap := snapshot.NewStore(t.TempDir(), 0)
	seed := []models.GameRecord{{GameID: "0022500123", HomeTeam: "LAL", AwayTeam: "BOS"}}
	if err := snap.Save("games_today", seed); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
	src := &fakeGameSource{games: []models.GameRecord{{GameID: "other"}}}
	cached := NewCachedGames(src, snap)

	got := cached.Load(context.Background())

	if len(got) != 1 || got[0].GameID != "0022500123" {
		t.Errorf("expected snapshot game, got %+v", got)
	}
	if src.calls != 0 {
		t.Errorf("snapshot hit must not fetch, got %d calls", src.calls)
	}
}
