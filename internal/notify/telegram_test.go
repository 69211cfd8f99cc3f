package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/hotshotprops/proplab/internal/pkg/models"
)

func TestFormatEdgeAlert(t *testing.T) {
	e := models.EdgeResult{
		Player:      "LeBron James",
		Stat:        models.StatPoints,
		Book:        "FanDuel",
		Line:        25.5,
		Projection:  27.0,
		EdgePercent: 5.88,
		EVOver:      2.25,
		EVUnder:     -2.25,
	}

	msg := FormatEdgeAlert(e, 5.0)
	for _, want := range []string{"LeBron James", "PTS", "25.5", "27.0", "5.88%", "Over", "+2.25", "FanDuel"} {
		if !strings.Contains(msg, want) {
			t.Errorf("alert missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatEdgeAlert_UnderLean(t *testing.T) {
	e := models.EdgeResult{
		Player:      "Jayson Tatum",
		Stat:        models.StatRebounds,
		Book:        "FanDuel",
		Line:        8.5,
		Projection:  7.0,
		EdgePercent: 17.6,
		EVOver:      -2.25,
		EVUnder:     2.25,
	}

	msg := FormatEdgeAlert(e, 10.0)
	if !strings.Contains(msg, "Under") {
		t.Errorf("projection below line should lean Under:\n%s", msg)
	}
}

func TestShouldAlert_Cooldown(t *testing.T) {
	n := &TelegramNotifier{
		cooldown:  time.Hour,
		lastAlert: make(map[string]time.Time),
	}
	e := models.EdgeResult{Player: "A", Stat: models.StatPoints, Book: "FanDuel"}
	now := time.Now()

	if !n.shouldAlert(e, now) {
		t.Fatal("first alert must pass")
	}
	if n.shouldAlert(e, now.Add(30*time.Minute)) {
		t.Error("repeat inside cooldown must be suppressed")
	}
	if !n.shouldAlert(e, now.Add(2*time.Hour)) {
		t.Error("alert after cooldown must pass again")
	}

	other := models.EdgeResult{Player: "A", Stat: models.StatRebounds, Book: "FanDuel"}
	if !n.shouldAlert(other, now.Add(time.Minute)) {
		t.Error("different stat is a different key and must pass")
	}
}
