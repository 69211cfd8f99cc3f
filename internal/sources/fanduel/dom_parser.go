package fanduel

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/hotshotprops/proplab/internal/pkg/models"
)

// The sportsbook renders each priced side as a button whose aria-label reads
// like "LeBron James Points Over 25.5 -115". Scraping keys off those labels
// rather than the class soup, which churns with every frontend deploy.
var propLabelRe = regexp.MustCompile(
	`^(.+?)\s+(Points|Rebounds|Assists|Made Threes|Threes|Pts \+ Rebs \+ Asts)\s+(Over|Under)\s+(\d+(?:\.\d+)?)\s+([-+]\d+)$`)

// ParseProps extracts prop lines from a rendered sportsbook page. Over and
// Under sides of the same (player, stat, line) are folded into one row;
// labels the pattern cannot read are skipped.
func ParseProps(html string) []models.PropLine {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	type key struct {
		player string
		stat   models.StatCategory
		line   float64
	}
	byProp := make(map[key]*models.PropLine)
	var order []key
	now := time.Now().UTC()

	doc.Find("[aria-label]").Each(func(_ int, sel *goquery.Selection) {
		label, _ := sel.Attr("aria-label")
		m := propLabelRe.FindStringSubmatch(strings.TrimSpace(label))
		if m == nil {
			return
		}
		stat, ok := statForLabel(m[2])
		if !ok {
			return
		}
		line, err := strconv.ParseFloat(m[4], 64)
		if err != nil || line <= 0 {
			return
		}
		price, err := strconv.Atoi(m[5])
		if err != nil {
			return
		}

		k := key{player: strings.TrimSpace(m[1]), stat: stat, line: line}
		prop, exists := byProp[k]
		if !exists {
			prop = &models.PropLine{
				Player:    k.player,
				Stat:      stat,
				Line:      line,
				Book:      "FanDuel",
				Source:    "FanDuel Sportsbook",
				FetchedAt: now,
			}
			byProp[k] = prop
			order = append(order, k)
		}
		if m[3] == "Under" {
			prop.PriceUnder = price
		} else {
			prop.PriceOver = price
		}
	})

	out := make([]models.PropLine, 0, len(order))
	for _, k := range order {
		if byProp[k].Joinable() {
			out = append(out, *byProp[k])
		}
	}
	return out
}

func statForLabel(label string) (models.StatCategory, bool) {
	switch label {
	case "Points":
		return models.StatPoints, true
	case "Rebounds":
		return models.StatRebounds, true
	case "Assists":
		return models.StatAssists, true
	case "Made Threes", "Threes":
		return models.StatThrees, true
	case "Pts + Rebs + Asts":
		return models.StatPRA, true
	}
	return "", false
}
