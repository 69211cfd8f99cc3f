package nbastats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://stats.nba.com"

// browserUserAgent: the stats API rejects requests without browser-like
// headers.
const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	if userAgent == "" {
		userAgent = browserUserAgent
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (response, error) {
	u := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return response{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("Origin", "https://www.nba.com")
	req.Header.Set("x-nba-stats-origin", "stats")
	req.Header.Set("x-nba-stats-token", "true")

	resp, err := c.client.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return response{}, fmt.Errorf("status %d", resp.StatusCode)
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return response{}, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

// GetScoreboard returns the scoreboard for one provider-local date.
func (c *Client) GetScoreboard(ctx context.Context, leagueID, gameDate string) (response, error) {
	params := url.Values{}
	params.Set("LeagueID", leagueID)
	params.Set("GameDate", gameDate)
	params.Set("DayOffset", "0")
	return c.get(ctx, "/stats/scoreboardv2", params)
}

// GetPlayerGameLog returns one player's box-score rows for a season.
func (c *Client) GetPlayerGameLog(ctx context.Context, playerID int64, season string) (response, error) {
	params := url.Values{}
	params.Set("PlayerID", fmt.Sprintf("%d", playerID))
	params.Set("Season", season)
	params.Set("SeasonType", "Regular Season")
	return c.get(ctx, "/stats/playergamelog", params)
}

// GetAllPlayers returns the current-season player index.
func (c *Client) GetAllPlayers(ctx context.Context, leagueID, season string) (response, error) {
	params := url.Values{}
	params.Set("LeagueID", leagueID)
	params.Set("Season", season)
	params.Set("IsOnlyCurrentSeason", "1")
	return c.get(ctx, "/stats/commonallplayers", params)
}
