package oddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.the-odds-api.com/v4/sports/basketball_nba/odds/"

type Client struct {
	baseURL string
	apiKey  string
	regions string
	markets []string
	client  *http.Client
}

func NewClient(baseURL, apiKey, regions string, markets []string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if regions == "" {
		regions = "us"
	}
	if len(markets) == 0 {
		markets = []string{"player_points", "player_rebounds", "player_assists", "player_threes"}
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		regions: regions,
		markets: markets,
		client:  &http.Client{Timeout: timeout},
	}
}

// GetEvents returns current NBA events with player-prop markets attached.
func (c *Client) GetEvents(ctx context.Context) ([]Event, error) {
	q := url.Values{}
	q.Set("apiKey", c.apiKey)
	q.Set("regions", c.regions)
	q.Set("markets", strings.Join(c.markets, ","))
	q.Set("oddsFormat", "american")

	body, err := c.get(ctx, c.baseURL+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var events []Event
	if err := json.NewDecoder(body).Decode(&events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}

func (c *Client) get(ctx context.Context, u string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
