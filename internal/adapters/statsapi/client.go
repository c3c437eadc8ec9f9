// Package statsapi is a thin client for the MLB Stats API, used to resolve
// player names and rosters.
package statsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ubrstats/ubr/pkg/metrics"
)

const (
	defaultBaseURL = "https://statsapi.mlb.com/api/v1"
	userAgent      = "ubr/1.0"
	timeout        = 30 * time.Second
	maxRetries     = 3
	retryDelay     = 2 * time.Second
)

// Person is one player record from the people endpoints.
type Person struct {
	ID          int64  `json:"id"`
	FullName    string `json:"fullName"`
	CurrentTeam *Team  `json:"currentTeam,omitempty"`
}

// Team identifies an MLB team.
type Team struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RosterEntry is one player on a team roster.
type RosterEntry struct {
	Person   Person `json:"person"`
	Position struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"position"`
}

// Client calls the MLB Stats API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (used in tests).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = base
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a Stats API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchPeople resolves players by full name.
func (c *Client) SearchPeople(ctx context.Context, name string) ([]Person, error) {
	params := url.Values{}
	params.Set("names", name)

	var resp struct {
		People []Person `json:"people"`
	}
	if err := c.getJSON(ctx, "people_search", "/people/search", params, &resp); err != nil {
		return nil, fmt.Errorf("search people %q: %w", name, err)
	}
	return resp.People, nil
}

// SeasonPlayers lists all MLB players for a season.
func (c *Client) SeasonPlayers(ctx context.Context, season int) ([]Person, error) {
	params := url.Values{}
	params.Set("season", strconv.Itoa(season))

	var resp struct {
		People []Person `json:"people"`
	}
	if err := c.getJSON(ctx, "season_players", "/sports/1/players", params, &resp); err != nil {
		return nil, fmt.Errorf("season players %d: %w", season, err)
	}
	return resp.People, nil
}

// TeamRoster returns a team's roster for a season.
func (c *Client) TeamRoster(ctx context.Context, teamID int64, season int, rosterType string) ([]RosterEntry, error) {
	if rosterType == "" {
		rosterType = "active"
	}
	params := url.Values{}
	params.Set("season", strconv.Itoa(season))
	params.Set("rosterType", rosterType)

	var resp struct {
		Roster []RosterEntry `json:"roster"`
	}
	path := fmt.Sprintf("/teams/%d/roster", teamID)
	if err := c.getJSON(ctx, "team_roster", path, params, &resp); err != nil {
		return nil, fmt.Errorf("team roster %d/%d: %w", teamID, season, err)
	}
	return resp.Roster, nil
}

// getJSON performs a GET with retry on 5xx and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, params url.Values, out any) error {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			metrics.RecordStatsAPIRequest(endpoint, "error")
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			metrics.RecordStatsAPIRequest(endpoint, "error")
			continue
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			metrics.RecordStatsAPIRequest(endpoint, "retry")
			continue
		}
		if resp.StatusCode != http.StatusOK {
			metrics.RecordStatsAPIRequest(endpoint, "error")
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		if err := json.Unmarshal(body, out); err != nil {
			metrics.RecordStatsAPIRequest(endpoint, "error")
			return fmt.Errorf("decode response: %w", err)
		}
		metrics.RecordStatsAPIRequest(endpoint, "ok")
		return nil
	}
	return fmt.Errorf("request failed after %d attempts: %w", maxRetries, lastErr)
}
