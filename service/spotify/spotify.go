package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// searchQuery is the fixed illustrative query used to keep the search
// enrichment warm; it is not user-driven.
const searchQuery = "remaster track:Doxy artist:Miles Davis"

// PlaybackState classifies the current-playback response.
type PlaybackState int

const (
	// PlaybackActive means a track is active and the snapshot is populated.
	PlaybackActive PlaybackState = iota
	// PlaybackEmpty means the player reported no active content.
	PlaybackEmpty
	// PlaybackError means the call failed or returned an error-range status.
	PlaybackError
)

// PlaybackResult is the tagged outcome of the current-playback call.
// Snapshot is non-nil only when State is PlaybackActive.
type PlaybackResult struct {
	State    PlaybackState
	Snapshot *CurrentlyPlaying
}

// Client is a thin typed caller for the Spotify Web API. All methods attach
// a bearer token from the token source and are bounded by the client's
// request timeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     oauth2.TokenSource
	limiter    *rate.Limiter
	logger     *log.Logger
}

// New creates a Web API client rooted at baseURL.
func New(baseURL string, tokens oauth2.TokenSource, timeout time.Duration, logger *log.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		tokens: tokens,
		// stay well under the Web API's rolling rate limit window
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 10),
		logger:  logger,
	}
}

// Authenticate forces a valid access token to be available before any other
// call is made. A failed exchange is fatal for the whole request: nothing
// can proceed without a token.
func (c *Client) Authenticate() error {
	if _, err := c.tokens.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	return nil
}

// CurrentlyPlaying fetches the player's current state. The outcome is a
// tagged result: a 204 or missing item maps to PlaybackEmpty, any
// error-range status or transport failure (including timeouts) maps to
// PlaybackError. Neither is an error for the caller; both trigger the
// history fallback.
func (c *Client) CurrentlyPlaying(ctx context.Context) PlaybackResult {
	resp, err := c.get(ctx, "/me/player/currently-playing", nil)
	if err != nil {
		c.logger.Warn("currently-playing request failed", "err", err)
		return PlaybackResult{State: PlaybackError}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return PlaybackResult{State: PlaybackEmpty}
	case resp.StatusCode >= 400:
		c.logger.Warn("currently-playing returned error status", "status", resp.StatusCode)
		return PlaybackResult{State: PlaybackError}
	}

	var snap CurrentlyPlaying
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		c.logger.Warn("currently-playing payload undecodable", "err", err)
		return PlaybackResult{State: PlaybackError}
	}
	if snap.Item == nil {
		return PlaybackResult{State: PlaybackEmpty}
	}

	return PlaybackResult{State: PlaybackActive, Snapshot: &snap}
}

// Devices fetches the devices currently registered to the account. An empty
// list is a valid result.
func (c *Client) Devices(ctx context.Context) (*DevicesResponse, error) {
	var devices DevicesResponse
	if err := c.getJSON(ctx, "/me/player/devices", nil, &devices); err != nil {
		return nil, err
	}
	return &devices, nil
}

// Search runs the fixed illustrative track search.
func (c *Client) Search(ctx context.Context) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("q", searchQuery)
	params.Set("type", "track")

	var results SearchResponse
	if err := c.getJSON(ctx, "/search", params, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// Profile fetches the authenticated account's profile.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.getJSON(ctx, "/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// RecentlyPlayed fetches the most recent playback history entries, newest
// first.
func (c *Client) RecentlyPlayed(ctx context.Context) (*RecentlyPlayedResponse, error) {
	var recent RecentlyPlayedResponse
	if err := c.getJSON(ctx, "/me/player/recently-played", nil, &recent); err != nil {
		return nil, err
	}
	return &recent, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	tok, err := c.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthentication, err)
	}

	apiURL := c.baseURL + path
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", path, err)
	}
	tok.SetAuthHeader(req)

	return c.httpClient.Do(req)
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, v any) error {
	resp, err := c.get(ctx, path, params)
	if err != nil {
		if errors.Is(err, ErrAuthentication) {
			return err
		}
		return fmt.Errorf("%w: %s: %v", ErrUpstream, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %s: status %d, body: %s", ErrUpstream, path, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %s: decoding response: %v", ErrUpstream, path, err)
	}

	return nil
}
