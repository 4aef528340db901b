package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Client fetches the authenticated channel's activity feed. The integration
// is optional: New returns nil when no access token is configured, and
// callers treat a nil client as "feature off" rather than an error.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *log.Logger
}

// New creates an activities client, or nil when token is empty.
func New(baseURL, token string, timeout time.Duration, logger *log.Logger) *Client {
	if token == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Activities returns the raw activity feed payload. The shape is
// provider-defined and passed through to the client untouched.
func (c *Client) Activities(ctx context.Context) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/activities", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create activities request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("activities request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("activities API error: status %d, body: %s", resp.StatusCode, body)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading activities response: %w", err)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("activities response is not valid JSON")
	}

	return json.RawMessage(raw), nil
}
