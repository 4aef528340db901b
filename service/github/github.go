package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wtflewis/my-portfolyo/models"
)

// placeholder shown when a repository has no description.
const noDescription = "Proje açıklaması yok"

type repo struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	HTMLURL     string   `json:"html_url"`
	Stars       int      `json:"stargazers_count"`
	Forks       int      `json:"forks_count"`
	Language    string   `json:"language"`
	Topics      []string `json:"topics"`
	UpdatedAt   string   `json:"updated_at"`
}

// Client lists the featured repositories shown on the portfolio's projects
// section. The token is optional; without it requests run against the
// unauthenticated rate limit.
type Client struct {
	baseURL    string
	user       string
	token      string
	featured   []string
	httpClient *http.Client
	logger     *log.Logger
}

func New(baseURL, user, token string, featured []string, timeout time.Duration, logger *log.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		user:     user,
		token:    token,
		featured: featured,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FeaturedRepos fetches the user's repositories and reduces them to the
// configured featured set, preserving the configured order.
func (c *Client) FeaturedRepos(ctx context.Context) ([]models.Repo, error) {
	params := url.Values{}
	params.Set("sort", "updated")
	params.Set("per_page", "100")

	apiURL := fmt.Sprintf("%s/users/%s/repos?%s", c.baseURL, c.user, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create repos request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("repos request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("github API error: status %d, body: %s", resp.StatusCode, body)
	}

	var repos []repo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, fmt.Errorf("decoding repos response: %w", err)
	}

	byName := make(map[string]repo, len(repos))
	for _, r := range repos {
		byName[r.Name] = r
	}

	out := make([]models.Repo, 0, len(c.featured))
	for _, name := range c.featured {
		r, ok := byName[name]
		if !ok {
			continue
		}
		description := r.Description
		if description == "" {
			description = noDescription
		}
		topics := r.Topics
		if topics == nil {
			topics = []string{}
		}
		out = append(out, models.Repo{
			ID:          r.ID,
			Name:        r.Name,
			Description: description,
			URL:         r.HTMLURL,
			Stars:       r.Stars,
			Forks:       r.Forks,
			Language:    r.Language,
			Topics:      topics,
			Updated:     r.UpdatedAt,
		})
	}

	return out, nil
}
