// Package github is a thin client for the handful of GitHub REST endpoints
// the analyzer needs: repository metadata and language breakdowns.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Sentinel errors for classified upstream failures.
var (
	ErrUnauthorized = errors.New("github: bad or missing credentials")
	ErrForbidden    = errors.New("github: access forbidden")
	ErrNotFound     = errors.New("github: repository not found")
	ErrRateLimited  = errors.New("github: rate limit exceeded")
)

// Repository holds the subset of repository metadata the analyzer uses.
type Repository struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Description   string `json:"description"`
	DefaultBranch string `json:"default_branch"`
	Language      string `json:"language"`
	Stars         int    `json:"stargazers_count"`
	Forks         int    `json:"forks_count"`
	OpenIssues    int    `json:"open_issues_count"`
	HTMLURL       string `json:"html_url"`
	Private       bool   `json:"private"`
}

// Client talks to the GitHub REST API v3.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a Client. token may be empty; unauthenticated requests work for
// public repositories at a reduced rate limit.
func New(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// GetRepository fetches metadata for owner/repo.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	var r Repository
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s", owner, repo), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ListLanguages fetches the byte-count-per-language breakdown for owner/repo.
func (c *Client) ListLanguages(ctx context.Context, owner, repo string) (map[string]int, error) {
	langs := make(map[string]int)
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/languages", owner, repo), &langs); err != nil {
		return nil, err
	}
	return langs, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("github: build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("github: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp); err != nil {
		return fmt.Errorf("%w (GET %s)", err, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("github: read response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("github: decode response: %w", err)
	}
	return nil
}

// classifyStatus maps upstream status codes to sentinel errors so callers can
// surface distinct messages without string matching.
func classifyStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		// GitHub reports rate limiting as 403 with a drained quota header.
		if resp.Header.Get("X-RateLimit-Remaining") == "0" {
			return ErrRateLimited
		}
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("github: unexpected status %d", resp.StatusCode)
	}
}
