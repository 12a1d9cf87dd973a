// Package github talks to the GitHub REST API: keyword search over users,
// per-user profile detail, repository listings and the profile README.
//
// Errors from the search call are classified into three sentinel kinds so
// the HTTP layer can map them to distinct status codes. Per-user detail
// failures collapse into ErrDetailUnavailable — they are recoverable at
// the page level and never abort a whole request.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"aihunter/search-service/internal/model"
)

const (
	defaultBaseURL = "https://api.github.com"
	httpTimeout    = 15 * time.Second
)

// ─── Error taxonomy ──────────────────────────────────────────────────────────

var (
	// ErrUpstreamUnavailable covers transport failures and unexpected
	// status codes from the search endpoint.
	ErrUpstreamUnavailable = errors.New("github upstream unavailable")

	// ErrRateLimited is returned when GitHub answers 403 (search quota
	// exhausted for this token).
	ErrRateLimited = errors.New("github rate limit exhausted")

	// ErrUnauthorized is returned when GitHub rejects the token (401).
	ErrUnauthorized = errors.New("github token rejected")

	// ErrDetailUnavailable is returned when the profile detail or the
	// repository listing for a single user cannot be fetched.
	ErrDetailUnavailable = errors.New("github user detail unavailable")
)

// ─── Client ──────────────────────────────────────────────────────────────────

// Client is an authorized GitHub API client shared by the search and
// detail paths.
type Client struct {
	Token   string
	BaseURL string // overridable in tests
	client  *http.Client
}

// NewClient constructs a Client with a shared HTTP client.
func NewClient(token string) *Client {
	return &Client{
		Token:   token,
		BaseURL: defaultBaseURL,
		client:  &http.Client{Timeout: httpTimeout},
	}
}

// searchResponse mirrors the top-level /search/users JSON response.
type searchResponse struct {
	TotalCount int          `json:"total_count"`
	Items      []searchItem `json:"items"`
}

// searchItem mirrors a single user entry in the search response.
type searchItem struct {
	ID       int64  `json:"id"`
	Login    string `json:"login"`
	URL      string `json:"url"`
	ReposURL string `json:"repos_url"`
}

// SearchUsers runs a keyword search and returns one page of user
// summaries plus GitHub's reported total match count. Summary order
// matches the upstream page order.
func (c *Client) SearchUsers(ctx context.Context, keyword string, page, perPage int) ([]model.UserSummary, int, error) {
	params := url.Values{}
	params.Set("q", keyword)
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	reqURL := fmt.Sprintf("%s/search/users?%s", c.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: build request: %v", ErrUpstreamUnavailable, err)
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, 0, fmt.Errorf("%w: search returned 401", ErrUnauthorized)
	case http.StatusForbidden:
		return nil, 0, fmt.Errorf("%w: search returned 403", ErrRateLimited)
	default:
		return nil, 0, fmt.Errorf("%w: search returned %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var apiResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, 0, fmt.Errorf("%w: decode search response: %v", ErrUpstreamUnavailable, err)
	}

	summaries := make([]model.UserSummary, 0, len(apiResp.Items))
	for _, item := range apiResp.Items {
		summaries = append(summaries, model.UserSummary{
			ID:        item.ID,
			Login:     item.Login,
			DetailURL: item.URL,
			ReposURL:  item.ReposURL,
		})
	}

	return summaries, apiResp.TotalCount, nil
}

// authorize attaches the token and the API media type to a request.
func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "token "+c.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
}

// getJSON performs an authorized GET and decodes the 200 response body
// into dest. Any other status is an error.
func (c *Client) getJSON(ctx context.Context, rawURL string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(dest)
}
