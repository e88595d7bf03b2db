package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Client is the interface for the slice of the hosting platform API this
// module consumes. One method per raw event source plus the rate limit probe.
type Client interface {
	GetIssue(repoPath string, number int) (*IssueData, error)
	GetEvents(repoPath string, number int) ([]TimelineEvent, error)
	GetComments(repoPath string, number int) ([]Comment, error)
	GetReactions(repoPath string, number int) ([]Reaction, error)
	GetReviews(repoPath string, number int) ([]Review, error)
	GetCommits(repoPath string, number int) ([]Commit, error)
	GetRateLimit() (*RateLimit, error)
}

// IssueData is the issue snapshot needed for cache freshness decisions.
type IssueData struct {
	Number    int       `json:"number"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Config holds the connection settings for the API.
type Config struct {
	BaseURL string
	Token   string

	// RequestsPerSecond bounds outgoing calls. Zero means one per second.
	RequestsPerSecond float64
}

type restClient struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a rate-limited REST client for the hosting platform.
func NewClient(cfg Config) Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.github.com"
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	return &restClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

func (c *restClient) get(path string, out interface{}) error {
	if err := c.limiter.Wait(context.Background()); err != nil {
		return err
	}

	url := c.cfg.BaseURL + path
	log.Debug().Str("url", url).Msg("API request")
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.cfg.Token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("resource %s not found", path)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("API authentication failed (401/403), check your token")
		case http.StatusTooManyRequests:
			retryAfter := resp.Header.Get("Retry-After")
			if retryAfter != "" {
				return fmt.Errorf("API rate limit exceeded (429), retry after %s seconds", retryAfter)
			}
			return fmt.Errorf("API rate limit exceeded (429)")
		default:
			return fmt.Errorf("API returned status %d for %s", resp.StatusCode, path)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode API response: %w", err)
	}
	return nil
}

func (c *restClient) GetIssue(repoPath string, number int) (*IssueData, error) {
	var issue IssueData
	if err := c.get(fmt.Sprintf("/repos/%s/issues/%d", repoPath, number), &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (c *restClient) GetEvents(repoPath string, number int) ([]TimelineEvent, error) {
	var events []TimelineEvent
	if err := c.get(fmt.Sprintf("/repos/%s/issues/%d/events?per_page=100", repoPath, number), &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *restClient) GetComments(repoPath string, number int) ([]Comment, error) {
	var comments []Comment
	if err := c.get(fmt.Sprintf("/repos/%s/issues/%d/comments?per_page=100", repoPath, number), &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *restClient) GetReactions(repoPath string, number int) ([]Reaction, error) {
	var reactions []Reaction
	if err := c.get(fmt.Sprintf("/repos/%s/issues/%d/reactions?per_page=100", repoPath, number), &reactions); err != nil {
		return nil, err
	}
	return reactions, nil
}

func (c *restClient) GetReviews(repoPath string, number int) ([]Review, error) {
	var reviews []Review
	if err := c.get(fmt.Sprintf("/repos/%s/pulls/%d/reviews?per_page=100", repoPath, number), &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (c *restClient) GetCommits(repoPath string, number int) ([]Commit, error) {
	var commits []Commit
	if err := c.get(fmt.Sprintf("/repos/%s/pulls/%d/commits?per_page=100", repoPath, number), &commits); err != nil {
		return nil, err
	}
	return commits, nil
}

func (c *restClient) GetRateLimit() (*RateLimit, error) {
	var wrapper struct {
		Resources struct {
			Core RateLimit `json:"core"`
		} `json:"resources"`
	}
	if err := c.get("/rate_limit", &wrapper); err != nil {
		return nil, err
	}
	return &wrapper.Resources.Core, nil
}
