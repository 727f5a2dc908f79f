package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const redditBaseURL = "https://www.reddit.com"

// RedditClient searches public Reddit posts via the JSON search endpoint.
type RedditClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewRedditClient creates a client. Reddit requires a descriptive User-Agent.
func NewRedditClient(userAgent string) *RedditClient {
	return &RedditClient{
		baseURL:   redditBaseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Search returns up to limit posts matching the query.
func (c *RedditClient) Search(ctx context.Context, query string, limit int) ([]Article, error) {
	if limit <= 0 {
		limit = 10
	}

	endpoint := fmt.Sprintf("%s/search.json?q=%s&limit=%d&sort=relevance",
		c.baseURL, url.QueryEscape(query), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("reddit: create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reddit: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reddit: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit: status %d", resp.StatusCode)
	}

	var parsed struct {
		Data struct {
			Children []struct {
				Data struct {
					Title       string  `json:"title"`
					Permalink   string  `json:"permalink"`
					Subreddit   string  `json:"subreddit"`
					NumComments int     `json:"num_comments"`
					CreatedUTC  float64 `json:"created_utc"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("reddit: unmarshal response: %w", err)
	}

	articles := make([]Article, 0, limit)
	for _, child := range parsed.Data.Children {
		if len(articles) >= limit {
			break
		}
		post := child.Data
		articles = append(articles, Article{
			Title:       post.Title,
			URL:         redditBaseURL + post.Permalink,
			Source:      "Reddit r/" + post.Subreddit,
			PublishedAt: time.Unix(int64(post.CreatedUTC), 0).UTC().Format(time.RFC3339),
			Comments:    post.NumComments,
		})
	}
	return articles, nil
}
