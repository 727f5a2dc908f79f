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

const newsAPIBaseURL = "https://newsapi.org/v2"

// NewsAPIClient searches articles via the NewsAPI "everything" endpoint.
type NewsAPIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewNewsAPIClient creates a client. An empty key selects demo mode.
func NewNewsAPIClient(apiKey string) *NewsAPIClient {
	return &NewsAPIClient{
		apiKey:  apiKey,
		baseURL: newsAPIBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// DemoMode reports whether the client returns canned results.
func (c *NewsAPIClient) DemoMode() bool {
	return c.apiKey == ""
}

// Search returns up to limit articles matching the query. Without an API key
// a deterministic demo result set is returned instead of failing.
func (c *NewsAPIClient) Search(ctx context.Context, query string, limit int) ([]Article, error) {
	if limit <= 0 {
		limit = 10
	}

	if c.DemoMode() {
		return demoArticles(query, limit), nil
	}

	endpoint := fmt.Sprintf("%s/everything?q=%s&apiKey=%s&pageSize=%d",
		c.baseURL, url.QueryEscape(query), c.apiKey, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("newsapi: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("newsapi: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Message != "" {
			return nil, fmt.Errorf("newsapi: %s (code: %s)", errorResp.Message, errorResp.Code)
		}
		return nil, fmt.Errorf("newsapi: status %d", resp.StatusCode)
	}

	var parsed struct {
		Articles []struct {
			Title  string `json:"title"`
			URL    string `json:"url"`
			Source struct {
				Name string `json:"name"`
			} `json:"source"`
			PublishedAt string `json:"publishedAt"`
		} `json:"articles"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("newsapi: unmarshal response: %w", err)
	}

	articles := make([]Article, 0, limit)
	for _, a := range parsed.Articles {
		if len(articles) >= limit {
			break
		}
		articles = append(articles, Article{
			Title:       a.Title,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
		})
	}
	return articles, nil
}

func demoArticles(query string, limit int) []Article {
	count := limit
	if count > 5 {
		count = 5
	}
	articles := make([]Article, 0, count)
	for i := 1; i <= count; i++ {
		articles = append(articles, Article{
			Title:       fmt.Sprintf("Sample article about %s #%d", query, i),
			URL:         fmt.Sprintf("https://example.com/article%d", i),
			Source:      fmt.Sprintf("News Source %d", i),
			PublishedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return articles
}
