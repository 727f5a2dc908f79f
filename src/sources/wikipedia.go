package sources

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

const wikipediaBaseURL = "https://en.wikipedia.org/w/api.php"

// WikipediaClient performs searches and summary lookups against the
// MediaWiki API.
type WikipediaClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewWikipediaClient creates a client with the given User-Agent.
func NewWikipediaClient(userAgent string) *WikipediaClient {
	return &WikipediaClient{
		baseURL:   wikipediaBaseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Search returns up to limit page titles matching the query.
func (c *WikipediaClient) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 3
	}

	params := url.Values{}
	params.Set("action", "opensearch")
	params.Set("search", query)
	params.Set("limit", fmt.Sprintf("%d", limit))
	params.Set("format", "json")

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	// opensearch returns [query, [titles], [descriptions], [urls]]
	var parsed []json.RawMessage
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("wikipedia: unmarshal search response: %w", err)
	}
	if len(parsed) < 2 {
		return nil, fmt.Errorf("wikipedia: unexpected search response shape")
	}

	var titles []string
	if err := json.Unmarshal(parsed[1], &titles); err != nil {
		return nil, fmt.Errorf("wikipedia: unmarshal titles: %w", err)
	}
	return titles, nil
}

// Summary returns the plain-text extract for a page title. The full extract
// is kept as Content; the leading paragraph becomes the Summary.
func (c *WikipediaClient) Summary(ctx context.Context, title string) (*WikiResult, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts|info")
	params.Set("explaintext", "1")
	params.Set("inprop", "url")
	params.Set("titles", title)
	params.Set("format", "json")

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Query struct {
			Pages map[string]struct {
				Title   string `json:"title"`
				Extract string `json:"extract"`
				FullURL string `json:"fullurl"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("wikipedia: unmarshal summary response: %w", err)
	}

	for id, page := range parsed.Query.Pages {
		if id == "-1" || strings.TrimSpace(page.Extract) == "" {
			continue
		}
		return &WikiResult{
			Title:   page.Title,
			URL:     page.FullURL,
			Summary: leadingParagraph(page.Extract),
			Content: page.Extract,
		}, nil
	}
	return nil, fmt.Errorf("wikipedia: no page found for %q", title)
}

func leadingParagraph(extract string) string {
	extract = strings.TrimSpace(extract)
	if idx := strings.Index(extract, "\n\n"); idx > 0 {
		return extract[:idx]
	}
	return extract
}

func (c *WikipediaClient) get(ctx context.Context, params url.Values) ([]byte, error) {
	endpoint := c.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("wikipedia: create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("wikipedia: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia: status %d", resp.StatusCode)
	}
	return body, nil
}
