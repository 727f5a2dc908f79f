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

const factCheckBaseURL = "https://factchecktools.googleapis.com/v1alpha1"

// FactCheckClient queries the Google Fact Check Tools claim database.
type FactCheckClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewFactCheckClient creates a client; the key is required for lookups.
func NewFactCheckClient(apiKey string) *FactCheckClient {
	return &FactCheckClient{
		apiKey:  apiKey,
		baseURL: factCheckBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Enabled reports whether an API key is configured.
func (c *FactCheckClient) Enabled() bool {
	return c.apiKey != ""
}

// SearchClaims looks up published fact-check reviews for a claim.
func (c *FactCheckClient) SearchClaims(ctx context.Context, claim string) ([]FactCheckReview, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("factcheck: API key not configured")
	}

	endpoint := fmt.Sprintf("%s/claims:search?query=%s&key=%s",
		c.baseURL, url.QueryEscape(claim), c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("factcheck: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("factcheck: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("factcheck: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("factcheck: status %d", resp.StatusCode)
	}

	var parsed struct {
		Claims []struct {
			Text        string `json:"text"`
			ClaimReview []struct {
				Publisher struct {
					Name string `json:"name"`
				} `json:"publisher"`
				URL           string `json:"url"`
				TextualRating string `json:"textualRating"`
			} `json:"claimReview"`
		} `json:"claims"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("factcheck: unmarshal response: %w", err)
	}

	var reviews []FactCheckReview
	for _, cl := range parsed.Claims {
		for _, review := range cl.ClaimReview {
			reviews = append(reviews, FactCheckReview{
				ClaimText:     cl.Text,
				TextualRating: review.TextualRating,
				Reviewer:      review.Publisher.Name,
				ReviewURL:     review.URL,
			})
		}
	}
	return reviews, nil
}
