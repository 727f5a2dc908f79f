package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

const maxContentRunes = 5000

// Document is the normalized result of fetching a web page.
type Document struct {
	URL             string    `json:"url"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	PublicationDate string    `json:"publication_date"`
	SourceDomain    string    `json:"source_domain"`
	ExtractedAt     time.Time `json:"extraction_date"`
}

// Fetcher downloads pages and extracts readable text.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	sanitizer  *bluemonday.Policy
}

// NewFetcher creates a fetcher with the given User-Agent header.
func NewFetcher(userAgent string) *Fetcher {
	if strings.TrimSpace(userAgent) == "" {
		userAgent = "TruthLens/0.1"
	}
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		userAgent: userAgent,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Fetch downloads the URL and extracts title, paragraph text and metadata.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	parsed, err := url.ParseRequestURI(rawURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("ingest: invalid url %q", rawURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("ingest: unsupported scheme %q", parsed.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("ingest: create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ingest: fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ingest: fetch %s: status %d", rawURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ingest: parse html: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = "No title found"
	}

	var b strings.Builder
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(f.sanitizer.Sanitize(sel.Text()))
		if text == "" {
			return
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	})

	pubDate := ""
	if meta := doc.Find(`meta[property="article:published_time"]`).First(); meta.Length() > 0 {
		pubDate, _ = meta.Attr("content")
	}
	if pubDate == "" {
		pubDate = time.Now().UTC().Format(time.RFC3339)
	}

	return &Document{
		URL:             rawURL,
		Title:           title,
		Content:         truncateRunes(b.String(), maxContentRunes),
		PublicationDate: pubDate,
		SourceDomain:    parsed.Hostname(),
		ExtractedAt:     time.Now().UTC(),
	}, nil
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
