package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
<title>Breaking News</title>
<meta property="article:published_time" content="2025-06-01T12:00:00Z">
</head>
<body>
<p>First paragraph of the story.</p>
<p>Second paragraph with <b>markup</b> inside.</p>
<div>Not a paragraph.</div>
</body>
</html>`

func TestFetchExtractsDocument(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "TruthLens")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer ts.Close()

	f := NewFetcher("TruthLens/0.1 test")
	doc, err := f.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)

	assert.Equal(t, "Breaking News", doc.Title)
	assert.Contains(t, doc.Content, "First paragraph of the story.")
	assert.Contains(t, doc.Content, "Second paragraph with markup inside.")
	assert.NotContains(t, doc.Content, "Not a paragraph.")
	assert.Equal(t, "2025-06-01T12:00:00Z", doc.PublicationDate)
	assert.Equal(t, "127.0.0.1", doc.SourceDomain)
	assert.False(t, doc.ExtractedAt.IsZero())
}

func TestFetchMissingTitleAndDate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>Plain text here.</p></body></html>"))
	}))
	defer ts.Close()

	f := NewFetcher("")
	doc, err := f.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)

	assert.Equal(t, "No title found", doc.Title)
	assert.NotEmpty(t, doc.PublicationDate)
}

func TestFetchTruncatesLongContent(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 200; i++ {
		b.WriteString("<p>")
		b.WriteString(strings.Repeat("word ", 20))
		b.WriteString("</p>")
	}
	b.WriteString("</body></html>")

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(b.String()))
	}))
	defer ts.Close()

	f := NewFetcher("")
	doc, err := f.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(doc.Content)), maxContentRunes)
}

func TestFetchInvalidURL(t *testing.T) {
	f := NewFetcher("")

	tests := []struct {
		name string
		url  string
	}{
		{name: "empty", url: ""},
		{name: "no scheme", url: "example.com/page"},
		{name: "bad scheme", url: "ftp://example.com/file"},
		{name: "garbage", url: "://not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Fetch(context.Background(), tt.url)
			assert.Error(t, err)
		})
	}
}

func TestFetchNonOKStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer ts.Close()

	f := NewFetcher("")
	_, err := f.Fetch(context.Background(), ts.URL)
	assert.Error(t, err)
}
