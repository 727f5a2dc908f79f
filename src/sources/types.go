package sources

// Article is the normalized shape shared by all news/source clients.
type Article struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
	Comments    int    `json:"comments,omitempty"`
}

// FactCheckReview is a normalized fact-check database entry.
type FactCheckReview struct {
	ClaimText     string `json:"claim_text"`
	TextualRating string `json:"textual_rating"`
	Reviewer      string `json:"reviewer"`
	ReviewURL     string `json:"review_url"`
}

// WikiResult is a normalized encyclopedia lookup result. Content is the full
// plain-text extract; Summary is its leading paragraph.
type WikiResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Summary string `json:"summary"`
	Content string `json:"content,omitempty"`
}
