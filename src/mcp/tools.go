package mcp

// Tool describes an invocable tool for client discovery.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ToolDescriptors returns the descriptors for every tool the server serves.
func ToolDescriptors() []Tool {
	return []Tool{
		{
			Name:        "ingest_url",
			Description: "Fetch content from a URL and extract readable text, title and metadata.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"url": map[string]any{
						"type":        "string",
						"description": "The URL to fetch content from.",
					},
				},
				"required": []string{"url"},
			},
		},
		{
			Name:        "extract_claims",
			Description: "Extract verifiable factual claims from text. Uses the configured LLM, falling back to pattern heuristics.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"text": map[string]any{
						"type":        "string",
						"description": "The text to extract claims from.",
					},
					"url": map[string]any{
						"type":        "string",
						"description": "Optional source URL of the text.",
					},
				},
				"required": []string{"text"},
			},
		},
		{
			Name:        "verify_claim",
			Description: "Verify a factual claim against the LLM, fact-check databases and encyclopedia sources.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"claim_text": map[string]any{
						"type":        "string",
						"description": "The claim to verify.",
					},
					"claim_id": map[string]any{
						"type":        "string",
						"description": "Optional ID of a previously extracted claim.",
					},
				},
				"required": []string{"claim_text"},
			},
		},
		{
			Name:        "search_news",
			Description: "Search news articles on a topic. Source is `newsapi` (default) or `reddit`.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Search query.",
					},
					"source": map[string]any{
						"type":        "string",
						"description": "Source to search.",
						"enum":        []string{"newsapi", "reddit"},
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of results (default 10).",
					},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "analyze_source",
			Description: "Run the full pipeline on a URL: ingest, extract claims, verify each claim and score source credibility.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"url": map[string]any{
						"type":        "string",
						"description": "URL to analyze.",
					},
				},
				"required": []string{"url"},
			},
		},
		{
			Name:        "get_trending_misinfo",
			Description: "Get trending misinformation, optionally filtered by topic.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"topic": map[string]any{
						"type":        "string",
						"description": "Optional topic filter (substring match).",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of results (default 5).",
					},
				},
			},
		},
		{
			Name:        "setup_monitor",
			Description: "Register a keyword monitor that sweeps news feeds for misinformation above a confidence threshold.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"keywords": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Keywords to monitor.",
					},
					"threshold": map[string]any{
						"type":        "number",
						"description": "Alert confidence threshold between 0 and 1 (default 0.6).",
					},
				},
				"required": []string{"keywords"},
			},
		},
	}
}
