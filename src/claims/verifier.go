package claims

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/truthlens/truthlens/src/ai/core"
	"github.com/truthlens/truthlens/src/registry"
	"github.com/truthlens/truthlens/src/sources"
)

// Verdict labels assigned to verified claims.
const (
	StatusTrue          = "True"
	StatusFalse         = "False"
	StatusPartiallyTrue = "Partially True"
	StatusUnverified    = "Unverified"
)

// Verification methods reported in results.
const (
	VerifyMethodAI        = "llm"
	VerifyMethodAIRegex   = "llm_regex"
	VerifyMethodPattern   = "pattern_matching"
	VerifyMethodKnowledge = "knowledge_base"
)

const verifyConcurrency = 3

var (
	statusFieldPattern     = regexp.MustCompile(`"status":\s*"([^"]+)"`)
	confidenceFieldPattern = regexp.MustCompile(`"confidence_score":\s*([\d.]+)`)
	quotedStringPattern    = regexp.MustCompile(`"([^"]+)"`)
	keyTermPattern         = regexp.MustCompile(`\b\w{4,}\b`)
)

// WikiSource provides encyclopedia lookups for evidence enrichment.
type WikiSource interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
	Summary(ctx context.Context, title string) (*sources.WikiResult, error)
}

// FactCheckSource provides published fact-check reviews.
type FactCheckSource interface {
	Enabled() bool
	SearchClaims(ctx context.Context, claim string) ([]sources.FactCheckReview, error)
}

// Verifier checks claims against the AI provider and external knowledge
// sources. All dependencies except the registry are optional.
type Verifier struct {
	ai        core.Client
	wiki      WikiSource
	factcheck FactCheckSource
	reg       *registry.Registry
}

// NewVerifier creates a verifier. ai may be nil; wiki and factcheck may be
// nil to skip those evidence sources.
func NewVerifier(ai core.Client, wiki WikiSource, factcheck FactCheckSource, reg *registry.Registry) *Verifier {
	return &Verifier{ai: ai, wiki: wiki, factcheck: factcheck, reg: reg}
}

// Verify checks a single claim. It always returns a result; failures of
// individual evidence sources degrade the result rather than erroring.
func (v *Verifier) Verify(ctx context.Context, claimText, claimID string) *registry.Verification {
	if claimID != "" {
		if claim, ok := v.reg.GetClaim(claimID); ok {
			claimText = claim.Text
		}
	}

	result := &registry.Verification{
		Claim:      claimText,
		Status:     StatusUnverified,
		Confidence: 0.5,
		Evidence:   []string{},
		Sources:    []registry.SourceRef{},
		Method:     VerifyMethodPattern,
		VerifiedAt: time.Now().UTC(),
	}

	if v.ai != nil {
		if err := v.verifyWithAI(ctx, claimText, result); err != nil {
			log.Printf("claims: AI verification failed: %v", err)
		}
	}

	if len(result.Evidence) == 0 && v.factcheck != nil && v.factcheck.Enabled() {
		v.addFactCheckEvidence(ctx, claimText, result)
	}

	if len(result.Evidence) == 0 && v.wiki != nil {
		v.addWikipediaEvidence(ctx, claimText, result)
	}

	if known := lookupKnownClaim(claimText); known != nil {
		result.Status = known.status
		result.Confidence = known.confidence
		result.Evidence = append([]string{}, known.evidence...)
		result.Sources = result.Sources[:0]
		for _, src := range known.sources {
			result.Sources = append(result.Sources, registry.SourceRef{Name: src.name, URL: src.url})
		}
		result.Method = VerifyMethodKnowledge
	}

	if result.Status == StatusUnverified && len(result.Evidence) > 0 {
		switch {
		case result.Confidence > 0.8:
			result.Status = StatusTrue
		case result.Confidence < 0.2:
			result.Status = StatusFalse
		default:
			result.Status = StatusPartiallyTrue
		}
	}

	if claimID != "" {
		v.reg.AttachVerification(claimID, result)
	}
	return result
}

// VerifyBatch verifies claims with bounded concurrency, preserving order.
func (v *Verifier) VerifyBatch(ctx context.Context, batch []*registry.Claim) []*registry.Verification {
	var wg sync.WaitGroup
	results := make([]*registry.Verification, len(batch))
	semaphore := make(chan struct{}, verifyConcurrency)

	for i, claim := range batch {
		wg.Add(1)
		go func(index int, c *registry.Claim) {
			defer wg.Done()

			select {
			case semaphore <- struct{}{}:
				defer func() { <-semaphore }()
			case <-ctx.Done():
				results[index] = &registry.Verification{
					Claim:      c.Text,
					Status:     StatusUnverified,
					Confidence: 0.5,
					Evidence:   []string{"Verification cancelled"},
					Method:     VerifyMethodPattern,
					VerifiedAt: time.Now().UTC(),
				}
				return
			}

			results[index] = v.Verify(ctx, c.Text, c.ID)
		}(i, claim)
	}

	wg.Wait()
	return results
}

func (v *Verifier) verifyWithAI(ctx context.Context, claimText string, result *registry.Verification) error {
	prompt := fmt.Sprintf(`Analyze this claim and determine its veracity. Respond in JSON format with the following fields:
status: "True", "False", "Partially True", or "Unverified"
confidence_score: A number between 0 and 1
evidence: List of evidence supporting your conclusion (1-3 items)
reasoning: Brief explanation of your conclusion

Claim: "%s"

JSON response:`, claimText)

	response, err := v.ai.Generate(ctx, prompt, core.Options{Temperature: 0.2})
	if err != nil {
		return err
	}

	parsed, method := parseVerdictResponse(response)
	if parsed == nil {
		return fmt.Errorf("claims: unparseable verdict response")
	}

	result.Status = normalizeStatus(parsed.Status)
	if parsed.Confidence > 0 {
		result.Confidence = parsed.Confidence
	}
	// Evidence is always a list, even when the model omits it.
	result.Evidence = append([]string{}, parsed.Evidence...)
	result.Reasoning = parsed.Reasoning
	result.Method = method
	return nil
}

type verdictPayload struct {
	Status     string   `json:"status"`
	Confidence float64  `json:"confidence_score"`
	Evidence   []string `json:"evidence"`
	Reasoning  string   `json:"reasoning"`
}

// parseVerdictResponse recovers a verdict from model output in three stages:
// strict JSON, embedded JSON, then field-level regex extraction.
func parseVerdictResponse(response string) (*verdictPayload, string) {
	response = strings.TrimSpace(response)

	var parsed verdictPayload
	if err := json.Unmarshal([]byte(response), &parsed); err == nil && parsed.Status != "" {
		return &parsed, VerifyMethodAI
	}

	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")
	if startIdx >= 0 && endIdx > startIdx {
		if err := json.Unmarshal([]byte(response[startIdx:endIdx+1]), &parsed); err == nil && parsed.Status != "" {
			return &parsed, VerifyMethodAI
		}
	}

	recovered := verdictPayload{}
	if m := statusFieldPattern.FindStringSubmatch(response); m != nil {
		recovered.Status = m[1]
	}
	if m := confidenceFieldPattern.FindStringSubmatch(response); m != nil {
		if score, err := strconv.ParseFloat(m[1], 64); err == nil {
			recovered.Confidence = score
		}
	}
	if matches := quotedStringPattern.FindAllStringSubmatch(response, -1); matches != nil {
		for _, m := range matches {
			if len(recovered.Evidence) >= 3 {
				break
			}
			recovered.Evidence = append(recovered.Evidence, m[1])
		}
	}

	if recovered.Status == "" {
		return nil, ""
	}
	return &recovered, VerifyMethodAIRegex
}

func normalizeStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "true":
		return StatusTrue
	case "false":
		return StatusFalse
	case "partially true", "partial", "mixed":
		return StatusPartiallyTrue
	default:
		return StatusUnverified
	}
}

func (v *Verifier) addFactCheckEvidence(ctx context.Context, claimText string, result *registry.Verification) {
	reviews, err := v.factcheck.SearchClaims(ctx, claimText)
	if err != nil {
		log.Printf("claims: fact check lookup failed: %v", err)
		return
	}
	if len(reviews) == 0 {
		return
	}

	review := reviews[0]
	result.Evidence = append(result.Evidence,
		fmt.Sprintf("%s rated this claim: %s", review.Reviewer, review.TextualRating))
	result.Sources = append(result.Sources, registry.SourceRef{
		Name:      review.Reviewer,
		URL:       review.ReviewURL,
		Retrieved: time.Now().UTC().Format(time.RFC3339),
	})

	rating := strings.ToLower(review.TextualRating)
	switch {
	case strings.Contains(rating, "false") || strings.Contains(rating, "pants on fire"):
		result.Confidence = 0.1
	case strings.Contains(rating, "true"):
		result.Confidence = 0.85
	default:
		result.Confidence = 0.5
	}
}

func (v *Verifier) addWikipediaEvidence(ctx context.Context, claimText string, result *registry.Verification) {
	titles, err := v.wiki.Search(ctx, claimText, 3)
	if err != nil || len(titles) == 0 {
		if err != nil {
			log.Printf("claims: wikipedia search failed: %v", err)
		}
		return
	}

	page, err := v.wiki.Summary(ctx, titles[0])
	if err != nil {
		log.Printf("claims: wikipedia page failed: %v", err)
		return
	}

	result.Sources = append(result.Sources, registry.SourceRef{
		Name:      "Wikipedia",
		URL:       page.URL,
		Retrieved: time.Now().UTC().Format(time.RFC3339),
	})

	keyTerms := keyTermPattern.FindAllString(strings.ToLower(claimText), -1)
	if len(keyTerms) == 0 {
		return
	}

	// Match against the full page text; only the summary gets quoted.
	content := strings.ToLower(page.Content)
	if content == "" {
		content = strings.ToLower(page.Summary)
	}
	matchCount := 0
	for _, term := range keyTerms {
		if strings.Contains(content, term) {
			matchCount++
		}
	}
	matchRatio := float64(matchCount) / float64(len(keyTerms))

	if matchRatio > 0.7 {
		summary := page.Summary
		if len(summary) > 500 {
			summary = summary[:500] + "..."
		}
		result.Evidence = append(result.Evidence, summary)
		result.Confidence = 0.6 + matchRatio*0.3
	}
}
