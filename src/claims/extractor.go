package claims

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/truthlens/truthlens/src/ai/core"
	"github.com/truthlens/truthlens/src/registry"
)

const (
	// MethodAI marks claims extracted by an LLM.
	MethodAI = "llm"
	// MethodPattern marks claims extracted by the heuristic fallback.
	MethodPattern = "pattern_matching"

	maxExtractionInput = 4000
	aiClaimConfidence  = 0.85
)

var (
	numberingPattern = regexp.MustCompile(`^\d+\.\s*`)
	sentencePattern  = regexp.MustCompile(`[.!?]`)
)

// claimPattern pairs a heuristic marker with a confidence boost.
type claimPattern struct {
	re    *regexp.Regexp
	boost float64
}

var claimPatterns = []claimPattern{
	{regexp.MustCompile(`(is|are|was|were)\s+([a-z]+ing|[a-z]+ed)`), 0.7}, // action statements
	{regexp.MustCompile(`(cause[s]?|lead[s]? to)`), 0.8},                 // causal claims
	{regexp.MustCompile(`according to|study|research`), 0.75},            // referenced claims
	{regexp.MustCompile(`\b(all|none|every|always|never)\b`), 0.9},       // universal claims
}

// Extractor pulls factual claims out of free text.
type Extractor struct {
	ai  core.Client
	reg *registry.Registry
}

// NewExtractor creates an extractor. ai may be nil, selecting the heuristic
// path unconditionally.
func NewExtractor(ai core.Client, reg *registry.Registry) *Extractor {
	return &Extractor{ai: ai, reg: reg}
}

// Extract returns claims found in text, storing each in the registry.
func (e *Extractor) Extract(ctx context.Context, text, sourceURL string) ([]*registry.Claim, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("claims: empty text")
	}

	var extracted []*registry.Claim

	if e.ai != nil {
		claims, err := e.extractWithAI(ctx, text, sourceURL)
		if err != nil {
			log.Printf("claims: AI extraction failed, using pattern fallback: %v", err)
		} else {
			extracted = claims
		}
	}

	if len(extracted) == 0 {
		extracted = e.extractWithPatterns(text, sourceURL)
	}

	for _, claim := range extracted {
		e.reg.PutClaim(claim)
	}
	return extracted, nil
}

func (e *Extractor) extractWithAI(ctx context.Context, text, sourceURL string) ([]*registry.Claim, error) {
	input := text
	if runes := []rune(input); len(runes) > maxExtractionInput {
		input = string(runes[:maxExtractionInput])
	}

	prompt := fmt.Sprintf(`Extract factual claims from the following text. A factual claim is an assertion
that can be verified as true or false. Return ONLY the claims, one per line.
If no clear factual claims are found, return "No claims found."

TEXT: %s

FACTUAL CLAIMS:`, input)

	response, err := e.ai.Generate(ctx, prompt, core.Options{Temperature: 0.2})
	if err != nil {
		return nil, err
	}

	var claims []*registry.Claim
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(numberingPattern.ReplaceAllString(strings.TrimSpace(line), ""))
		if line == "" || strings.EqualFold(line, "No claims found.") {
			continue
		}
		claims = append(claims, newClaim(line, aiClaimConfidence, MethodAI, sourceURL))
	}
	return claims, nil
}

func (e *Extractor) extractWithPatterns(text, sourceURL string) []*registry.Claim {
	var claims []*registry.Claim

	for _, sentence := range sentencePattern.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) < 10 {
			continue
		}

		lower := strings.ToLower(sentence)
		for _, pattern := range claimPatterns {
			if !pattern.re.MatchString(lower) {
				continue
			}
			confidence := 0.5 + pattern.boost
			if confidence > 0.95 {
				confidence = 0.95
			}
			claims = append(claims, newClaim(sentence, confidence, MethodPattern, sourceURL))
			break
		}
	}
	return claims
}

func newClaim(text string, confidence float64, method, sourceURL string) *registry.Claim {
	return &registry.Claim{
		ID:               "claim_" + uuid.NewString()[:8],
		Text:             text,
		Confidence:       confidence,
		ExtractionMethod: method,
		SourceURL:        sourceURL,
		ExtractedAt:      time.Now().UTC(),
	}
}
