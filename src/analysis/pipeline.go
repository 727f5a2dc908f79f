// Package analysis runs the full source pipeline: ingest, extract, verify,
// score.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/truthlens/truthlens/src/claims"
	"github.com/truthlens/truthlens/src/ingest"
	"github.com/truthlens/truthlens/src/registry"
)

// VerifiedClaim pairs an extracted claim with its verification.
type VerifiedClaim struct {
	ClaimText    string                 `json:"claim_text"`
	Confidence   float64                `json:"confidence"`
	Verification *registry.Verification `json:"verification"`
}

// Credibility scores a source based on its verified claims.
type Credibility struct {
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

// Report is the result of analyzing a source end to end.
type Report struct {
	URL            string          `json:"url"`
	Title          string          `json:"title"`
	SourceDomain   string          `json:"source_domain"`
	AnalyzedAt     time.Time       `json:"analysis_date"`
	ClaimsFound    int             `json:"claims_found"`
	ClaimsVerified int             `json:"claims_verified"`
	VerifiedClaims []VerifiedClaim `json:"verified_claims"`
	Credibility    Credibility     `json:"source_credibility"`
}

// Pipeline wires the fetcher, extractor and verifier together.
type Pipeline struct {
	fetcher   *ingest.Fetcher
	extractor *claims.Extractor
	verifier  *claims.Verifier
}

// NewPipeline creates an analysis pipeline.
func NewPipeline(fetcher *ingest.Fetcher, extractor *claims.Extractor, verifier *claims.Verifier) *Pipeline {
	return &Pipeline{fetcher: fetcher, extractor: extractor, verifier: verifier}
}

// AnalyzeSource ingests a URL, extracts its claims and verifies each one.
func (p *Pipeline) AnalyzeSource(ctx context.Context, url string) (*Report, error) {
	doc, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("analysis: ingest: %w", err)
	}

	extracted, err := p.extractor.Extract(ctx, doc.Content, url)
	if err != nil {
		return nil, fmt.Errorf("analysis: extract: %w", err)
	}

	verifications := p.verifier.VerifyBatch(ctx, extracted)

	verified := make([]VerifiedClaim, 0, len(extracted))
	for i, claim := range extracted {
		verified = append(verified, VerifiedClaim{
			ClaimText:    claim.Text,
			Confidence:   claim.Confidence,
			Verification: verifications[i],
		})
	}

	return &Report{
		URL:            url,
		Title:          doc.Title,
		SourceDomain:   doc.SourceDomain,
		AnalyzedAt:     time.Now().UTC(),
		ClaimsFound:    len(extracted),
		ClaimsVerified: len(verified),
		VerifiedClaims: verified,
		Credibility: Credibility{
			Score:     SourceCredibility(verified),
			Reasoning: "Based on ratio of true versus false claims",
		},
	}, nil
}

// SourceCredibility scores a source from its verified claims, bounded to
// [0.01, 0.99]. An empty claim set scores neutral.
func SourceCredibility(verified []VerifiedClaim) float64 {
	if len(verified) == 0 {
		return 0.5
	}

	total := len(verified)
	trueCount := 0
	falseCount := 0
	for _, vc := range verified {
		if vc.Verification == nil {
			continue
		}
		switch vc.Verification.Status {
		case claims.StatusTrue:
			trueCount++
		case claims.StatusFalse:
			falseCount++
		}
	}

	credibility := 0.5 + float64(trueCount-falseCount)/float64(2*total)
	if credibility < 0.01 {
		credibility = 0.01
	}
	if credibility > 0.99 {
		credibility = 0.99
	}
	return credibility
}
