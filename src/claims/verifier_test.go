package claims

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truthlens/truthlens/src/registry"
	"github.com/truthlens/truthlens/src/sources"
)

// fakeWiki serves canned encyclopedia lookups.
type fakeWiki struct {
	titles []string
	page   *sources.WikiResult
	err    error
}

func (f *fakeWiki) Search(_ context.Context, _ string, _ int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.titles, nil
}

func (f *fakeWiki) Summary(_ context.Context, _ string) (*sources.WikiResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.page == nil {
		return nil, fmt.Errorf("no page")
	}
	return f.page, nil
}

// fakeFactCheck serves canned review lookups.
type fakeFactCheck struct {
	reviews []sources.FactCheckReview
	err     error
}

func (f *fakeFactCheck) Enabled() bool { return true }

func (f *fakeFactCheck) SearchClaims(_ context.Context, _ string) ([]sources.FactCheckReview, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.reviews, nil
}

func TestVerifyKnownClaim(t *testing.T) {
	v := NewVerifier(nil, nil, nil, registry.New())

	result := v.Verify(context.Background(), "Vaccines cause autism.", "")
	require.NotNil(t, result)
	assert.Equal(t, StatusFalse, result.Status)
	assert.Equal(t, VerifyMethodKnowledge, result.Method)
	assert.InDelta(t, 0.95, result.Confidence, 1e-9)
	assert.NotEmpty(t, result.Evidence)
	require.NotEmpty(t, result.Sources)
	assert.Equal(t, "CDC", result.Sources[0].Name)
}

func TestVerifyKnownClaimDeterministic(t *testing.T) {
	v := NewVerifier(nil, nil, nil, registry.New())

	first := v.Verify(context.Background(), "5G towers spread COVID infections", "")
	second := v.Verify(context.Background(), "5G towers spread COVID infections", "")

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Confidence, second.Confidence)
	assert.Equal(t, first.Evidence, second.Evidence)
}

func TestVerifyUnknownClaimFallback(t *testing.T) {
	v := NewVerifier(nil, nil, nil, registry.New())

	result := v.Verify(context.Background(), "The moon is made of basalt rock.", "")
	require.NotNil(t, result)
	assert.Equal(t, StatusUnverified, result.Status)
	assert.InDelta(t, 0.5, result.Confidence, 1e-9)
	assert.Equal(t, VerifyMethodPattern, result.Method)
	assert.Empty(t, result.Evidence)
}

func TestVerifyByClaimID(t *testing.T) {
	reg := registry.New()
	reg.PutClaim(&registry.Claim{ID: "claim_abc", Text: "Drinking bleach cures cancer."})

	v := NewVerifier(nil, nil, nil, reg)
	result := v.Verify(context.Background(), "", "claim_abc")

	assert.Equal(t, "Drinking bleach cures cancer.", result.Claim)
	assert.Equal(t, StatusFalse, result.Status)

	stored, _ := reg.GetClaim("claim_abc")
	require.NotNil(t, stored.Verification)
	assert.Equal(t, StatusFalse, stored.Verification.Status)
}

func TestVerifyWithAIVerdict(t *testing.T) {
	ai := &fakeAI{response: `{"status": "True", "confidence_score": 0.9, "evidence": ["Well documented."], "reasoning": "Established fact."}`}
	v := NewVerifier(ai, nil, nil, registry.New())

	result := v.Verify(context.Background(), "Water is composed of hydrogen and oxygen.", "")
	assert.Equal(t, StatusTrue, result.Status)
	assert.InDelta(t, 0.9, result.Confidence, 1e-9)
	assert.Equal(t, []string{"Well documented."}, result.Evidence)
	assert.Equal(t, "Established fact.", result.Reasoning)
	assert.Equal(t, VerifyMethodAI, result.Method)
}

func TestVerifyKnownClaimOverridesAI(t *testing.T) {
	// The knowledge base is authoritative even when the model disagrees.
	ai := &fakeAI{response: `{"status": "True", "confidence_score": 0.9, "evidence": ["Looks plausible."]}`}
	v := NewVerifier(ai, nil, nil, registry.New())

	result := v.Verify(context.Background(), "Vaccines cause autism.", "")
	assert.Equal(t, StatusFalse, result.Status)
	assert.Equal(t, VerifyMethodKnowledge, result.Method)
}

func TestParseVerdictResponse(t *testing.T) {
	tests := []struct {
		name           string
		response       string
		expectedStatus string
		expectedMethod string
		expectNil      bool
	}{
		{
			name:           "strict json",
			response:       `{"status": "False", "confidence_score": 0.2, "evidence": ["a"]}`,
			expectedStatus: "False",
			expectedMethod: VerifyMethodAI,
		},
		{
			name:           "embedded json",
			response:       "Here is my analysis:\n```json\n{\"status\": \"True\", \"confidence_score\": 0.8}\n```",
			expectedStatus: "True",
			expectedMethod: VerifyMethodAI,
		},
		{
			name:           "regex recovery",
			response:       `The model says "status": "Partially True" and "confidence_score": 0.55 overall`,
			expectedStatus: "Partially True",
			expectedMethod: VerifyMethodAIRegex,
		},
		{
			name:      "unparseable",
			response:  "I cannot answer that.",
			expectNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, method := parseVerdictResponse(tt.response)
			if tt.expectNil {
				assert.Nil(t, parsed)
				return
			}
			require.NotNil(t, parsed)
			assert.Equal(t, tt.expectedStatus, parsed.Status)
			assert.Equal(t, tt.expectedMethod, method)
		})
	}
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, StatusTrue, normalizeStatus("true"))
	assert.Equal(t, StatusFalse, normalizeStatus(" FALSE "))
	assert.Equal(t, StatusPartiallyTrue, normalizeStatus("mixed"))
	assert.Equal(t, StatusPartiallyTrue, normalizeStatus("Partially True"))
	assert.Equal(t, StatusUnverified, normalizeStatus("maybe"))
}

func TestVerifyBatchPreservesOrder(t *testing.T) {
	reg := registry.New()
	v := NewVerifier(nil, nil, nil, reg)

	batch := []*registry.Claim{
		{ID: "c1", Text: "Vaccines cause autism."},
		{ID: "c2", Text: "The moon is made of basalt rock."},
		{ID: "c3", Text: "Drinking bleach cures cancer."},
	}
	for _, c := range batch {
		reg.PutClaim(c)
	}

	results := v.VerifyBatch(context.Background(), batch)
	require.Len(t, results, 3)
	assert.Equal(t, StatusFalse, results[0].Status)
	assert.Equal(t, StatusUnverified, results[1].Status)
	assert.Equal(t, StatusFalse, results[2].Status)
}

func TestVerifyWikipediaEvidencePromotion(t *testing.T) {
	wiki := &fakeWiki{
		titles: []string{"Coffee"},
		page: &sources.WikiResult{
			Title:   "Coffee",
			URL:     "https://en.wikipedia.org/wiki/Coffee",
			Summary: "Coffee is a brewed drink that contains caffeine.",
			Content: "Coffee is a brewed drink. It contains caffeine among other compounds found in roasted beans.",
		},
	}
	v := NewVerifier(nil, wiki, nil, registry.New())

	result := v.Verify(context.Background(), "Coffee contains caffeine compounds", "")

	require.NotEmpty(t, result.Evidence)
	assert.Equal(t, wiki.page.Summary, result.Evidence[0])
	assert.InDelta(t, 0.9, result.Confidence, 1e-9)
	assert.Equal(t, StatusTrue, result.Status)
	require.NotEmpty(t, result.Sources)
	assert.Equal(t, "Wikipedia", result.Sources[0].Name)
	assert.Equal(t, wiki.page.URL, result.Sources[0].URL)
}

func TestVerifyWikipediaMatchesFullContent(t *testing.T) {
	// Key terms only appear deep in the article; the quoted evidence is
	// still the summary.
	wiki := &fakeWiki{
		titles: []string{"Coffee"},
		page: &sources.WikiResult{
			Title:   "Coffee",
			URL:     "https://en.wikipedia.org/wiki/Coffee",
			Summary: "An overview of a popular beverage.",
			Content: "History section. Chemistry section: coffee contains caffeine and hundreds of other compounds.",
		},
	}
	v := NewVerifier(nil, wiki, nil, registry.New())

	result := v.Verify(context.Background(), "Coffee contains caffeine compounds", "")

	require.NotEmpty(t, result.Evidence)
	assert.Equal(t, "An overview of a popular beverage.", result.Evidence[0])
	assert.InDelta(t, 0.9, result.Confidence, 1e-9)
}

func TestVerifyWikipediaLowMatchRatio(t *testing.T) {
	wiki := &fakeWiki{
		titles: []string{"Basalt"},
		page: &sources.WikiResult{
			Title:   "Basalt",
			URL:     "https://en.wikipedia.org/wiki/Basalt",
			Summary: "Basalt is a volcanic rock.",
			Content: "Basalt is a common extrusive volcanic rock.",
		},
	}
	v := NewVerifier(nil, wiki, nil, registry.New())

	result := v.Verify(context.Background(), "The moon is made entirely of green cheese", "")

	assert.Empty(t, result.Evidence)
	assert.Equal(t, StatusUnverified, result.Status)
	assert.InDelta(t, 0.5, result.Confidence, 1e-9)
	// The consulted page is still cited.
	require.NotEmpty(t, result.Sources)
	assert.Equal(t, "Wikipedia", result.Sources[0].Name)
}

func TestVerifyFactCheckRatingMapping(t *testing.T) {
	tests := []struct {
		rating             string
		expectedConfidence float64
		expectedStatus     string
	}{
		{rating: "False", expectedConfidence: 0.1, expectedStatus: StatusFalse},
		{rating: "Pants on Fire!", expectedConfidence: 0.1, expectedStatus: StatusFalse},
		{rating: "Mostly True", expectedConfidence: 0.85, expectedStatus: StatusTrue},
		{rating: "Mixture", expectedConfidence: 0.5, expectedStatus: StatusPartiallyTrue},
	}

	for _, tt := range tests {
		t.Run(tt.rating, func(t *testing.T) {
			factcheck := &fakeFactCheck{reviews: []sources.FactCheckReview{{
				TextualRating: tt.rating,
				Reviewer:      "Science Checker",
				ReviewURL:     "https://checker.example/review",
			}}}
			v := NewVerifier(nil, nil, factcheck, registry.New())

			result := v.Verify(context.Background(), "Bananas are radioactive enough to harm humans", "")

			require.NotEmpty(t, result.Evidence)
			assert.Equal(t, fmt.Sprintf("Science Checker rated this claim: %s", tt.rating), result.Evidence[0])
			assert.InDelta(t, tt.expectedConfidence, result.Confidence, 1e-9)
			assert.Equal(t, tt.expectedStatus, result.Status)
			require.NotEmpty(t, result.Sources)
			assert.Equal(t, "Science Checker", result.Sources[0].Name)
		})
	}
}

func TestVerifyAIEvidenceAlwaysList(t *testing.T) {
	ai := &fakeAI{response: `{"status": "True", "confidence_score": 0.9}`}
	v := NewVerifier(ai, nil, nil, registry.New())

	result := v.Verify(context.Background(), "Honey can be stored for years without spoiling", "")
	require.NotNil(t, result.Evidence)
	assert.Empty(t, result.Evidence)
}

func TestLookupKnownClaim(t *testing.T) {
	assert.NotNil(t, lookupKnownClaim("Do VACCINES really cause AUTISM?"))
	assert.NotNil(t, lookupKnownClaim("the earth is flat"))
	assert.Nil(t, lookupKnownClaim("vaccines are effective"))
	assert.Nil(t, lookupKnownClaim(""))
}
