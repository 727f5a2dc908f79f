package registry

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClaim(id, text string) *Claim {
	return &Claim{
		ID:               id,
		Text:             text,
		Confidence:       0.8,
		ExtractionMethod: "pattern_matching",
		ExtractedAt:      time.Now().UTC(),
	}
}

func TestPutAndGetClaim(t *testing.T) {
	reg := New()

	claim := newTestClaim("claim_1", "The sky is blue.")
	reg.PutClaim(claim)

	got, ok := reg.GetClaim("claim_1")
	require.True(t, ok)
	assert.Equal(t, "The sky is blue.", got.Text)
	assert.Equal(t, 1, got.Mentions)

	_, ok = reg.GetClaim("missing")
	assert.False(t, ok)
}

func TestPutClaimLastWriterWins(t *testing.T) {
	reg := New()

	reg.PutClaim(newTestClaim("claim_1", "first"))
	reg.PutClaim(newTestClaim("claim_1", "second"))

	got, ok := reg.GetClaim("claim_1")
	require.True(t, ok)
	assert.Equal(t, "second", got.Text)
}

func TestAttachVerification(t *testing.T) {
	reg := New()
	reg.PutClaim(newTestClaim("claim_1", "Vaccines cause autism."))

	attached := reg.AttachVerification("claim_1", &Verification{
		Claim:      "Vaccines cause autism.",
		Status:     "False",
		Confidence: 0.95,
	})
	assert.True(t, attached)

	got, _ := reg.GetClaim("claim_1")
	require.NotNil(t, got.Verification)
	assert.Equal(t, "False", got.Verification.Status)

	assert.False(t, reg.AttachVerification("missing", &Verification{}))
}

func TestMonitors(t *testing.T) {
	reg := New()

	m := &Monitor{
		ID:        "monitor_1",
		Keywords:  []string{"vaccine"},
		Threshold: 0.6,
		Status:    "active",
		CreatedAt: time.Now().UTC(),
	}
	reg.PutMonitor(m)

	got, ok := reg.GetMonitor("monitor_1")
	require.True(t, ok)
	assert.Equal(t, []string{"vaccine"}, got.Keywords)

	sweepTime := time.Now().UTC()
	reg.RecordMonitorHit("monitor_1", sweepTime)
	reg.RecordMonitorHit("monitor_1", sweepTime)

	got, _ = reg.GetMonitor("monitor_1")
	assert.Equal(t, 2, got.HitCount)
	assert.Equal(t, sweepTime, got.LastSweep)

	assert.Len(t, reg.Monitors(), 1)
}

func TestTrendingSeedSet(t *testing.T) {
	reg := New()

	trending := reg.Trending("", 5)
	require.Len(t, trending, 5)

	// Sorted by spread score, descending.
	for i := 1; i < len(trending); i++ {
		assert.GreaterOrEqual(t, trending[i-1].SpreadScore, trending[i].SpreadScore)
	}
}

func TestTrendingTopicFilter(t *testing.T) {
	reg := New()

	tests := []struct {
		name     string
		topic    string
		expected int
	}{
		{name: "health topic", topic: "health", expected: 2},
		{name: "case insensitive", topic: "HEALTH", expected: 2},
		{name: "politics topic", topic: "politics", expected: 1},
		{name: "unknown topic", topic: "sports", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, reg.Trending(tt.topic, 10), tt.expected)
		})
	}
}

func TestTrendingIncludesFalseClaims(t *testing.T) {
	reg := New()

	claim := newTestClaim("claim_1", "Drinking seawater cures all diseases.")
	reg.PutClaim(claim)
	reg.AttachVerification("claim_1", &Verification{
		Claim:      claim.Text,
		Status:     "False",
		Confidence: 0.9,
	})

	trending := reg.Trending("general", 10)
	require.Len(t, trending, 1)
	assert.Equal(t, claim.Text, trending[0].Claim)
	assert.InDelta(t, 0.1, trending[0].TruthScore, 1e-9)
}

func TestClaimSnapshotsAreCopies(t *testing.T) {
	reg := New()
	reg.PutClaim(newTestClaim("claim_1", "The sky is blue."))

	got, _ := reg.GetClaim("claim_1")
	got.Text = "mutated"
	got.Verification = &Verification{Status: "False"}

	stored, _ := reg.GetClaim("claim_1")
	assert.Equal(t, "The sky is blue.", stored.Text)
	assert.Nil(t, stored.Verification)
}

func TestMonitorSnapshotsAreCopies(t *testing.T) {
	reg := New()
	reg.PutMonitor(&Monitor{ID: "monitor_1", Keywords: []string{"vaccine"}, Status: "active"})

	got, _ := reg.GetMonitor("monitor_1")
	got.Status = "paused"
	got.HitCount = 99

	stored, _ := reg.GetMonitor("monitor_1")
	assert.Equal(t, "active", stored.Status)
	assert.Equal(t, 0, stored.HitCount)
}

// Readers marshaling a snapshot must not observe concurrent verification
// writes; run with -race.
func TestConcurrentVerificationAndSnapshotReads(t *testing.T) {
	reg := New()
	for i := 0; i < 20; i++ {
		reg.PutClaim(newTestClaim(fmt.Sprintf("claim_%d", i), "Vaccines cause autism."))
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for round := 0; round < 50; round++ {
			for i := 0; i < 20; i++ {
				reg.AttachVerification(fmt.Sprintf("claim_%d", i), &Verification{
					Status:     "False",
					Confidence: 0.95,
					VerifiedAt: time.Now().UTC(),
				})
			}
		}
	}()

	go func() {
		defer wg.Done()
		for round := 0; round < 50; round++ {
			data, err := json.Marshal(reg.Claims())
			assert.NoError(t, err)
			assert.NotEmpty(t, data)
		}
	}()

	wg.Wait()
}

func TestTrendingLimit(t *testing.T) {
	reg := New()

	assert.Len(t, reg.Trending("", 2), 2)
	// Zero limit falls back to the default of 5.
	assert.Len(t, reg.Trending("", 0), 5)
}
