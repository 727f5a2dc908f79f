// Package registry holds the in-process claim and monitor state. Entries
// live for the lifetime of the process; last writer wins.
package registry

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Claim is a factual assertion extracted from input text.
type Claim struct {
	ID               string    `json:"id"`
	Text             string    `json:"text"`
	Confidence       float64   `json:"confidence"`
	ExtractionMethod string    `json:"extraction_method"`
	SourceURL        string    `json:"source_url,omitempty"`
	ExtractedAt      time.Time `json:"extraction_date"`

	Verification *Verification `json:"verification,omitempty"`
	Mentions     int           `json:"mentions,omitempty"`
}

// Verification is the verdict attached to a claim after checking.
type Verification struct {
	Claim      string      `json:"claim"`
	Status     string      `json:"status"`
	Confidence float64     `json:"confidence_score"`
	Evidence   []string    `json:"evidence"`
	Sources    []SourceRef `json:"sources"`
	Reasoning  string      `json:"reasoning,omitempty"`
	Method     string      `json:"verification_method"`
	VerifiedAt time.Time   `json:"verification_date"`
}

// SourceRef points at an external source used as evidence.
type SourceRef struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	Retrieved string `json:"retrieved,omitempty"`
}

// Monitor is a registered keyword watch.
type Monitor struct {
	ID        string    `json:"id"`
	Keywords  []string  `json:"keywords"`
	Threshold float64   `json:"threshold"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	HitCount  int       `json:"hit_count"`
	LastSweep time.Time `json:"last_sweep,omitempty"`
}

// TrendingEntry describes a widely spread, low-veracity claim.
type TrendingEntry struct {
	Claim       string  `json:"claim"`
	SpreadScore float64 `json:"spread_score"`
	TruthScore  float64 `json:"truth_score"`
	Topic       string  `json:"topic"`
	FirstSeen   string  `json:"first_seen"`
}

// Registry is the process-wide claim and monitor store.
type Registry struct {
	mu       sync.RWMutex
	claims   map[string]*Claim
	monitors map[string]*Monitor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		claims:   make(map[string]*Claim),
		monitors: make(map[string]*Monitor),
	}
}

// PutClaim stores a claim, overwriting any previous entry with the same ID.
// The registry keeps its own copy; later mutations of the argument are not
// visible to readers.
func (r *Registry) PutClaim(claim *Claim) {
	r.mu.Lock()
	defer r.mu.Unlock()
	claim.Mentions++
	stored := *claim
	r.claims[claim.ID] = &stored
}

// GetClaim returns a copy of a stored claim by ID.
func (r *Registry) GetClaim(id string) (*Claim, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	claim, ok := r.claims[id]
	if !ok {
		return nil, false
	}
	return copyClaim(claim), true
}

// AttachVerification records a verification result against a claim.
func (r *Registry) AttachVerification(id string, v *Verification) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	claim, ok := r.claims[id]
	if !ok {
		return false
	}
	verification := *v
	claim.Verification = &verification
	return true
}

// Claims returns a snapshot of all stored claims. Entries are copies and
// safe to read while verifications are being attached.
func (r *Registry) Claims() []*Claim {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Claim, 0, len(r.claims))
	for _, c := range r.claims {
		out = append(out, copyClaim(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExtractedAt.After(out[j].ExtractedAt) })
	return out
}

func copyClaim(claim *Claim) *Claim {
	c := *claim
	if c.Verification != nil {
		v := *c.Verification
		c.Verification = &v
	}
	return &c
}

// PutMonitor registers a monitor. The registry keeps its own copy.
func (r *Registry) PutMonitor(m *Monitor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *m
	r.monitors[m.ID] = &stored
}

// GetMonitor returns a copy of a monitor by ID.
func (r *Registry) GetMonitor(id string) (*Monitor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.monitors[id]
	if !ok {
		return nil, false
	}
	copied := *m
	return &copied, true
}

// Monitors returns a snapshot of all registered monitors. Entries are copies
// and safe to read while sweeps record hits.
func (r *Registry) Monitors() []*Monitor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Monitor, 0, len(r.monitors))
	for _, m := range r.monitors {
		copied := *m
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// RecordMonitorHit increments the hit counter for a monitor.
func (r *Registry) RecordMonitorHit(id string, sweepTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.monitors[id]; ok {
		m.HitCount++
		m.LastSweep = sweepTime
	}
}

// MarkSwept updates the last sweep time without recording a hit.
func (r *Registry) MarkSwept(id string, sweepTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.monitors[id]; ok {
		m.LastSweep = sweepTime
	}
}

// seedTrending is the demo trending data set.
var seedTrending = []TrendingEntry{
	{Claim: "5G technology is causing COVID-19 symptoms", SpreadScore: 0.85, TruthScore: 0.05, Topic: "health", FirstSeen: "2025-04-15"},
	{Claim: "Elections were rigged using secret algorithms", SpreadScore: 0.92, TruthScore: 0.12, Topic: "politics", FirstSeen: "2025-03-22"},
	{Claim: "Drinking bleach cures cancer", SpreadScore: 0.75, TruthScore: 0.01, Topic: "health", FirstSeen: "2025-02-07"},
	{Claim: "Climate change is a hoax created by scientists", SpreadScore: 0.88, TruthScore: 0.04, Topic: "environment", FirstSeen: "2025-01-30"},
	{Claim: "New cryptocurrency guaranteed to increase 1000% in value", SpreadScore: 0.79, TruthScore: 0.10, Topic: "finance", FirstSeen: "2025-04-05"},
}

// Trending returns trending misinformation: the demo seed set plus any
// registered claims that were verified False, filtered by topic.
func (r *Registry) Trending(topic string, limit int) []TrendingEntry {
	if limit <= 0 {
		limit = 5
	}

	entries := make([]TrendingEntry, 0, len(seedTrending))
	entries = append(entries, seedTrending...)

	r.mu.RLock()
	for _, c := range r.claims {
		if c.Verification == nil || c.Verification.Status != "False" {
			continue
		}
		spread := 0.4 + 0.1*float64(c.Mentions)
		if spread > 0.99 {
			spread = 0.99
		}
		entries = append(entries, TrendingEntry{
			Claim:       c.Text,
			SpreadScore: spread,
			TruthScore:  1 - c.Verification.Confidence,
			Topic:       "general",
			FirstSeen:   c.ExtractedAt.Format("2006-01-02"),
		})
	}
	r.mu.RUnlock()

	if topic != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if strings.Contains(strings.ToLower(e.Topic), strings.ToLower(topic)) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].SpreadScore > entries[j].SpreadScore })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
