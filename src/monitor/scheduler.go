// Package monitor sweeps registered keyword monitors against news feeds and
// raises alerts for likely misinformation.
package monitor

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/robfig/cron/v3"

	"github.com/truthlens/truthlens/src/claims"
	"github.com/truthlens/truthlens/src/registry"
)

const (
	defaultFeedBase  = "https://news.google.com/rss/search?q="
	maxItemsPerSweep = 5
	sweepItemTimeout = 45 * time.Second
)

// Hit describes a monitored claim that crossed the alert threshold.
type Hit struct {
	MonitorID  string
	Keywords   []string
	Headline   string
	Link       string
	Status     string
	Confidence float64
}

// Notifier delivers monitor alerts.
type Notifier interface {
	Alert(hit Hit) error
}

// Scheduler periodically sweeps all registered monitors.
type Scheduler struct {
	reg      *registry.Registry
	verifier *claims.Verifier
	notifier Notifier

	feedBase string
	parser   *gofeed.Parser
	cron     *cron.Cron
	interval time.Duration
}

// NewScheduler creates a scheduler. notifier may be nil.
func NewScheduler(reg *registry.Registry, verifier *claims.Verifier, notifier Notifier, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return &Scheduler{
		reg:      reg,
		verifier: verifier,
		notifier: notifier,
		feedBase: defaultFeedBase,
		parser:   gofeed.NewParser(),
		cron:     cron.New(),
		interval: interval,
	}
}

// Start schedules periodic sweeps until Stop is called.
func (s *Scheduler) Start() error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.interval)
		defer cancel()
		s.SweepAll(ctx)
	}); err != nil {
		return fmt.Errorf("monitor: schedule sweep: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop halts the sweep schedule.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// SweepAll runs one sweep over every active monitor.
func (s *Scheduler) SweepAll(ctx context.Context) {
	for _, m := range s.reg.Monitors() {
		if m.Status != "active" {
			continue
		}
		if err := s.Sweep(ctx, m); err != nil {
			log.Printf("monitor: sweep %s failed: %v", m.ID, err)
		}
	}
}

// Sweep checks recent news for one monitor's keywords.
func (s *Scheduler) Sweep(ctx context.Context, m *registry.Monitor) error {
	query := url.QueryEscape(strings.Join(m.Keywords, " "))
	feed, err := s.parser.ParseURLWithContext(s.feedBase+query, ctx)
	if err != nil {
		return fmt.Errorf("monitor: parse feed: %w", err)
	}

	now := time.Now().UTC()
	s.reg.MarkSwept(m.ID, now)

	items := feed.Items
	if len(items) > maxItemsPerSweep {
		items = items[:maxItemsPerSweep]
	}

	for _, item := range items {
		headline := strings.TrimSpace(item.Title)
		if headline == "" {
			continue
		}

		itemCtx, cancel := context.WithTimeout(ctx, sweepItemTimeout)
		verdict := s.verifier.Verify(itemCtx, headline, "")
		cancel()

		misinfoConfidence := 0.0
		if verdict.Status == claims.StatusFalse {
			misinfoConfidence = verdict.Confidence
		}
		if misinfoConfidence < m.Threshold {
			continue
		}

		s.reg.RecordMonitorHit(m.ID, now)
		if s.notifier != nil {
			hit := Hit{
				MonitorID:  m.ID,
				Keywords:   m.Keywords,
				Headline:   headline,
				Link:       item.Link,
				Status:     verdict.Status,
				Confidence: misinfoConfidence,
			}
			if err := s.notifier.Alert(hit); err != nil {
				log.Printf("monitor: alert failed: %v", err)
			}
		}
	}
	return nil
}
