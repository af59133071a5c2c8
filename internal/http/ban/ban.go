package ban

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// LogEntry records one ban for the periodic summary.
type LogEntry struct {
	Target  string    `json:"target"`
	Route   string    `json:"route"`
	Strikes int64     `json:"strikes"`
	Time    time.Time `json:"time"`
}

// Store keeps strike counters, active bans and the ban log.
type Store interface {
	Strike(ctx context.Context, target string, window time.Duration) (int64, error)
	Ban(ctx context.Context, target string, d time.Duration) error
	IsBanned(ctx context.Context, target string) (bool, error)
	LogBan(ctx context.Context, entry LogEntry) error
	DrainLog(ctx context.Context) ([]LogEntry, error)
}

// Guard bans clients that keep tripping the rate limiter.
type Guard struct {
	store      Store
	maxStrikes int64
	duration   time.Duration
	logger     *logrus.Logger
	now        func() time.Time
}

func NewGuard(store Store, maxStrikes int, duration time.Duration, logger *logrus.Logger) *Guard {
	return &Guard{
		store:      store,
		maxStrikes: int64(maxStrikes),
		duration:   duration,
		logger:     logger,
		now:        time.Now,
	}
}

func (g *Guard) IsBanned(ctx context.Context, target string) (bool, error) {
	banned, err := g.store.IsBanned(ctx, target)
	if err != nil {
		return false, fmt.Errorf("failed to check ban for %s: %w", target, err)
	}
	return banned, nil
}

// Strike counts a rate-limit violation and bans target once it reaches the
// configured number of strikes within the ban window.
func (g *Guard) Strike(ctx context.Context, target, route string) (bool, error) {
	strikes, err := g.store.Strike(ctx, target, g.duration)
	if err != nil {
		return false, fmt.Errorf("failed to record strike for %s: %w", target, err)
	}
	if strikes < g.maxStrikes {
		return false, nil
	}

	if err := g.store.Ban(ctx, target, g.duration); err != nil {
		return false, fmt.Errorf("failed to ban %s: %w", target, err)
	}

	g.logger.WithFields(logrus.Fields{
		"target":   target,
		"route":    route,
		"strikes":  strikes,
		"duration": g.duration.String(),
	}).Warn("client banned")

	entry := LogEntry{Target: target, Route: route, Strikes: strikes, Time: g.now()}
	if err := g.store.LogBan(ctx, entry); err != nil {
		g.logger.WithError(err).Error("failed to log ban event")
	}
	return true, nil
}

// Summary aggregates drained ban log entries.
type Summary struct {
	Total    int
	ByRoute  map[string]int
	ByTarget map[string]int
}

// Summarize drains the ban log and logs per-route and per-target counts.
func (g *Guard) Summarize(ctx context.Context) (Summary, error) {
	entries, err := g.store.DrainLog(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to read ban log: %w", err)
	}

	s := Summary{Total: len(entries), ByRoute: map[string]int{}, ByTarget: map[string]int{}}
	for _, e := range entries {
		s.ByRoute[e.Route]++
		s.ByTarget[e.Target]++
	}

	if s.Total > 0 {
		g.logger.WithFields(logrus.Fields{
			"total":     s.Total,
			"by_route":  sortedCounts(s.ByRoute),
			"by_target": sortedCounts(s.ByTarget),
		}).Info("ban summary")
	}
	return s, nil
}

// StartBanSummary logs a ban summary every interval until ctx ends.
func (g *Guard) StartBanSummary(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := g.Summarize(ctx); err != nil {
				g.logger.WithError(err).Error("ban summary failed")
			}
		}
	}
}

func sortedCounts(counts map[string]int) []string {
	out := make([]string, 0, len(counts))
	for k, v := range counts {
		out = append(out, fmt.Sprintf("%s=%d", k, v))
	}
	sort.Strings(out)
	return out
}
