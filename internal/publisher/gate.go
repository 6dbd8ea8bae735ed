// Package publisher decides when and what to publish. The gate is a pure
// decision function over the publish history; no current state is stored.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"blogforge/internal/config"
)

// ErrInvalidQuota marks a rotation quota that makes the round-robin
// arithmetic undefined. This is a configuration bug and is never defaulted.
var ErrInvalidQuota = errors.New("rotation quota must be positive")

// History is the publish-history query surface the gate reads. Query errors
// are treated as "no information": the gate fails open.
type History interface {
	// LastSuccessfulPublish returns the most recent successful publish time
	// for the blog; ok is false when the blog has never published.
	LastSuccessfulPublish(ctx context.Context, blogID string) (t time.Time, ok bool, err error)

	// SuccessCountSince counts successful publishes at or after since.
	SuccessCountSince(ctx context.Context, blogID string, since time.Time) (int, error)
}

// Gate enforces the minimum interval and the daily/weekly caps, and computes
// the next eligible publish time with randomized jitter.
type Gate struct {
	history History
	cfg     config.PublisherConfig

	now    func() time.Time
	jitter func() float64 // standard normal sample
}

func NewGate(history History, cfg config.PublisherConfig) *Gate {
	if cfg.MinIntervalHours == 0 && cfg.MaxPostsPerDay == 0 {
		cfg = config.Default().Publisher
	}
	return &Gate{
		history: history,
		cfg:     cfg,
		now:     time.Now,
		jitter:  rand.NormFloat64,
	}
}

// CanPublish reports whether a publish is currently permitted and why not.
// A failing history query permits publishing rather than silently blocking
// the pipeline on a transient storage error.
func (g *Gate) CanPublish(ctx context.Context, blogID string) (bool, string) {
	now := g.now()
	minInterval := time.Duration(g.cfg.MinIntervalHours) * time.Hour

	last, ok, err := g.history.LastSuccessfulPublish(ctx, blogID)
	if err != nil {
		log.Printf("publish gate: interval check failed, permitting: %v", err)
	} else if ok && now.Sub(last) < minInterval {
		return false, fmt.Sprintf("minimum interval not met; next eligible at %s",
			g.NextPublishTime(ctx, blogID).Format(time.DateTime))
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := g.history.SuccessCountSince(ctx, blogID, midnight)
	if err != nil {
		log.Printf("publish gate: daily check failed, permitting: %v", err)
	} else if today >= g.cfg.MaxPostsPerDay {
		return false, fmt.Sprintf("daily limit reached (%d/%d)", today, g.cfg.MaxPostsPerDay)
	}

	week, err := g.history.SuccessCountSince(ctx, blogID, now.Add(-7*24*time.Hour))
	if err != nil {
		log.Printf("publish gate: weekly check failed, permitting: %v", err)
	} else if week >= g.cfg.MaxPostsPerWeek {
		return false, fmt.Sprintf("weekly limit reached (%d/%d)", week, g.cfg.MaxPostsPerWeek)
	}

	return true, "ok"
}

// NextPublishTime is last success plus the minimum interval, perturbed by
// Gaussian jitter (stddev 30 minutes) and snapped to the nearest preferred
// hour. The snap deliberately avoids a fixed publishing fingerprint.
func (g *Gate) NextPublishTime(ctx context.Context, blogID string) time.Time {
	now := g.now()
	minInterval := time.Duration(g.cfg.MinIntervalHours) * time.Hour

	base := now.Add(minInterval)
	if last, ok, err := g.history.LastSuccessfulPublish(ctx, blogID); err != nil {
		log.Printf("publish gate: next-time query failed: %v", err)
	} else if ok {
		base = last.Add(minInterval)
	}

	delay := time.Duration(g.jitter() * 30 * float64(time.Minute))
	next := base.Add(delay)

	return g.snapToPreferredHour(next)
}

// snapToPreferredHour moves t to the closest configured hour by absolute
// difference; ties resolve to the first matching entry in the list.
func (g *Gate) snapToPreferredHour(t time.Time) time.Time {
	if len(g.cfg.PreferredHours) == 0 {
		return t
	}
	hour := t.Hour()
	for _, h := range g.cfg.PreferredHours {
		if h == hour {
			return t
		}
	}
	closest := g.cfg.PreferredHours[0]
	bestDiff := absInt(closest - hour)
	for _, h := range g.cfg.PreferredHours[1:] {
		if d := absInt(h - hour); d < bestDiff {
			closest, bestDiff = h, d
		}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), closest, 0, 0, 0, t.Location())
}

// SelectCategory picks the content bucket eligible to publish next: the first
// category in order below the rotation quota, or, once every category filled
// its quota, a stateless round-robin derived from the total published count.
func SelectCategory(order []string, quota int, counts map[string]int, totalPublished int) (string, error) {
	if quota <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidQuota, quota)
	}
	if len(order) == 0 {
		return "", errors.New("category order must not be empty")
	}

	for _, cat := range order {
		if counts[cat] < quota {
			return cat, nil
		}
	}

	perRound := quota * len(order)
	idx := (totalPublished % perRound) / quota
	if idx >= len(order) {
		idx = len(order) - 1
	}
	return order[idx], nil
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
