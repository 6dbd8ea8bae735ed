// Package humanizer owns the review-and-fix policy: detect AI patterns,
// apply cheap local fixes, optionally call the rewriting collaborator once,
// and accept the candidate only when it preserves the body's substance and
// measurably improves its naturalness.
package humanizer

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"unicode/utf8"

	"blogforge/internal/config"
	"blogforge/internal/detector"
	"blogforge/internal/textmetrics"
)

// Humanizer runs the acceptance policy around a Rewriter. rewriter may be
// nil, in which case only the quick fixes apply.
type Humanizer struct {
	detector *detector.Detector
	rewriter Rewriter
	cfg      config.HumanizerConfig
}

func New(d *detector.Detector, r Rewriter, cfg config.HumanizerConfig) *Humanizer {
	if cfg.MinLengthRatio == 0 {
		cfg = config.Default().Humanizer
	}
	return &Humanizer{detector: d, rewriter: r, cfg: cfg}
}

// ReviewAndFix reviews body and returns the best text known together with its
// review. At most one external rewrite call is made; a failed, invalid or
// non-improving candidate reverts to the quick-fixed text. The returned
// score never falls below the input's score.
func (h *Humanizer) ReviewAndFix(ctx context.Context, body, title, keyword string, forceRewrite bool) (string, detector.Result) {
	review := h.detector.Detect(body)
	fixed := QuickFix(body)

	if !review.NeedsRewrite && !forceRewrite {
		return fixed, review
	}
	if h.rewriter == nil {
		log.Printf("rewrite wanted (score %d) but no rewriter configured", review.Score)
		return fixed, review
	}

	candidate, err := h.rewriter.Rewrite(ctx, RewriteRequest{
		Body:    fixed,
		Title:   title,
		Keyword: keyword,
		Issues:  review.Issues,
	})
	if err != nil {
		log.Printf("rewrite call failed, keeping current text: %v", err)
		return fixed, review
	}

	if reason := h.validateCandidate(fixed, candidate, keyword); reason != "" {
		log.Printf("rewrite rejected (%s), keeping current text", reason)
		return fixed, review
	}

	postReview := h.detector.Detect(candidate)
	if postReview.Score > review.Score {
		return candidate, postReview
	}
	log.Printf("rewrite did not improve score (%d -> %d), keeping current text", review.Score, postReview.Score)
	return fixed, review
}

// validateCandidate enforces the preservation invariants. It returns an empty
// string when the candidate is acceptable, otherwise the rejection reason.
func (h *Humanizer) validateCandidate(original, candidate, keyword string) string {
	origLen := utf8.RuneCountInString(original)
	candLen := utf8.RuneCountInString(candidate)
	if origLen == 0 || candLen == 0 {
		return "empty text"
	}

	ratio := float64(candLen) / float64(origLen)
	if ratio < h.cfg.MinLengthRatio || ratio > h.cfg.MaxLengthRatio {
		return fmt.Sprintf("length ratio %.2f outside [%.1f, %.1f]", ratio, h.cfg.MinLengthRatio, h.cfg.MaxLengthRatio)
	}

	if keyword != "" {
		origKw := strings.Count(original, keyword)
		if origKw > 0 {
			candKw := strings.Count(candidate, keyword)
			variants := candKw
			// long compound keywords survive rewriting as shortened forms,
			// so count prefix-based variants too
			if kwRunes := []rune(keyword); len(kwRunes) >= 4 {
				prefix := string(kwRunes[:2])
				variantRe := regexp.MustCompile(regexp.QuoteMeta(prefix) + `[가-힣]{1,6}`)
				variants = len(variantRe.FindAllString(candidate, -1))
			}
			if float64(candKw) < float64(origKw)*0.3 && float64(variants) < float64(origKw)*0.5 {
				return fmt.Sprintf("keyword count dropped %d -> %d (variants %d)", origKw, candKw, variants)
			}
		}
	}

	if h.cfg.RequiredLink != "" &&
		strings.Contains(original, h.cfg.RequiredLink) &&
		!strings.Contains(candidate, h.cfg.RequiredLink) {
		return fmt.Sprintf("required link %q lost", h.cfg.RequiredLink)
	}

	if origRows := textmetrics.TableRowCount(original); origRows > 0 {
		candRows := textmetrics.TableRowCount(candidate)
		if float64(candRows) < float64(origRows)*0.5 {
			return fmt.Sprintf("table rows dropped %d -> %d", origRows, candRows)
		}
	}

	return ""
}
