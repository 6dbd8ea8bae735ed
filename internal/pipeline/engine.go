package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"blogforge/internal/config"
	"blogforge/internal/detector"
	"blogforge/internal/humanizer"
	"blogforge/internal/legal"
	"blogforge/internal/model"
	"blogforge/internal/publisher"
	"blogforge/internal/quality"
	"blogforge/internal/seo"
	"blogforge/internal/storage"
)

// EventSink receives pipeline lifecycle events. Implementations must not
// block; failures to deliver are the sink's problem, not the pipeline's.
type EventSink interface {
	Emit(eventType string, payload map[string]any)
}

type noopSink struct{}

func (noopSink) Emit(string, map[string]any) {}

// Engine runs the review and publish stages over stored posts.
type Engine struct {
	store     storage.Store
	humanizer *humanizer.Humanizer
	scorer    *seo.Scorer
	checker   *quality.Checker
	gate      *publisher.Gate
	poster    publisher.Poster
	sink      EventSink
	cfg       *config.Config
	blogID    string
}

func NewEngine(store storage.Store, h *humanizer.Humanizer, cfg *config.Config) *Engine {
	blogID := cfg.Publisher.BlogID
	if blogID == "" {
		blogID = config.Default().Publisher.BlogID
	}
	return &Engine{
		store:     store,
		humanizer: h,
		scorer:    seo.New(cfg.SEO),
		checker:   quality.New(cfg.Quality),
		gate:      publisher.NewGate(store, cfg.Publisher),
		sink:      noopSink{},
		cfg:       cfg,
		blogID:    blogID,
	}
}

// WithPoster attaches the publishing backend. Without one, PublishNext stops
// after the gate decision.
func (e *Engine) WithPoster(p publisher.Poster) *Engine {
	e.poster = p
	return e
}

// WithSink attaches an event sink for notifications.
func (e *Engine) WithSink(s EventSink) *Engine {
	if s != nil {
		e.sink = s
	}
	return e
}

// ReviewOutcome summarizes one pass of the review stage over a post.
type ReviewOutcome struct {
	PostID    int64
	Status    model.PostStatus
	Detection detector.Result
	SEO       seo.Score
	Quality   quality.Report
	Duplicate quality.DuplicateResult
	Rewritten bool
}

// ReviewPost runs detection, humanizing, scoring and the duplicate gate over
// one post, persisting the result. The stored SEO score and keyword density
// always describe the persisted body.
func (e *Engine) ReviewPost(ctx context.Context, postID int64, forceRewrite bool) (*ReviewOutcome, error) {
	post, err := e.store.GetPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("load post %d: %w", postID, err)
	}

	keyword := ""
	if post.KeywordID > 0 {
		kw, err := e.store.KeywordByID(ctx, post.KeywordID)
		if err != nil {
			log.Printf("keyword lookup failed for post %d: %v", postID, err)
		} else if kw != nil {
			keyword = kw.Text
		}
	}

	body, detection := e.humanizer.ReviewAndFix(ctx, post.Body, post.Title, keyword, forceRewrite)
	outcome := &ReviewOutcome{
		PostID:    postID,
		Detection: detection,
		Rewritten: body != post.Body,
	}

	outcome.SEO = e.scorer.Calculate(post.Title, body, keyword)

	var original string
	if post.ArticleID > 0 {
		if src, err := e.sourceText(ctx, post.ArticleID); err == nil {
			original = src
		}
	}
	outcome.Quality = e.checker.CheckQuality(quality.Input{
		Title:           post.Title,
		Body:            body,
		OriginalContent: original,
	})

	corpus, err := e.store.RecentPosts(ctx, e.cfg.Quality.RecentPostLimit, postID)
	if err != nil {
		return nil, fmt.Errorf("load recent posts: %w", err)
	}
	outcome.Duplicate = e.checker.CheckDuplicate(post.Title, body, corpus, postID)

	outcome.Status = e.decideStatus(outcome)

	if err := e.store.UpdatePostContent(ctx, postID, body, renderHTML(body),
		outcome.SEO.Total, outcome.SEO.KeywordDensity, len(strings.Fields(body))); err != nil {
		return nil, fmt.Errorf("persist post %d: %w", postID, err)
	}
	if err := e.store.UpdatePostStatus(ctx, postID, outcome.Status); err != nil {
		return nil, fmt.Errorf("update status of post %d: %w", postID, err)
	}

	refs := legal.ExtractCitations(postID, body)
	if err := e.store.ReplaceReferences(ctx, postID, refs); err != nil {
		log.Printf("saving legal references for post %d failed: %v", postID, err)
	}

	e.sink.Emit("review_completed", map[string]any{
		"post_id":   postID,
		"title":     post.Title,
		"status":    string(outcome.Status),
		"ai_score":  detection.Score,
		"seo_score": outcome.SEO.Total,
		"quality":   outcome.Quality.Overall,
		"duplicate": outcome.Duplicate.IsDuplicate,
	})
	return outcome, nil
}

// decideStatus maps the gate results onto the post lifecycle. Duplicates are
// terminal; everything else that falls short stays a draft for another pass.
func (e *Engine) decideStatus(o *ReviewOutcome) model.PostStatus {
	if o.Duplicate.IsDuplicate {
		return model.StatusRejected
	}
	if !o.Quality.PlagiarismPass {
		return model.StatusDraft
	}
	if o.Detection.NeedsRewrite {
		return model.StatusDraft
	}
	if o.Quality.Overall == "poor" {
		return model.StatusDraft
	}
	return model.StatusApproved
}

func (e *Engine) sourceText(ctx context.Context, articleID int64) (string, error) {
	processed, err := e.store.ProcessedByArticle(ctx, articleID)
	if err != nil || processed == nil {
		return "", err
	}
	return processed.CleanText, nil
}

// PublishOutcome summarizes one publish attempt.
type PublishOutcome struct {
	Published bool
	Skipped   bool
	Reason    string
	PostID    int64
	Title     string
	Category  string
	URL       string
}

// PublishNext attempts to publish one approved post. The anti-abuse gate runs
// first; when it blocks, nothing is published and the reason is returned. A
// gate pass consumes the next approved post in the rotation category.
func (e *Engine) PublishNext(ctx context.Context) (*PublishOutcome, error) {
	ok, reason := e.gate.CanPublish(ctx, e.blogID)
	if !ok {
		e.sink.Emit("publish_skipped", map[string]any{"reason": reason})
		return &PublishOutcome{Skipped: true, Reason: reason}, nil
	}

	counts, err := e.store.PostCountsByCategory(ctx, e.blogID)
	if err != nil {
		return nil, fmt.Errorf("load category counts: %w", err)
	}
	total, err := e.store.TotalPublished(ctx, e.blogID)
	if err != nil {
		return nil, fmt.Errorf("load published total: %w", err)
	}
	category, err := publisher.SelectCategory(e.cfg.Publisher.CategoryOrder, e.cfg.Publisher.RotationQuota, counts, total)
	if err != nil {
		return nil, err
	}

	post, err := e.store.NextApprovedPost(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("load approved post: %w", err)
	}
	if post == nil {
		return &PublishOutcome{Skipped: true, Reason: "no approved posts", Category: category}, nil
	}

	if e.poster == nil {
		return &PublishOutcome{Skipped: true, Reason: "no poster configured", PostID: post.ID, Category: category}, nil
	}

	htmlBody := post.HTMLBody
	if htmlBody == "" {
		htmlBody = renderHTML(post.Body)
	}
	result, err := e.poster.Publish(ctx, publisher.Submission{
		Title:    post.Title,
		HTMLBody: htmlBody,
		Category: category,
	})

	record := model.PublishRecord{
		PostID:  post.ID,
		BlogID:  e.blogID,
		BlogURL: result.URL,
		Status:  model.PublishSuccess,
	}
	outcome := &PublishOutcome{
		PostID:   post.ID,
		Title:    post.Title,
		Category: category,
		URL:      result.URL,
	}

	if err != nil || !result.Success {
		record.Status = model.PublishFailed
		if err != nil {
			record.ErrorMessage = err.Error()
		} else {
			record.ErrorMessage = result.Error
		}
		outcome.Reason = record.ErrorMessage
	}

	if recErr := e.store.AppendPublishRecord(ctx, record); recErr != nil {
		log.Printf("recording publish attempt for post %d failed: %v", post.ID, recErr)
	}

	if record.Status == model.PublishSuccess {
		if err := e.store.UpdatePostStatus(ctx, post.ID, model.StatusPublished); err != nil {
			log.Printf("marking post %d published failed: %v", post.ID, err)
		}
		outcome.Published = true
		e.sink.Emit("publish_succeeded", map[string]any{
			"post_id":  post.ID,
			"title":    post.Title,
			"category": category,
			"url":      result.URL,
		})
		return outcome, nil
	}

	e.sink.Emit("publish_failed", map[string]any{
		"post_id": post.ID,
		"title":   post.Title,
		"error":   record.ErrorMessage,
	})
	return outcome, nil
}
