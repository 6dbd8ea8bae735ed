package storage

import (
	"context"
	"time"

	"blogforge/internal/model"
)

// Store combines every persistence capability the pipeline needs.
type Store interface {
	Corpus
	PublishLog
	LegalStore
	Close() error
}

// Corpus defines operations over articles, keywords and posts.
type Corpus interface {
	// SaveArticle inserts a crawled article and assigns its ID.
	SaveArticle(ctx context.Context, article *model.Article) error

	// SaveProcessed upserts the cleaned derivation of an article.
	SaveProcessed(ctx context.Context, processed model.ProcessedArticle) error

	// ProcessedByArticle retrieves a cleaned article, nil when absent.
	ProcessedByArticle(ctx context.Context, articleID int64) (*model.ProcessedArticle, error)

	// SaveKeyword upserts a keyword by its text.
	SaveKeyword(ctx context.Context, kw *model.Keyword) error

	// KeywordByID retrieves a keyword, nil when absent.
	KeywordByID(ctx context.Context, id int64) (*model.Keyword, error)

	// SavePost inserts a new post and assigns its ID.
	SavePost(ctx context.Context, post *model.Post) error

	// GetPost retrieves a post by ID.
	GetPost(ctx context.Context, id int64) (*model.Post, error)

	// UpdatePostContent replaces a post's body together with the scores
	// derived from it, so stored scores are never stale.
	UpdatePostContent(ctx context.Context, id int64, body, htmlBody string, seoScore, keywordDensity float64, wordCount int) error

	// UpdatePostStatus moves a post through its lifecycle.
	UpdatePostStatus(ctx context.Context, id int64, status model.PostStatus) error

	// RecentPosts returns up to limit most recent posts of any status,
	// excluding excludeID when positive.
	RecentPosts(ctx context.Context, limit int, excludeID int64) ([]model.RecentPost, error)

	// NextApprovedPost returns the oldest approved post in category, or the
	// oldest approved post overall when the category has none. Nil when
	// nothing is approved.
	NextApprovedPost(ctx context.Context, category string) (*model.Post, error)

	// PostCountsByCategory counts published and approved posts per category.
	PostCountsByCategory(ctx context.Context, blogID string) (map[string]int, error)

	// TotalPublished counts published and approved posts for rotation math.
	TotalPublished(ctx context.Context, blogID string) (int, error)
}

// PublishLog is the append-only publish history the anti-abuse gate reads.
type PublishLog interface {
	// AppendPublishRecord records the outcome of one publish attempt.
	AppendPublishRecord(ctx context.Context, rec model.PublishRecord) error

	// LastSuccessfulPublish returns the latest successful publish time.
	LastSuccessfulPublish(ctx context.Context, blogID string) (time.Time, bool, error)

	// SuccessCountSince counts successes at or after since.
	SuccessCountSince(ctx context.Context, blogID string, since time.Time) (int, error)
}

// LegalStore persists extracted law citations.
type LegalStore interface {
	// ReplaceReferences swaps all references of a post for the given set.
	ReplaceReferences(ctx context.Context, postID int64, refs []model.LegalReference) error

	// ReferencesByPost lists a post's citations in insertion order.
	ReferencesByPost(ctx context.Context, postID int64) ([]model.LegalReference, error)
}
