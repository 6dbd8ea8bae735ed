package model

import "time"

// PostStatus is the lifecycle state of a generated post.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusApproved  PostStatus = "approved"
	StatusPublished PostStatus = "published"
	StatusRejected  PostStatus = "rejected"
)

// PublishStatus records the outcome of a publish attempt.
type PublishStatus string

const (
	PublishSuccess PublishStatus = "success"
	PublishFailed  PublishStatus = "failed"
)

// VerificationStatus is the state of a legal citation check.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationFailed   VerificationStatus = "failed"
	VerificationWarning  VerificationStatus = "warning"
)

// Article is a crawled source article. Immutable once stored.
type Article struct {
	ID        int64
	URL       string
	Title     string
	RawHTML   string
	Category  string
	CrawledAt time.Time
}

// ProcessedArticle is the cleaned one-to-one derivation of an Article.
type ProcessedArticle struct {
	ArticleID int64
	CleanText string
	Summary   string
	WordCount int
}

// Keyword is a researched search keyword with its composite score.
type Keyword struct {
	ID                  int64
	Text                string
	Cluster             string
	MonthlySearchVolume int
	CompetitionScore    float64
	RelevanceScore      float64
	TotalScore          float64
}

// Post is the central mutable entity flowing through the pipeline.
// SEOScore and KeywordDensity must be recomputed whenever Body changes.
type Post struct {
	ID              int64
	ArticleID       int64
	KeywordID       int64
	Title           string
	Body            string
	HTMLBody        string
	SEOScore        float64
	KeywordDensity  float64
	WordCount       int
	GenerationCost  float64
	Status          PostStatus
	PublishCategory string
	BlogID          string
}

// PublishRecord is one append-only entry in the publish history.
type PublishRecord struct {
	PostID       int64
	BlogID       string
	BlogURL      string
	Status       PublishStatus
	PublishedAt  time.Time
	ErrorMessage string
}

// LegalReference is a law citation extracted from a post body.
// References are fully replaced when the post is regenerated.
type LegalReference struct {
	PostID            int64
	LawName           string
	NormalizedLawName string
	ArticleNumber     string
	CitationText      string
	Status            VerificationStatus
}

// RecentPost is the projection the duplicate checker compares against.
type RecentPost struct {
	ID     int64
	Title  string
	Body   string
	Status PostStatus
}
