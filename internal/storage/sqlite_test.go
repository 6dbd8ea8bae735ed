package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogforge/internal/model"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testPost(title, category string, status model.PostStatus) *model.Post {
	return &model.Post{
		Title:           title,
		Body:            "본문 " + title,
		Status:          status,
		PublishCategory: category,
		BlogID:          "main",
	}
}

func TestSQLiteStore_SaveAndGetPost(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	post := testPost("수의계약 한도액 정리", "계약", model.StatusDraft)
	post.SEOScore = 72.5
	post.KeywordDensity = 1.8
	require.NoError(t, store.SavePost(ctx, post))
	require.NotZero(t, post.ID)

	got, err := store.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Title, got.Title)
	assert.Equal(t, model.StatusDraft, got.Status)
	assert.Equal(t, 72.5, got.SEOScore)
	assert.Equal(t, "계약", got.PublishCategory)
}

func TestSQLiteStore_UpdatePostContent_RefreshesScores(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	post := testPost("예산 편성 실무", "예산", model.StatusDraft)
	require.NoError(t, store.SavePost(ctx, post))

	require.NoError(t, store.UpdatePostContent(ctx, post.ID, "수정된 본문", "<p>수정된 본문</p>", 81.0, 2.1, 120))

	got, err := store.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "수정된 본문", got.Body)
	assert.Equal(t, 81.0, got.SEOScore)
	assert.Equal(t, 2.1, got.KeywordDensity)
	assert.Equal(t, 120, got.WordCount)
}

func TestSQLiteStore_UpdatePostContent_MissingPost(t *testing.T) {
	store := openTestStore(t)
	err := store.UpdatePostContent(context.Background(), 999, "x", "<p>x</p>", 0, 0, 1)
	assert.Error(t, err)
}

func TestSQLiteStore_RecentPosts_ExcludesGivenID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := testPost("첫 번째 글", "계약", model.StatusPublished)
	second := testPost("두 번째 글", "계약", model.StatusDraft)
	require.NoError(t, store.SavePost(ctx, first))
	require.NoError(t, store.SavePost(ctx, second))

	posts, err := store.RecentPosts(ctx, 10, second.ID)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, first.ID, posts[0].ID)
	assert.Equal(t, model.StatusPublished, posts[0].Status)
}

func TestSQLiteStore_NextApprovedPost_CategoryFallback(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	got, err := store.NextApprovedPost(ctx, "계약")
	require.NoError(t, err)
	assert.Nil(t, got)

	approved := testPost("인사 규정 해설", "인사", model.StatusApproved)
	require.NoError(t, store.SavePost(ctx, approved))

	// No approved post in the requested category, so the oldest approved
	// post overall is returned.
	got, err = store.NextApprovedPost(ctx, "계약")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, approved.ID, got.ID)

	inCategory := testPost("수의계약 절차", "계약", model.StatusApproved)
	require.NoError(t, store.SavePost(ctx, inCategory))

	got, err = store.NextApprovedPost(ctx, "계약")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, inCategory.ID, got.ID)
}

func TestSQLiteStore_PostCountsByCategory(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePost(ctx, testPost("a", "계약", model.StatusPublished)))
	require.NoError(t, store.SavePost(ctx, testPost("b", "계약", model.StatusApproved)))
	require.NoError(t, store.SavePost(ctx, testPost("c", "예산", model.StatusPublished)))
	require.NoError(t, store.SavePost(ctx, testPost("d", "예산", model.StatusRejected)))

	counts, err := store.PostCountsByCategory(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"계약": 2, "예산": 1}, counts)

	total, err := store.TotalPublished(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestSQLiteStore_PublishHistory(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, found, err := store.LastSuccessfulPublish(ctx, "main")
	require.NoError(t, err)
	assert.False(t, found)

	earlier := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	later := time.Date(2025, 3, 2, 15, 0, 0, 0, time.UTC)

	require.NoError(t, store.AppendPublishRecord(ctx, model.PublishRecord{
		PostID: 1, BlogID: "main", Status: model.PublishSuccess, PublishedAt: earlier,
	}))
	require.NoError(t, store.AppendPublishRecord(ctx, model.PublishRecord{
		PostID: 2, BlogID: "main", Status: model.PublishSuccess, PublishedAt: later,
	}))
	require.NoError(t, store.AppendPublishRecord(ctx, model.PublishRecord{
		PostID: 3, BlogID: "main", Status: model.PublishFailed, PublishedAt: later.Add(time.Hour),
		ErrorMessage: "timeout",
	}))

	last, found, err := store.LastSuccessfulPublish(ctx, "main")
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, last.Equal(later))

	// Failed attempts never count toward the quota.
	n, err := store.SuccessCountSince(ctx, "main", earlier)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = store.SuccessCountSince(ctx, "main", later)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLiteStore_ReplaceReferences(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	post := testPost("지방계약법 해설", "계약", model.StatusDraft)
	require.NoError(t, store.SavePost(ctx, post))

	require.NoError(t, store.ReplaceReferences(ctx, post.ID, []model.LegalReference{
		{PostID: post.ID, LawName: "지방계약법", NormalizedLawName: "지방자치단체를 당사자로 하는 계약에 관한 법률", ArticleNumber: "제9조", CitationText: "지방계약법 제9조", Status: model.VerificationVerified},
	}))

	require.NoError(t, store.ReplaceReferences(ctx, post.ID, []model.LegalReference{
		{PostID: post.ID, LawName: "지방계약법", NormalizedLawName: "지방자치단체를 당사자로 하는 계약에 관한 법률", ArticleNumber: "제30조", CitationText: "지방계약법 제30조", Status: model.VerificationVerified},
		{PostID: post.ID, LawName: "민법", NormalizedLawName: "민법", ArticleNumber: "제750조", CitationText: "「민법」 제750조", Status: model.VerificationPending},
	}))

	refs, err := store.ReferencesByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "제30조", refs[0].ArticleNumber)
	assert.Equal(t, model.VerificationPending, refs[1].Status)
}

func TestSQLiteStore_SaveKeywordUpsert(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	kw := &model.Keyword{Text: "수의계약 한도", MonthlySearchVolume: 1200, CompetitionScore: 0.4, TotalScore: 55.2}
	require.NoError(t, store.SaveKeyword(ctx, kw))
	require.NotZero(t, kw.ID)

	updated := &model.Keyword{Text: "수의계약 한도", MonthlySearchVolume: 1500, CompetitionScore: 0.3, TotalScore: 60.0}
	require.NoError(t, store.SaveKeyword(ctx, updated))

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM keywords").Scan(&count))
	assert.Equal(t, 1, count)
}
