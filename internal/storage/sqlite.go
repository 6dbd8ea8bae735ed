package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"blogforge/internal/model"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			url TEXT UNIQUE,
			title TEXT,
			raw_html TEXT,
			category TEXT,
			crawled_at TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS processed_articles (
			article_id INTEGER PRIMARY KEY,
			clean_text TEXT,
			summary TEXT,
			word_count INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS keywords (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			text TEXT UNIQUE,
			cluster TEXT,
			monthly_search_volume INTEGER,
			competition_score REAL,
			relevance_score REAL,
			total_score REAL
		);`,
		`CREATE TABLE IF NOT EXISTS posts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			article_id INTEGER,
			keyword_id INTEGER,
			title TEXT,
			body TEXT,
			html_body TEXT,
			seo_score REAL,
			keyword_density REAL,
			word_count INTEGER,
			generation_cost REAL,
			status TEXT,
			publish_category TEXT,
			blog_id TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS publish_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			post_id INTEGER,
			blog_id TEXT,
			blog_url TEXT,
			status TEXT,
			error_message TEXT,
			published_at TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS legal_references (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			post_id INTEGER,
			law_name TEXT,
			normalized_law_name TEXT,
			article_number TEXT,
			citation_text TEXT,
			verification_status TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_posts_status ON posts(status);`,
		`CREATE INDEX IF NOT EXISTS idx_publish_history_blog ON publish_history(blog_id, status, published_at);`,
		`CREATE INDEX IF NOT EXISTS idx_legal_references_post ON legal_references(post_id);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// --- Corpus Implementation ---

func (s *SQLiteStore) SaveArticle(ctx context.Context, article *model.Article) error {
	if article.CrawledAt.IsZero() {
		article.CrawledAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO articles (url, title, raw_html, category, crawled_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title=excluded.title,
			raw_html=excluded.raw_html,
			category=excluded.category,
			crawled_at=excluded.crawled_at
	`, article.URL, article.Title, article.RawHTML, article.Category, article.CrawledAt)
	if err != nil {
		return err
	}

	if id, err := res.LastInsertId(); err == nil && id > 0 {
		article.ID = id
	}
	return nil
}

func (s *SQLiteStore) SaveProcessed(ctx context.Context, processed model.ProcessedArticle) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO processed_articles (article_id, clean_text, summary, word_count)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(article_id) DO UPDATE SET
			clean_text=excluded.clean_text,
			summary=excluded.summary,
			word_count=excluded.word_count
	`, processed.ArticleID, processed.CleanText, processed.Summary, processed.WordCount)
	return err
}

func (s *SQLiteStore) ProcessedByArticle(ctx context.Context, articleID int64) (*model.ProcessedArticle, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT article_id, clean_text, summary, word_count
		FROM processed_articles WHERE article_id = ?
	`, articleID)

	var p model.ProcessedArticle
	err := row.Scan(&p.ArticleID, &p.CleanText, &p.Summary, &p.WordCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *SQLiteStore) SaveKeyword(ctx context.Context, kw *model.Keyword) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO keywords (text, cluster, monthly_search_volume, competition_score, relevance_score, total_score)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(text) DO UPDATE SET
			cluster=excluded.cluster,
			monthly_search_volume=excluded.monthly_search_volume,
			competition_score=excluded.competition_score,
			relevance_score=excluded.relevance_score,
			total_score=excluded.total_score
	`, kw.Text, kw.Cluster, kw.MonthlySearchVolume, kw.CompetitionScore, kw.RelevanceScore, kw.TotalScore)
	if err != nil {
		return err
	}

	if id, err := res.LastInsertId(); err == nil && id > 0 {
		kw.ID = id
	}
	return nil
}

func (s *SQLiteStore) KeywordByID(ctx context.Context, id int64) (*model.Keyword, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, text, cluster, monthly_search_volume, competition_score, relevance_score, total_score
		FROM keywords WHERE id = ?
	`, id)

	var kw model.Keyword
	err := row.Scan(&kw.ID, &kw.Text, &kw.Cluster, &kw.MonthlySearchVolume, &kw.CompetitionScore, &kw.RelevanceScore, &kw.TotalScore)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &kw, nil
}

func (s *SQLiteStore) SavePost(ctx context.Context, post *model.Post) error {
	if post.Status == "" {
		post.Status = model.StatusDraft
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (article_id, keyword_id, title, body, html_body, seo_score, keyword_density, word_count, generation_cost, status, publish_category, blog_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, post.ArticleID, post.KeywordID, post.Title, post.Body, post.HTMLBody,
		post.SEOScore, post.KeywordDensity, post.WordCount, post.GenerationCost,
		string(post.Status), post.PublishCategory, post.BlogID)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	post.ID = id
	return nil
}

const postColumns = "id, article_id, keyword_id, title, body, html_body, seo_score, keyword_density, word_count, generation_cost, status, publish_category, blog_id"

func scanPost(row *sql.Row) (*model.Post, error) {
	var p model.Post
	var status string
	err := row.Scan(&p.ID, &p.ArticleID, &p.KeywordID, &p.Title, &p.Body, &p.HTMLBody,
		&p.SEOScore, &p.KeywordDensity, &p.WordCount, &p.GenerationCost,
		&status, &p.PublishCategory, &p.BlogID)
	if err != nil {
		return nil, err
	}
	p.Status = model.PostStatus(status)
	return &p, nil
}

func (s *SQLiteStore) GetPost(ctx context.Context, id int64) (*model.Post, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+postColumns+" FROM posts WHERE id = ?", id)
	return scanPost(row)
}

func (s *SQLiteStore) UpdatePostContent(ctx context.Context, id int64, body, htmlBody string, seoScore, keywordDensity float64, wordCount int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE posts SET
			body = ?,
			html_body = ?,
			seo_score = ?,
			keyword_density = ?,
			word_count = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, body, htmlBody, seoScore, keywordDensity, wordCount, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("post %d not found", id)
	}
	return nil
}

func (s *SQLiteStore) UpdatePostStatus(ctx context.Context, id int64, status model.PostStatus) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE posts SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, string(status), id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("post %d not found", id)
	}
	return nil
}

func (s *SQLiteStore) RecentPosts(ctx context.Context, limit int, excludeID int64) ([]model.RecentPost, error) {
	builder := sq.Select("id", "title", "body", "status").
		From("posts").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit))
	if excludeID > 0 {
		builder = builder.Where(sq.NotEq{"id": excludeID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent posts: %w", err)
	}
	defer rows.Close()

	var posts []model.RecentPost
	for rows.Next() {
		var p model.RecentPost
		var status string
		if err := rows.Scan(&p.ID, &p.Title, &p.Body, &status); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		p.Status = model.PostStatus(status)
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *SQLiteStore) NextApprovedPost(ctx context.Context, category string) (*model.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE status = ? AND publish_category = ?
		ORDER BY id ASC LIMIT 1
	`, string(model.StatusApproved), category)

	post, err := scanPost(row)
	if err == nil {
		return post, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// Fall back to any approved post when the category is empty.
	row = s.db.QueryRowContext(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE status = ?
		ORDER BY id ASC LIMIT 1
	`, string(model.StatusApproved))

	post, err = scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *SQLiteStore) PostCountsByCategory(ctx context.Context, blogID string) (map[string]int, error) {
	builder := sq.Select("publish_category", "COUNT(*)").
		From("posts").
		Where(sq.Eq{"status": []string{string(model.StatusPublished), string(model.StatusApproved)}}).
		GroupBy("publish_category")
	if blogID != "" {
		builder = builder.Where(sq.Eq{"blog_id": blogID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query category counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, err
		}
		counts[category] = n
	}
	return counts, rows.Err()
}

func (s *SQLiteStore) TotalPublished(ctx context.Context, blogID string) (int, error) {
	builder := sq.Select("COUNT(*)").
		From("posts").
		Where(sq.Eq{"status": []string{string(model.StatusPublished), string(model.StatusApproved)}})
	if blogID != "" {
		builder = builder.Where(sq.Eq{"blog_id": blogID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// --- PublishLog Implementation ---

func (s *SQLiteStore) AppendPublishRecord(ctx context.Context, rec model.PublishRecord) error {
	if rec.PublishedAt.IsZero() {
		rec.PublishedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO publish_history (post_id, blog_id, blog_url, status, error_message, published_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.PostID, rec.BlogID, rec.BlogURL, string(rec.Status), rec.ErrorMessage, rec.PublishedAt)
	return err
}

func (s *SQLiteStore) LastSuccessfulPublish(ctx context.Context, blogID string) (time.Time, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT published_at FROM publish_history
		WHERE blog_id = ? AND status = ?
		ORDER BY published_at DESC LIMIT 1
	`, blogID, string(model.PublishSuccess))

	var at time.Time
	err := row.Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return at, true, nil
}

func (s *SQLiteStore) SuccessCountSince(ctx context.Context, blogID string, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM publish_history
		WHERE blog_id = ? AND status = ? AND published_at >= ?
	`, blogID, string(model.PublishSuccess), since).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// --- LegalStore Implementation ---

func (s *SQLiteStore) ReplaceReferences(ctx context.Context, postID int64, refs []model.LegalReference) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM legal_references WHERE post_id = ?", postID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO legal_references (post_id, law_name, normalized_law_name, article_number, citation_text, verification_status)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ref := range refs {
		if _, err := stmt.Exec(postID, ref.LawName, ref.NormalizedLawName, ref.ArticleNumber, ref.CitationText, string(ref.Status)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) ReferencesByPost(ctx context.Context, postID int64) ([]model.LegalReference, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT post_id, law_name, normalized_law_name, article_number, citation_text, verification_status
		FROM legal_references WHERE post_id = ? ORDER BY id ASC
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []model.LegalReference
	for rows.Next() {
		var ref model.LegalReference
		var status string
		if err := rows.Scan(&ref.PostID, &ref.LawName, &ref.NormalizedLawName, &ref.ArticleNumber, &ref.CitationText, &status); err != nil {
			return nil, err
		}
		ref.Status = model.VerificationStatus(status)
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
