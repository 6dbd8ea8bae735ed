package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"blogforge/internal/collector"
	"blogforge/internal/config"
	"blogforge/internal/detector"
	"blogforge/internal/humanizer"
	"blogforge/internal/keyword"
	"blogforge/internal/model"
	"blogforge/internal/notifier"
	"blogforge/internal/pipeline"
	"blogforge/internal/publisher"
	"blogforge/internal/quality"
	"blogforge/internal/scheduler"
	"blogforge/internal/seo"
	"blogforge/internal/storage"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "blogforge",
		Short: "Blog content review and publishing pipeline",
	}
	configPath   string
	dbPath       string
	forceRewrite bool

	articleURL      string
	articleTitle    string
	articleCategory string

	kwVolume      int
	kwCompetition float64
	kwRelated     int
	kwCluster     string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML configuration")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the SQLite database (overrides config)")

	reviewCmd.Flags().BoolVar(&forceRewrite, "rewrite", false, "Force an AI rewrite even when the score passes")

	ingestCmd.Flags().StringVar(&articleURL, "url", "", "Source URL of the article")
	ingestCmd.Flags().StringVar(&articleTitle, "title", "", "Article title")
	ingestCmd.Flags().StringVar(&articleCategory, "category", "", "Content category")
	_ = ingestCmd.MarkFlagRequired("url")

	keywordCmd.Flags().IntVar(&kwVolume, "volume", 0, "Monthly search volume")
	keywordCmd.Flags().Float64Var(&kwCompetition, "competition", 0, "Competition score in [0,1]")
	keywordCmd.Flags().IntVar(&kwRelated, "related", 0, "Number of related keywords found")
	keywordCmd.Flags().StringVar(&kwCluster, "cluster", "", "Topic cluster label")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(keywordCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(seoCmd)
	rootCmd.AddCommand(qualityCmd)
	rootCmd.AddCommand(publishCheckCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(serveCmd)
}

func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if dbPath != "" {
		cfg.DB.Path = dbPath
	}
	return cfg
}

func initStore(cfg *config.Config) *storage.SQLiteStore {
	store, err := storage.NewSQLiteStore(cfg.DB.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	return store
}

// initRewriter builds the configured AI backend. A missing API key is not
// fatal: review still runs with quick fixes only.
func initRewriter(ctx context.Context, cfg *config.Config) humanizer.Rewriter {
	if cfg.AI.APIKey == "" {
		fmt.Println("⚠️  No AI API key configured, rewrites disabled.")
		return nil
	}

	switch cfg.AI.Provider {
	case "openai":
		return humanizer.NewOpenAIRewriter(cfg.AI.APIKey, cfg.AI.Model)
	case "gemini":
		rw, err := humanizer.NewGeminiRewriter(ctx, cfg.AI.APIKey, cfg.AI.Model)
		if err != nil {
			log.Printf("Gemini init failed, rewrites disabled: %v", err)
			return nil
		}
		return rw
	default:
		log.Printf("Unknown AI provider %q, rewrites disabled.", cfg.AI.Provider)
		return nil
	}
}

func initEngine(ctx context.Context, cfg *config.Config, store *storage.SQLiteStore) *pipeline.Engine {
	h := humanizer.New(detector.New(cfg.Detector.RewriteThreshold), initRewriter(ctx, cfg), cfg.Humanizer)
	engine := pipeline.NewEngine(store, h, cfg)

	if cfg.Publisher.Endpoint != "" {
		engine.WithPoster(publisher.NewHTTPPoster(cfg.Publisher.Endpoint, cfg.Publisher.Token))
	}
	if sink, err := notifier.New(cfg.Telegram); err == nil {
		engine.WithSink(sink)
	}
	return engine
}

func parsePostID(args []string) int64 {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		log.Fatalf("Invalid post id: %s", args[0])
	}
	return id
}

var ingestCmd = &cobra.Command{
	Use:   "ingest [html-file]",
	Short: "Store a crawled article and its cleaned text",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := loadConfig()
		store := initStore(cfg)
		defer store.Close()

		rawHTML, err := os.ReadFile(args[0])
		if err != nil {
			log.Fatalf("Failed to read %s: %v", args[0], err)
		}

		article := model.Article{
			URL:      articleURL,
			Title:    articleTitle,
			RawHTML:  string(rawHTML),
			Category: articleCategory,
		}
		if err := store.SaveArticle(ctx, &article); err != nil {
			log.Fatalf("Failed to save article: %v", err)
		}

		processed, err := collector.Clean(article)
		if err != nil {
			log.Fatalf("Failed to clean article: %v", err)
		}
		if err := store.SaveProcessed(ctx, processed); err != nil {
			log.Fatalf("Failed to save cleaned text: %v", err)
		}

		fmt.Printf("📥 Article %d ingested (%d words).\n", article.ID, processed.WordCount)
		fmt.Printf("📝 %s\n", processed.Summary)
	},
}

var keywordCmd = &cobra.Command{
	Use:   "keyword [text]",
	Short: "Score a researched keyword and store it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := loadConfig()
		store := initStore(cfg)
		defer store.Close()

		relevance := keyword.RelevanceFromRelated(kwRelated)
		kw := model.Keyword{
			Text:                args[0],
			Cluster:             kwCluster,
			MonthlySearchVolume: kwVolume,
			CompetitionScore:    kwCompetition,
			RelevanceScore:      relevance,
			TotalScore:          keyword.TotalScore(cfg.Keyword, kwVolume, kwCompetition, relevance),
		}
		if err := store.SaveKeyword(ctx, &kw); err != nil {
			log.Fatalf("Failed to save keyword: %v", err)
		}

		fmt.Printf("🔑 Keyword %d %q scored %.2f/100\n", kw.ID, kw.Text, kw.TotalScore)
		fmt.Printf("  volume %d, competition %.2f, relevance %.2f\n", kwVolume, kwCompetition, relevance)
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review [post-id]",
	Short: "Run AI-pattern detection, humanizing and quality gates over a post",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := loadConfig()
		store := initStore(cfg)
		defer store.Close()

		engine := initEngine(ctx, cfg, store)

		outcome, err := engine.ReviewPost(ctx, parsePostID(args), forceRewrite)
		if err != nil {
			log.Fatalf("Review failed: %v", err)
		}

		fmt.Printf("🔍 AI score: %d/100 (%d issues)\n", outcome.Detection.Score, len(outcome.Detection.Issues))
		for _, issue := range outcome.Detection.Issues {
			fmt.Printf("  - [%s] %s (severity %d)\n", issue.Category, issue.Detail, issue.Severity)
		}
		if outcome.Rewritten {
			fmt.Println("✍️  Body was rewritten.")
		}
		fmt.Printf("📈 SEO: %.1f/100 (density %.2f%%, %s)\n", outcome.SEO.Total, outcome.SEO.KeywordDensity, outcome.SEO.DensityLevel)
		fmt.Printf("📋 Quality: %.1f/100 (%s)\n", outcome.Quality.Score, outcome.Quality.Overall)
		if outcome.Duplicate.IsDuplicate {
			fmt.Printf("♻️  Duplicate: %s (closest: %s)\n", outcome.Duplicate.Reason, outcome.Duplicate.MostSimilarTitle)
		}
		fmt.Printf("✅ Post %d -> %s\n", outcome.PostID, outcome.Status)
	},
}

var seoCmd = &cobra.Command{
	Use:   "seo [post-id]",
	Short: "Show the SEO score breakdown for a post",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := loadConfig()
		store := initStore(cfg)
		defer store.Close()

		post, err := store.GetPost(ctx, parsePostID(args))
		if err != nil {
			log.Fatalf("Failed to load post: %v", err)
		}

		keyword := ""
		if post.KeywordID > 0 {
			if kw, err := store.KeywordByID(ctx, post.KeywordID); err == nil && kw != nil {
				keyword = kw.Text
			}
		}

		score := seo.New(cfg.SEO).Calculate(post.Title, post.Body, keyword)
		fmt.Printf("📈 SEO total: %.1f/100\n", score.Total)
		fmt.Printf("  Authority:      %.1f/25\n", score.Authority)
		fmt.Printf("  Density fit:    %.1f/25 (%.2f%%, %s)\n", score.DensityFit, score.KeywordDensity, score.DensityLevel)
		fmt.Printf("  Structure:      %.1f/25\n", score.Structure)
		fmt.Printf("  Lead placement: %.1f/25\n", score.LeadPlacement)
		for _, rec := range score.Recommendations {
			fmt.Printf("  💡 %s\n", rec)
		}
	},
}

var qualityCmd = &cobra.Command{
	Use:   "quality [post-id]",
	Short: "Show the composite quality report for a post",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := loadConfig()
		store := initStore(cfg)
		defer store.Close()

		post, err := store.GetPost(ctx, parsePostID(args))
		if err != nil {
			log.Fatalf("Failed to load post: %v", err)
		}

		original := ""
		if post.ArticleID > 0 {
			if processed, err := store.ProcessedByArticle(ctx, post.ArticleID); err == nil && processed != nil {
				original = processed.CleanText
			}
		}

		report := quality.New(cfg.Quality).CheckQuality(quality.Input{
			Title:           post.Title,
			Body:            post.Body,
			OriginalContent: original,
		})

		fmt.Printf("📋 Quality: %.1f/100 (%s)\n", report.Score, report.Overall)
		fmt.Printf("  Readability: %.1f\n", report.Readability)
		fmt.Printf("  Grammar:     %.1f\n", report.Grammar)
		fmt.Printf("  Structure:   %.1f\n", report.Structure)
		fmt.Printf("  Length:      %.1f\n", report.Length)
		if original != "" {
			fmt.Printf("  Plagiarism:  %.1f%% (pass: %v)\n", report.Plagiarism*100, report.PlagiarismPass)
		}
		for _, issue := range report.Issues {
			fmt.Printf("  ⚠️  %s\n", issue)
		}
		for _, rec := range report.Recommendations {
			fmt.Printf("  💡 %s\n", rec)
		}
	},
}

var publishCheckCmd = &cobra.Command{
	Use:   "publish-check",
	Short: "Show the anti-abuse gate decision and the next publish slot",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := loadConfig()
		store := initStore(cfg)
		defer store.Close()

		gate := publisher.NewGate(store, cfg.Publisher)
		ok, reason := gate.CanPublish(ctx, cfg.Publisher.BlogID)
		if ok {
			fmt.Println("✅ Publishing allowed.")
		} else {
			fmt.Printf("⏸  Publishing blocked: %s\n", reason)
		}
		fmt.Printf("🕘 Next publish slot: %s\n", gate.NextPublishTime(ctx, cfg.Publisher.BlogID).Format("2006-01-02 15:04"))

		counts, err := store.PostCountsByCategory(ctx, cfg.Publisher.BlogID)
		if err != nil {
			log.Fatalf("Failed to load category counts: %v", err)
		}
		total, err := store.TotalPublished(ctx, cfg.Publisher.BlogID)
		if err != nil {
			log.Fatalf("Failed to load published total: %v", err)
		}
		category, err := publisher.SelectCategory(cfg.Publisher.CategoryOrder, cfg.Publisher.RotationQuota, counts, total)
		if err != nil {
			log.Fatalf("Rotation selection failed: %v", err)
		}
		fmt.Printf("📂 Next category: %s (%s)\n", category, formatCounts(cfg.Publisher.CategoryOrder, counts))
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the next approved post if the gate allows it",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := loadConfig()
		store := initStore(cfg)
		defer store.Close()

		engine := initEngine(ctx, cfg, store)

		outcome, err := engine.PublishNext(ctx)
		if err != nil {
			log.Fatalf("Publish failed: %v", err)
		}
		switch {
		case outcome.Published:
			fmt.Printf("🎉 Published post %d (%s) to %s\n", outcome.PostID, outcome.Title, outcome.URL)
		case outcome.Skipped:
			fmt.Printf("⏸  Skipped: %s\n", outcome.Reason)
		default:
			fmt.Printf("❌ Publish of post %d failed: %s\n", outcome.PostID, outcome.Reason)
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run scheduled publish attempts until interrupted",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := loadConfig()
		store := initStore(cfg)
		defer store.Close()

		engine := initEngine(ctx, cfg, store)

		sched, err := scheduler.New(cfg.Publisher.CronSpec, cfg.Publisher.Timezone, func() {
			outcome, err := engine.PublishNext(context.Background())
			if err != nil {
				log.Printf("Scheduled publish failed: %v", err)
				return
			}
			if outcome.Published {
				log.Printf("Published post %d (%s)", outcome.PostID, outcome.Title)
			} else {
				log.Printf("Publish skipped: %s", outcome.Reason)
			}
		})
		if err != nil {
			log.Fatalf("Failed to create scheduler: %v", err)
		}

		sched.Start()
		fmt.Printf("⏰ Scheduler running (%s, %s). Ctrl-C to stop.\n", cfg.Publisher.CronSpec, cfg.Publisher.Timezone)

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop

		fmt.Println("👋 Shutting down...")
		sched.Stop()
	},
}

func formatCounts(order []string, counts map[string]int) string {
	parts := make([]string, 0, len(order))
	for _, category := range order {
		parts = append(parts, fmt.Sprintf("%s:%d", category, counts[category]))
	}
	return strings.Join(parts, " ")
}
