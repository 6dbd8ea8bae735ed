// Package collector turns crawled raw HTML into the clean text the rest of
// the pipeline works with.
package collector

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"blogforge/internal/model"
)

const summaryLength = 200 // runes

var blankLinesRe = regexp.MustCompile(`\n{3,}`)
var spacesRe = regexp.MustCompile(`[ \t]+`)

// Clean derives the ProcessedArticle for one crawled Article: main-content
// extraction, whitespace normalization, a leading summary and a word count.
func Clean(article model.Article) (model.ProcessedArticle, error) {
	text, err := extractText(article)
	if err != nil {
		return model.ProcessedArticle{}, fmt.Errorf("clean article %d: %w", article.ID, err)
	}

	text = normalize(text)
	return model.ProcessedArticle{
		ArticleID: article.ID,
		CleanText: text,
		Summary:   runePrefix(text, summaryLength),
		WordCount: len(strings.Fields(text)),
	}, nil
}

// extractText prefers readability's main-content extraction and falls back to
// stripping boilerplate nodes when readability finds nothing.
func extractText(article model.Article) (string, error) {
	pageURL, _ := url.Parse(article.URL)
	parsed, err := readability.FromReader(strings.NewReader(article.RawHTML), pageURL)
	if err == nil && strings.TrimSpace(parsed.TextContent) != "" {
		return parsed.TextContent, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.RawHTML))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, nav, header, footer, aside").Remove()
	return doc.Text(), nil
}

func normalize(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spacesRe.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func runePrefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
