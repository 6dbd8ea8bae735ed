// Package quality evaluates generated posts: plagiarism against the source
// article, duplication against the existing corpus, and a composite score
// from rule-based readability, grammar, structure and length heuristics.
package quality

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"blogforge/internal/config"
	"blogforge/internal/model"
)

const bodyComparePrefix = 1000 // runes of body compared during duplicate checks

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?]+`)
	passivePatterns = []*regexp.Regexp{
		regexp.MustCompile(`되었다`),
		regexp.MustCompile(`되고 있다`),
		regexp.MustCompile(`되어야 한다`),
		regexp.MustCompile(`는 것이다`),
	}
	difficultWords = []string{"방안", "현황", "대응", "마련", "추진"}

	finalEndingRe = regexp.MustCompile(`다[.!?]$`)
	doubleSpaceRe = regexp.MustCompile(`  +`)
	strayJamoRe   = regexp.MustCompile(`[ㄱ-ㅎ]`)
	specialsRe    = regexp.MustCompile(`[^\w\s.!?,;가-힣]`)
	listItemRe    = regexp.MustCompile(`[-•*]\s+|\d+\.\s+`)
	headingRe     = regexp.MustCompile(`(?mi)^##\s+|<h2[^>]*>`)
)

// Checker runs all quality evaluations with configured thresholds.
type Checker struct {
	cfg config.QualityConfig
}

func New(cfg config.QualityConfig) *Checker {
	if cfg.PlagiarismThreshold == 0 {
		cfg = config.Default().Quality
	}
	return &Checker{cfg: cfg}
}

// PlagiarismThreshold exposes the configured pass/fail bar; classification is
// the caller's job, CheckPlagiarism only reports the raw ratio.
func (c *Checker) PlagiarismThreshold() float64 { return c.cfg.PlagiarismThreshold }

// CheckPlagiarism returns the similarity ratio between the generated body and
// the original article, 0.0 for empty inputs.
func (c *Checker) CheckPlagiarism(generated, original string) float64 {
	if generated == "" || original == "" {
		return 0
	}
	return Similarity(Normalize(generated), Normalize(original))
}

// DuplicateResult reports whether a new post collides with the corpus.
type DuplicateResult struct {
	IsDuplicate      bool
	Reason           string
	MostSimilarTitle string
	TitleSimilarity  float64
	BodySimilarity   float64
}

// CheckDuplicate compares title and body against recent corpus posts of any
// status, skipping excludePostID. An empty corpus means no duplicate.
// A title collision takes precedence over a body collision in the reason.
func (c *Checker) CheckDuplicate(title, body string, corpus []model.RecentPost, excludePostID int64) DuplicateResult {
	if len(corpus) == 0 {
		return DuplicateResult{Reason: "no existing posts"}
	}

	newTitle := Normalize(title)
	newBody := Normalize(runePrefix(body, bodyComparePrefix))

	result := DuplicateResult{Reason: "pass"}
	for _, post := range corpus {
		if post.ID == excludePostID {
			continue
		}
		titleSim := Similarity(newTitle, Normalize(post.Title))
		bodySim := Similarity(newBody, Normalize(runePrefix(post.Body, bodyComparePrefix)))

		if titleSim > result.TitleSimilarity {
			result.TitleSimilarity = titleSim
			result.MostSimilarTitle = post.Title
		}
		if bodySim > result.BodySimilarity {
			result.BodySimilarity = bodySim
		}
	}

	if result.TitleSimilarity >= c.cfg.DuplicateTitleSim {
		result.IsDuplicate = true
		result.Reason = fmt.Sprintf("title similarity %.0f%% (threshold %.0f%%)",
			result.TitleSimilarity*100, c.cfg.DuplicateTitleSim*100)
	} else if result.BodySimilarity >= c.cfg.DuplicateBodySim {
		result.IsDuplicate = true
		result.Reason = fmt.Sprintf("body similarity %.0f%% (threshold %.0f%%)",
			result.BodySimilarity*100, c.cfg.DuplicateBodySim*100)
	}
	return result
}

// Input is the material CheckQuality evaluates. OriginalContent may be empty
// when no source article is available.
type Input struct {
	Title           string
	Body            string
	OriginalContent string
}

// Report is the composite quality evaluation.
type Report struct {
	Overall         string // excellent, good, fair, poor
	Score           float64
	Readability     float64
	Grammar         float64
	Structure       float64
	Length          float64
	Plagiarism      float64
	PlagiarismPass  bool
	Issues          []string
	Recommendations []string
}

// CheckQuality computes the weighted composite: readability 25%, grammar 25%,
// structure 20%, length 15%, plagiarism headroom 15%.
func (c *Checker) CheckQuality(in Input) Report {
	r := Report{
		Readability:    c.checkReadability(in.Body),
		Grammar:        c.checkGrammar(in.Title, in.Body),
		Structure:      c.checkStructure(in.Body),
		Length:         c.checkLength(in.Body),
		PlagiarismPass: true,
	}
	if in.OriginalContent != "" {
		r.Plagiarism = c.CheckPlagiarism(in.Body, in.OriginalContent)
		r.PlagiarismPass = r.Plagiarism < c.cfg.PlagiarismThreshold
	}

	r.Score = r.Readability*0.25 +
		r.Grammar*0.25 +
		r.Structure*0.20 +
		r.Length*0.15 +
		(100-r.Plagiarism*100)*0.15

	switch {
	case r.Score >= 85:
		r.Overall = "excellent"
	case r.Score >= 70:
		r.Overall = "good"
	case r.Score >= 50:
		r.Overall = "fair"
	default:
		r.Overall = "poor"
	}

	r.Issues = c.identifyIssues(in.Title, r)
	r.Recommendations = c.recommend(r)
	return r
}

func (c *Checker) checkReadability(body string) float64 {
	if body == "" {
		return 0
	}
	var sentences []string
	for _, s := range sentenceSplitRe.Split(body, -1) {
		if t := strings.TrimSpace(s); t != "" {
			sentences = append(sentences, t)
		}
	}
	if len(sentences) == 0 {
		return 0
	}

	score := 100.0

	totalWords := 0
	for _, s := range sentences {
		totalWords += len(strings.Fields(s))
	}
	avgLen := float64(totalWords) / float64(len(sentences))
	if avgLen > 50 {
		score -= 10
	} else if avgLen < 10 {
		score -= 5
	}

	passive := 0
	for _, re := range passivePatterns {
		passive += len(re.FindAllString(body, -1))
	}
	if float64(passive)/float64(len(sentences))*100 > 30 {
		score -= 10
	}

	difficult := 0
	for _, w := range difficultWords {
		difficult += strings.Count(body, w)
	}
	if difficult > len(sentences)*2 {
		score -= 5
	}

	words := strings.Fields(body)
	if len(words) > 0 {
		freq := make(map[string]int)
		for _, w := range words {
			if utf8.RuneCountInString(w) > 2 {
				freq[w]++
			}
		}
		overused := 0
		for _, n := range freq {
			if float64(n) > float64(len(words))*0.05 {
				overused++
			}
		}
		if overused > 5 {
			score -= 5
		}
	}

	if score < 0 {
		score = 0
	}
	return score
}

func (c *Checker) checkGrammar(title, body string) float64 {
	score := 100.0
	full := title + " " + body

	if !finalEndingRe.MatchString(full) {
		score -= 5
	}

	for _, re := range []*regexp.Regexp{doubleSpaceRe, strayJamoRe, specialsRe} {
		if len(re.FindAllString(full, -1)) > 10 {
			score -= 5
		}
	}

	if strings.Count(full, "'")%2 != 0 || strings.Count(full, `"`)%2 != 0 {
		score -= 3
	}

	if score < 0 {
		score = 0
	}
	return score
}

// checkLength scores distance from the optimal 2000-3000 rune band.
func (c *Checker) checkLength(body string) float64 {
	length := utf8.RuneCountInString(body)
	switch {
	case length >= 2000 && length <= 3000:
		return 100
	case length >= 1500 && length < 2000:
		return 80
	case length > 3000 && length <= 4000:
		return 80
	case length < 1500:
		return 50
	}
	return 60
}

func (c *Checker) checkStructure(body string) float64 {
	score := 50.0

	switch h2 := len(headingRe.FindAllString(body, -1)); {
	case h2 >= 3:
		score += 20
	case h2 >= 2:
		score += 10
	case h2 >= 1:
		score += 5
	}

	switch lists := len(listItemRe.FindAllString(body, -1)); {
	case lists >= 5:
		score += 15
	case lists >= 3:
		score += 10
	}

	paragraphs := strings.Split(body, "\n\n")
	if len(paragraphs) > 0 {
		avg := float64(utf8.RuneCountInString(body)) / float64(len(paragraphs))
		if avg > 100 && avg < 500 {
			score += 15
		}
	}

	if score > 100 {
		score = 100
	}
	return score
}

func (c *Checker) identifyIssues(title string, r Report) []string {
	var issues []string
	if !r.PlagiarismPass {
		issues = append(issues, fmt.Sprintf("plagiarism suspected: %.1f%% similarity to source", r.Plagiarism*100))
	}
	if r.Readability < 70 {
		issues = append(issues, fmt.Sprintf("low readability: %.1f", r.Readability))
	}
	if r.Grammar < 80 {
		issues = append(issues, fmt.Sprintf("grammar problems: %.1f", r.Grammar))
	}
	if r.Length < 70 {
		issues = append(issues, fmt.Sprintf("content too short: %.1f", r.Length))
	}
	if r.Structure < 70 {
		issues = append(issues, fmt.Sprintf("weak structure: %.1f", r.Structure))
	}
	if utf8.RuneCountInString(title) < 10 {
		issues = append(issues, "title too short")
	}
	if utf8.RuneCountInString(title) > 100 {
		issues = append(issues, "title too long")
	}
	return issues
}

func (c *Checker) recommend(r Report) []string {
	var recs []string
	if !r.PlagiarismPass {
		recs = append(recs, "rewrite to reduce similarity with the source article")
	}
	if r.Readability < 70 {
		recs = append(recs, "shorten sentences to improve readability")
	}
	if r.Grammar < 80 {
		recs = append(recs, "fix grammar issues and smooth phrasing")
	}
	switch r.Overall {
	case "poor":
		recs = append(recs, "overall quality is poor; consider regenerating from scratch")
	case "fair":
		recs = append(recs, "reinforce structure and content to raise quality")
	}
	return recs
}

func runePrefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
