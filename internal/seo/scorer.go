// Package seo scores a post against the four search ranking signals the
// target blog platform is known to weigh: authority citations, keyword
// density, structural richness, and keyword placement in the lead.
package seo

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"blogforge/internal/config"
	"blogforge/internal/textmetrics"
)

const subscorePassBar = 20

var authorityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`법령|규칙|규정|기준`),
	regexp.MustCompile(`대통령령|부령|고시|예규`),
	regexp.MustCompile(`출처:|참고:`),
	regexp.MustCompile(`https?://[^\s]+`),
}

// Score is the full SEO evaluation of one post.
type Score struct {
	Total           float64
	Authority       float64 // citation and source-link signals, max 25
	DensityFit      float64 // keyword density in the optimal band, max 25
	Structure       float64 // headings, tables, FAQ, max 25
	LeadPlacement   float64 // keyword in title and lead, max 25
	KeywordDensity  float64
	DensityLevel    string // low, optimal, high
	Recommendations []string
}

// Scorer computes Scores against configured density bounds.
type Scorer struct {
	cfg config.SEOConfig
}

func New(cfg config.SEOConfig) *Scorer {
	if cfg.OptimalDensityMin == 0 && cfg.OptimalDensityMax == 0 {
		cfg = config.Default().SEO
	}
	return &Scorer{cfg: cfg}
}

// Calculate scores title and body for keyword. It never fails: empty inputs
// produce zero sub-scores.
func (s *Scorer) Calculate(title, body, keyword string) Score {
	density := KeywordDensity(body, keyword)

	sc := Score{
		Authority:      s.scoreAuthority(body),
		Structure:      s.scoreStructure(body),
		LeadPlacement:  s.scoreLead(title, body, keyword),
		KeywordDensity: density,
	}
	sc.DensityFit = s.scoreDensity(density)
	sc.DensityLevel = s.densityLevel(density)

	sc.Total = sc.Authority + sc.DensityFit + sc.Structure + sc.LeadPlacement
	if sc.Total > 100 {
		sc.Total = 100
	}
	sc.Recommendations = s.recommend(sc)
	return sc
}

// KeywordDensity weighs keyword occurrences by keyword length, as a
// percentage of total body length. All lengths are runes.
func KeywordDensity(body, keyword string) float64 {
	if body == "" || keyword == "" {
		return 0
	}
	occurrences := strings.Count(strings.ToLower(body), strings.ToLower(keyword))
	if occurrences == 0 {
		return 0
	}
	total := utf8.RuneCountInString(body)
	if total == 0 {
		return 0
	}
	return float64(occurrences*utf8.RuneCountInString(keyword)) / float64(total) * 100
}

func (s *Scorer) scoreAuthority(body string) float64 {
	matches := 0
	for _, re := range authorityPatterns {
		matches += len(re.FindAllString(body, -1))
	}
	switch {
	case matches >= 5:
		return 25
	case matches >= 3:
		return 20
	case matches >= 1:
		return 10
	}
	return 0
}

// scoreDensity maps density onto the stepwise table centered on the optimal
// band: dead-on is 25, each half-point step outward degrades toward 5.
func (s *Scorer) scoreDensity(density float64) float64 {
	lo, hi := s.cfg.OptimalDensityMin, s.cfg.OptimalDensityMax
	switch {
	case density >= lo && density <= hi:
		return 25
	case density >= lo-0.5 && density < lo:
		return 20
	case density > hi && density <= hi+0.5:
		return 20
	case density >= lo-1.0 && density < lo-0.5:
		return 15
	case density > hi+0.5 && density <= hi+1.0:
		return 15
	}
	return 5
}

func (s *Scorer) scoreStructure(body string) float64 {
	score := 0.0
	switch h2 := textmetrics.HeadingCount(body); {
	case h2 >= 3:
		score += 15
	case h2 >= 2:
		score += 10
	case h2 >= 1:
		score += 5
	}
	if textmetrics.TableRowCount(body) > 0 {
		score += 5
	}
	if textmetrics.FAQCount(body) >= 3 {
		score += 5
	}
	if score > 25 {
		score = 25
	}
	return score
}

func (s *Scorer) scoreLead(title, body, keyword string) float64 {
	if keyword == "" {
		return 0
	}
	kw := strings.ToLower(keyword)
	score := 0.0

	if strings.Contains(strings.ToLower(title), kw) {
		score += 10
	}

	runes := []rune(body)
	lead := runes
	if len(lead) > 100 {
		lead = lead[:100]
	}
	if strings.Contains(strings.ToLower(string(lead)), kw) {
		score += 15
	}

	first := textmetrics.FirstSentence(body)
	if utf8.RuneCountInString(first) > 30 && strings.Contains(strings.ToLower(first), kw) {
		score += 5
	}

	if score > 25 {
		score = 25
	}
	return score
}

func (s *Scorer) densityLevel(density float64) string {
	switch {
	case density < s.cfg.OptimalDensityMin:
		return "low"
	case density <= s.cfg.OptimalDensityMax:
		return "optimal"
	}
	return "high"
}

// recommend emits advisory notes for sub-scores under the pass bar. The notes
// never feed back into scoring.
func (s *Scorer) recommend(sc Score) []string {
	var recs []string
	if sc.Authority < subscorePassBar {
		recs = append(recs, "법령 인용이나 출처 링크를 추가하여 신뢰성을 높이세요.")
	}
	if sc.DensityFit < subscorePassBar {
		if sc.DensityLevel == "low" {
			recs = append(recs, "키워드 밀도를 최적 범위로 높이세요.")
		} else {
			recs = append(recs, "과도한 키워드 반복을 줄여 자연스러운 문장으로 수정하세요.")
		}
	}
	if sc.Structure < subscorePassBar {
		recs = append(recs, "H2 제목 3개 이상, 표, FAQ 형식 등으로 콘텐츠를 구조화하세요.")
	}
	if sc.LeadPlacement < subscorePassBar {
		recs = append(recs, "제목과 첫 문장에 주요 키워드를 포함시키세요.")
	}
	if len(recs) == 0 {
		recs = append(recs, "SEO 최적화가 잘 진행되고 있습니다.")
	}
	return recs
}
