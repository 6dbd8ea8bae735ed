package seo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogforge/internal/config"
)

func defaultScorer() *Scorer {
	return New(config.Default().SEO)
}

func TestKeywordDensity(t *testing.T) {
	// keyword of 2 runes appearing 3 times in a 100-rune body: 3*2/100*100 = 6%
	body := strings.Repeat("가", 94) + "키워키워키워"
	assert.InDelta(t, 6.0, KeywordDensity(body, "키워"), 1e-9)
}

func TestKeywordDensity_CaseInsensitive(t *testing.T) {
	body := "SEO 점검과 seo 개선" // 14 runes, 2 occurrences of a 3-rune keyword
	assert.InDelta(t, 2.0*3.0/14.0*100, KeywordDensity(body, "SEO"), 1e-9)
}

func TestKeywordDensity_EmptyInputs(t *testing.T) {
	assert.Zero(t, KeywordDensity("", "키워드"))
	assert.Zero(t, KeywordDensity("본문", ""))
	assert.Zero(t, KeywordDensity("본문", "없는말"))
}

func TestScoreDensity_Steps(t *testing.T) {
	s := defaultScorer() // optimal band 1.5 .. 2.5

	cases := []struct {
		density float64
		want    float64
	}{
		{2.0, 25},
		{1.5, 25},
		{2.5, 25},
		{1.2, 20},
		{2.8, 20},
		{0.7, 15},
		{3.3, 15},
		{0.1, 5},
		{5.0, 5},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, s.scoreDensity(tc.density), "density %.2f", tc.density)
	}
}

func TestScoreAuthority_Tiers(t *testing.T) {
	s := defaultScorer()

	assert.Equal(t, 0.0, s.scoreAuthority("인용이 전혀 없는 본문"))
	assert.Equal(t, 10.0, s.scoreAuthority("관련 규정을 확인하세요"))
	assert.Equal(t, 20.0, s.scoreAuthority("법령과 규칙, 그리고 기준을 따릅니다"))
	assert.Equal(t, 25.0, s.scoreAuthority("법령 규칙 규정 기준 그리고 https://law.go.kr 링크"))
}

func TestScoreStructure(t *testing.T) {
	s := defaultScorer()

	rich := "## 하나\n## 둘\n## 셋\n| a | b |\n|---|---|\n**Q1. q**\n**Q2. q**\n**Q3. q**"
	assert.Equal(t, 25.0, s.scoreStructure(rich))

	twoHeadings := "## 하나\n본문\n## 둘\n본문"
	assert.Equal(t, 10.0, s.scoreStructure(twoHeadings))

	assert.Equal(t, 0.0, s.scoreStructure("구조가 전혀 없는 본문"))
}

func TestScoreLead(t *testing.T) {
	s := defaultScorer()

	// Keyword in title and within the first 100 runes, and the first
	// sentence is long enough to count.
	title := "수의계약 한도액 총정리"
	body := "수의계약 한도액 기준은 지방계약법 시행령에서 정하고 있어 반드시 확인해야 합니다. 이후 본문이 이어집니다."
	assert.Equal(t, 25.0, s.scoreLead(title, body, "수의계약 한도액"))

	// Keyword only later in the body scores nothing.
	late := strings.Repeat("가", 150) + " 수의계약 한도액"
	assert.Equal(t, 0.0, s.scoreLead("무관한 제목", late, "수의계약 한도액"))

	assert.Equal(t, 0.0, s.scoreLead(title, body, ""))
}

func TestCalculate_TotalAndRecommendations(t *testing.T) {
	s := defaultScorer()

	sc := s.Calculate("짧은 제목", "인용도 구조도 키워드도 없는 짧은 본문입니다.", "수의계약")
	assert.Equal(t, sc.Total, sc.Authority+sc.DensityFit+sc.Structure+sc.LeadPlacement)
	assert.Equal(t, "low", sc.DensityLevel)
	require.NotEmpty(t, sc.Recommendations)
	// every sub-score is under the pass bar, so all four notes appear
	assert.Len(t, sc.Recommendations, 4)
}

func TestCalculate_EmptyInputs(t *testing.T) {
	sc := defaultScorer().Calculate("", "", "")
	assert.InDelta(t, 5.0, sc.Total, 1e-9) // only the out-of-band density floor remains
	assert.Zero(t, sc.KeywordDensity)
}

func TestDensityLevel(t *testing.T) {
	s := defaultScorer()
	assert.Equal(t, "low", s.densityLevel(1.0))
	assert.Equal(t, "optimal", s.densityLevel(2.0))
	assert.Equal(t, "high", s.densityLevel(3.0))
}
