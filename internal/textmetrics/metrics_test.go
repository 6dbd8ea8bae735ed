package textmetrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEndingHistogram(t *testing.T) {
	body := "오늘 회의가 있었습니다. 자료를 준비하세요! 사실 어렵거든요. 그게 핵심이죠.\n다들 아시는 내용입니다."
	hist := EndingHistogram(body, DefaultEndingClasses())

	assert.Equal(t, 2, hist["nida"])
	assert.Equal(t, 1, hist["seyo"])
	assert.Equal(t, 1, hist["geodeunyo"])
	assert.Equal(t, 1, hist["jiyo"])
	assert.Equal(t, 0, hist["deoragoyo"])
}

func TestEndingHistogram_IgnoresMidSentenceMatches(t *testing.T) {
	// No terminal mark or space after the ending, so nothing counts.
	hist := EndingHistogram("합니다만 다른 얘기입니다", DefaultEndingClasses())
	assert.Equal(t, 0, hist["nida"])
}

func TestConnectorCounts(t *testing.T) {
	body := "또한 이 점이 중요합니다. 또한 예산도 문제입니다. 하지만 예외가 있습니다."
	counts := ConnectorCounts(body, []string{"또한", "하지만", "그러므로"})

	assert.Equal(t, 2, counts["또한"])
	assert.Equal(t, 1, counts["하지만"])
	_, present := counts["그러므로"]
	assert.False(t, present)
}

func TestEmphasisAndOrdinals(t *testing.T) {
	body := "**첫째**, 기한을 지키세요. **둘째**, 서류를 확인하세요. 일반 **강조**도 있습니다."
	assert.Equal(t, 3, EmphasisCount(body))
	assert.Equal(t, 2, OrdinalMarkerCount(body))
}

func TestFAQCount(t *testing.T) {
	body := "**Q1. 한도액은?**\n답변입니다.\n**Q2. 절차는?**\n답변입니다.\n**Q10. 예외는?**"
	assert.Equal(t, 3, FAQCount(body))
}

func TestTableRowCount(t *testing.T) {
	body := "| 구분 | 한도 |\n|---|---|\n| 물품 | 2천만원 |\n본문 | 중간 파이프는 행이 아닙니다"
	assert.Equal(t, 3, TableRowCount(body))
}

func TestHeadingCount_MarkdownAndHTML(t *testing.T) {
	body := "## 첫 섹션\n본문\n<h2 class=\"tit\">둘째 섹션</h2>\n### 하위 제목"
	assert.Equal(t, 2, HeadingCount(body))
}

func TestParagraphs_SkipsHeadingsAndTables(t *testing.T) {
	body := "## 제목\n\n첫 문단입니다.\n\n| a | b |\n|---|---|\n\n둘째 문단입니다.\n\n"
	paras := Paragraphs(body)
	assert.Equal(t, []string{"첫 문단입니다.", "둘째 문단입니다."}, paras)
}

func TestParagraphLengths_CountsRunes(t *testing.T) {
	lengths := ParagraphLengths([]string{"가나다", "abc음"})
	assert.Equal(t, []int{3, 4}, lengths)
}

func TestCoefficientOfVariation(t *testing.T) {
	assert.Zero(t, CoefficientOfVariation(nil))
	assert.Zero(t, CoefficientOfVariation([]int{0, 0}))
	assert.Zero(t, CoefficientOfVariation([]int{100, 100, 100}))
	assert.InDelta(t, 0.5, CoefficientOfVariation([]int{100, 300}), 1e-9)
}

func TestOpeningWordCounts(t *testing.T) {
	counts := OpeningWordCounts([]string{"먼저 준비하세요.", "먼저 확인하세요.", "다음으로 제출하세요."})
	assert.Equal(t, 2, counts["먼저"])
	assert.Equal(t, 1, counts["다음으로"])
}

func TestSectionBulletCounts(t *testing.T) {
	body := "서문입니다.\n- 서문 불릿은 세지 않습니다\n## 하나\n- a\n- b\n## 둘\n- c\n## 셋\n본문만 있습니다."
	assert.Equal(t, []int{2, 1, 0}, SectionBulletCounts(body))

	assert.Nil(t, SectionBulletCounts("섹션이 없는 본문입니다."))
}

func TestFirstSentence(t *testing.T) {
	assert.Equal(t, "첫 문장입니다.", FirstSentence("첫 문장입니다. 둘째 문장입니다."))
	assert.Empty(t, FirstSentence("종결 부호가 없는 본문"))
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", CollapseWhitespace("  a\t b\n\nc "))
}
