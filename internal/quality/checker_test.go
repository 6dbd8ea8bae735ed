package quality

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogforge/internal/config"
	"blogforge/internal/model"
)

func defaultChecker() *Checker {
	return New(config.Default().Quality)
}

func TestCheckPlagiarism(t *testing.T) {
	c := defaultChecker()

	assert.Zero(t, c.CheckPlagiarism("", "원문"))
	assert.Zero(t, c.CheckPlagiarism("생성문", ""))
	assert.Equal(t, 1.0, c.CheckPlagiarism("동일한 문장입니다.", "동일한 문장입니다."))

	rewritten := c.CheckPlagiarism(
		"수의계약 한도액은 시행령에서 정한다. 담당자는 이를 확인해야 한다.",
		"계약 업무 처리 지침에 대한 전혀 다른 설명 문서.",
	)
	assert.Less(t, rewritten, 0.5)
}

func TestCheckDuplicate_TitleCollision(t *testing.T) {
	c := defaultChecker()
	corpus := []model.RecentPost{
		{ID: 1, Title: "2024 수의계약 한도액 정리", Body: "전혀 다른 본문입니다."},
	}

	result := c.CheckDuplicate("2024 수의계약 한도액 총정리", "새로 작성한 본문입니다.", corpus, 0)
	assert.True(t, result.IsDuplicate)
	assert.Contains(t, result.Reason, "title similarity")
	assert.Equal(t, "2024 수의계약 한도액 정리", result.MostSimilarTitle)
	assert.GreaterOrEqual(t, result.TitleSimilarity, 0.6)
}

func TestCheckDuplicate_BodyCollision(t *testing.T) {
	c := defaultChecker()
	body := strings.Repeat("수의계약 실무에서 자주 나오는 질문과 답변을 정리한 문단입니다. ", 10)
	corpus := []model.RecentPost{
		{ID: 1, Title: "출장비 정산 흐름", Body: body},
	}

	result := c.CheckDuplicate("계약 심사 절차", body, corpus, 0)
	assert.True(t, result.IsDuplicate)
	assert.Contains(t, result.Reason, "body similarity")
}

func TestCheckDuplicate_EmptyCorpus(t *testing.T) {
	result := defaultChecker().CheckDuplicate("제목", "본문", nil, 0)
	assert.False(t, result.IsDuplicate)
	assert.Equal(t, "no existing posts", result.Reason)
}

func TestCheckDuplicate_ExcludesSelf(t *testing.T) {
	c := defaultChecker()
	corpus := []model.RecentPost{
		{ID: 7, Title: "같은 제목입니다", Body: "같은 본문입니다"},
	}

	result := c.CheckDuplicate("같은 제목입니다", "같은 본문입니다", corpus, 7)
	assert.False(t, result.IsDuplicate)
}

func TestCheckDuplicate_DistinctContentPasses(t *testing.T) {
	c := defaultChecker()
	corpus := []model.RecentPost{
		{ID: 1, Title: "출장비 정산 절차 안내", Body: "출장비 정산은 복무 규정에 따라 처리합니다."},
	}

	result := c.CheckDuplicate("수의계약 한도액 기준", "수의계약 한도액 구간별 기준을 표로 정리했어요.", corpus, 0)
	assert.False(t, result.IsDuplicate)
	assert.Equal(t, "pass", result.Reason)
}

func buildGoodBody() string {
	var b strings.Builder
	b.WriteString("## 수의계약 한도액 기준\n\n")
	for i := 0; i < 3; i++ {
		b.WriteString("수의계약 한도액은 지방계약법 시행령에서 정하고 있습니다. 담당자가 바뀌면 기준을 다시 확인하는 것이 안전합니다. " +
			"실무에서는 추정가격과 예정가격을 혼동하는 경우가 많아서 주의가 필요합니다. " +
			"부가세 포함 여부도 계약 방식 판단에 영향을 줍니다. 견적서 생략 구간은 연도별로 달라질 수 있습니다.\n\n")
	}
	b.WriteString("## 자주 하는 실수\n\n- 첫 번째 유형\n- 두 번째 유형\n- 세 번째 유형\n\n")
	b.WriteString("## 정리\n\n")
	for i := 0; i < 4; i++ {
		b.WriteString("감사 지적을 피하려면 근거 조문을 문서에 남기는 습관이 중요합니다. " +
			"계약 심사 단계에서 줄일 수 있는 실수가 대부분이므로 체크리스트를 쓰는 편이 좋습니다. " +
			"분기마다 규정 개정 여부를 확인하면 뒤탈이 없습니다.\n\n")
	}
	return b.String()
}

func TestCheckQuality_GoodContent(t *testing.T) {
	report := defaultChecker().CheckQuality(Input{
		Title: "수의계약 한도액 기준 총정리",
		Body:  buildGoodBody(),
	})

	assert.GreaterOrEqual(t, report.Score, 70.0)
	assert.Contains(t, []string{"excellent", "good"}, report.Overall)
	assert.True(t, report.PlagiarismPass)
}

func TestCheckQuality_PlagiarizedContent(t *testing.T) {
	source := buildGoodBody()
	report := defaultChecker().CheckQuality(Input{
		Title:           "수의계약 한도액 기준 총정리",
		Body:            source,
		OriginalContent: source,
	})

	assert.False(t, report.PlagiarismPass)
	assert.Equal(t, 1.0, report.Plagiarism)
	require.NotEmpty(t, report.Issues)
	assert.Contains(t, report.Issues[0], "plagiarism suspected")
}

func TestCheckQuality_EmptyBodyScoresLow(t *testing.T) {
	report := defaultChecker().CheckQuality(Input{Title: "제목", Body: ""})
	assert.Less(t, report.Score, 70.0)
	assert.Contains(t, []string{"fair", "poor"}, report.Overall)
	assert.NotEmpty(t, report.Recommendations)
}

func TestCheckLength_Bands(t *testing.T) {
	c := defaultChecker()

	assert.Equal(t, 100.0, c.checkLength(strings.Repeat("가", 2500)))
	assert.Equal(t, 80.0, c.checkLength(strings.Repeat("가", 1700)))
	assert.Equal(t, 80.0, c.checkLength(strings.Repeat("가", 3500)))
	assert.Equal(t, 50.0, c.checkLength(strings.Repeat("가", 500)))
	assert.Equal(t, 60.0, c.checkLength(strings.Repeat("가", 4500)))
}

func TestCheckGrammar_Penalties(t *testing.T) {
	c := defaultChecker()

	clean := c.checkGrammar("제목", "문장이 올바르게 끝납니다.")
	assert.Equal(t, 100.0, clean)

	unbalanced := c.checkGrammar("제목", `"인용이 닫히지 않은 문장입니다.`)
	assert.Equal(t, 97.0, unbalanced)

	noEnding := c.checkGrammar("제목", "끝나지 않는 문장")
	assert.Equal(t, 95.0, noEnding)
}

func TestIdentifyIssues_TitleLength(t *testing.T) {
	report := defaultChecker().CheckQuality(Input{Title: "짧음", Body: buildGoodBody()})
	assert.Contains(t, report.Issues, "title too short")
}
