package humanizer

import (
	"context"
	"fmt"
	"strings"

	"blogforge/internal/detector"
)

// RewriteRequest carries one body to the rewriting collaborator together with
// the detected issues it should address.
type RewriteRequest struct {
	Body    string
	Title   string
	Keyword string
	Issues  []detector.Issue
}

// Rewriter produces a more natural-sounding revision of a body. One request,
// one response; the acceptance policy lives in Humanizer, not here.
type Rewriter interface {
	Rewrite(ctx context.Context, req RewriteRequest) (string, error)
}

func cleanMarkdownOutput(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```markdown") {
		text = strings.TrimPrefix(text, "```markdown")
		text = strings.TrimSuffix(text, "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}

// buildRewritePrompt asks for a human-sounding revision while pinning down
// everything the acceptance policy will verify afterwards.
func buildRewritePrompt(req RewriteRequest) string {
	var issues strings.Builder
	for _, iss := range req.Issues {
		fmt.Fprintf(&issues, "- [%s] %s\n", iss.Category, iss.Detail)
	}

	return fmt.Sprintf(`당신은 교육행정·지방자치단체 실무 경력 15년차 공무원 블로거입니다.
아래 글에서 AI가 생성한 것으로 의심되는 패턴이 감지되었습니다.
사람이 직접 작성한 것처럼 자연스럽게 수정해 주세요.

## 감지된 문제점
%s
## 수정 지침
- AI 상투어를 제거하고 실무자가 실제로 쓰는 표현으로 바꾸세요
- "~입니다/~합니다"만 반복하지 말고 "~거든요", "~는데요", "~더라고요" 등을 섞으세요
- "또한", "특히", "따라서" 같은 기계적 연결어를 줄이세요
- 단락 길이를 불규칙하게 하고, 개인 경험 표현을 1-2개 넣으세요

## 중요 규칙
- 원문의 핵심 정보와 법령 인용은 절대 변경하지 마세요
- 마크다운 형식(##, **, |표|)과 표의 데이터를 유지하세요
- 키워드 "%s"의 밀도를 유지하세요
- 전체 분량을 유지하세요 (±10%% 이내)
- 수정된 본문만 출력하세요 (설명이나 코멘트 없이)

## 원문
%s`, issues.String(), req.Keyword, req.Body)
}
