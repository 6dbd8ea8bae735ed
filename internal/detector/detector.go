// Package detector scores how machine-generated a Korean markdown body reads.
// A fixed, ordered rule table subtracts severities from 100; the result is the
// naturalness score.
package detector

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"blogforge/internal/textmetrics"
)

// DefaultRewriteThreshold is the naturalness score below which a body should
// be rewritten.
const DefaultRewriteThreshold = 80

// Issue is one triggered rule with its weight.
type Issue struct {
	Category string
	Detail   string
	Severity int
}

// Result is the outcome of a detection pass. Score is
// max(0, 100 - sum of severities); NeedsRewrite derives from it.
type Result struct {
	Score        int
	Issues       []Issue
	NeedsRewrite bool
}

func (r *Result) add(category, detail string, severity int) {
	r.Issues = append(r.Issues, Issue{Category: category, Detail: detail, Severity: severity})
	r.Score -= severity
	if r.Score < 0 {
		r.Score = 0
	}
}

// Summary renders the result for logs.
func (r Result) Summary() string {
	if len(r.Issues) == 0 {
		return fmt.Sprintf("naturalness %d/100, no AI patterns", r.Score)
	}
	parts := make([]string, 0, len(r.Issues))
	for _, iss := range r.Issues {
		parts = append(parts, fmt.Sprintf("[%s] %s (severity %d)", iss.Category, iss.Detail, iss.Severity))
	}
	return fmt.Sprintf("naturalness %d/100, %d issues: %s", r.Score, len(r.Issues), strings.Join(parts, "; "))
}

// clichePattern is an opening/transition/closing stock phrase class.
type clichePattern struct {
	re    *regexp.Regexp
	label string
}

var clichePatterns = []clichePattern{
	// openings
	{regexp.MustCompile(`오늘은\s+.{5,30}에\s+대해\s+(?:알아보겠습니다|살펴보겠습니다)`), "opening"},
	{regexp.MustCompile(`(?:많은\s+분들이|많은\s+실무자들이)\s+(?:궁금해하시는|헷갈려하시는|고민하시는)`), "opening"},
	{regexp.MustCompile(`이번\s+(?:포스팅|글)에서는\s+.{5,30}(?:정리해|알아보|살펴보)`), "opening"},
	// transitions
	{regexp.MustCompile(`(?:그렇다면|그럼|그러면)\s+(?:지금부터|이제)\s+(?:하나씩|자세히|본격적으로)\s+(?:알아보|살펴보|확인해)`), "transition"},
	{regexp.MustCompile(`(?:자,?\s*)?(?:그러면|그럼)\s+(?:구체적으로|실질적으로)\s+(?:어떤|어떻게)`), "transition"},
	// closings
	{regexp.MustCompile(`(?:지금까지|이상으로)\s+.{5,30}에\s+대해\s+(?:알아보았습니다|살펴보았습니다|정리해보았습니다)`), "closing"},
	{regexp.MustCompile(`(?:도움이\s+되셨으면|도움이\s+되었으면)\s+(?:좋겠습니다|합니다)`), "closing"},
	{regexp.MustCompile(`(?:궁금한\s+점이?\s+있으시면|질문이\s+있으시면)\s+(?:댓글|문의)`), "closing"},
	// over-helpful reassurance
	{regexp.MustCompile(`(?:걱정하지\s+마세요|걱정\s+마세요)[!.]?\s+(?:지금부터|아래에서|이\s+글에서)`), "reassurance"},
	{regexp.MustCompile(`(?:쉽게|한눈에|완벽하게)\s+(?:정리해|알려)\s*(?:드리겠습니다|드릴게요)`), "reassurance"},
	// enumerated run
	{regexp.MustCompile(`(?s)(?:첫째|첫\s*번째)[,.]?\s+.{10,50}\n.*?(?:둘째|두\s*번째)[,.]?\s+.{10,50}\n.*?(?:셋째|세\s*번째)`), "enumeration"},
}

// directPhrase is a literal expression AI output leans on.
type directPhrase struct {
	phrase   string
	severity int
}

var directPhrases = []directPhrase{
	{"정리해드리겠습니다", 3},
	{"살펴보겠습니다", 3},
	{"알아보겠습니다", 3},
	{"결론부터 말씀드리면", 3},
	{"함께 알아보", 2},
	{"하나씩 살펴보", 2},
	{"꼼꼼히 정리해", 2},
	{"완벽 정리", 2},
	{"총정리", 2},
}

// overusedConnectors are discourse connectives AI prose repeats.
var overusedConnectors = []string{
	"또한", "특히", "따라서", "그러므로", "결론적으로",
	"무엇보다", "이처럼", "이렇게", "즉,", "다시 말해",
	"한편", "아울러", "뿐만 아니라", "나아가", "더불어",
}

var adviceRe = regexp.MustCompile(`(?:주의하세요|확인하세요|유의하세요|참고하세요|기억하세요)`)

// personalMarkers are experiential phrases a human practitioner-blogger uses.
var personalMarkers = []string{
	"제가 담당", "제 경험", "직접 처리", "제가 실제",
	"저도 처음", "실무에서 겪", "현장에서", "실제로 해보",
	"담당했던", "경험상", "체감", "솔직히",
}

// analysis holds the per-body features the rules read.
type analysis struct {
	body       string
	classes    []textmetrics.EndingClass
	endings    map[string]int
	paragraphs []string
}

// finding is one matched instance within a rule.
type finding struct {
	detail   string
	severity int
}

// rule is one independent check. Rules run in declaration order and each may
// contribute several issues.
type rule struct {
	category string
	check    func(a *analysis) []finding
}

// Detector applies the rule table with a configurable rewrite threshold.
type Detector struct {
	threshold int
	classes   []textmetrics.EndingClass
	rules     []rule
}

// New creates a Detector. threshold <= 0 selects the default.
func New(threshold int) *Detector {
	if threshold <= 0 {
		threshold = DefaultRewriteThreshold
	}
	d := &Detector{
		threshold: threshold,
		classes:   textmetrics.DefaultEndingClasses(),
	}
	d.rules = []rule{
		{"cliche", checkCliches},
		{"cliche", checkDirectPhrases},
		{"connector_overuse", checkConnectors},
		{"ending_monotony", checkEndingMonotony},
		{"emphasis_overuse", checkEmphasis},
		{"mechanical_list", checkOrdinals},
		{"mechanical_structure", checkFAQ},
		{"structural_pattern", checkParagraphUniformity},
		{"structural_pattern", checkOpeningRepetition},
		{"unnatural_tone", checkExclamations},
		{"structural_pattern", checkSectionUniformity},
		{"unnatural_tone", checkAdvicePhrases},
		{"no_personal_voice", checkPersonalVoice},
	}
	return d
}

// Detect runs the rule table over body. Pure: identical input yields an
// identical result.
func (d *Detector) Detect(body string) Result {
	a := &analysis{
		body:       body,
		classes:    d.classes,
		endings:    textmetrics.EndingHistogram(body, d.classes),
		paragraphs: textmetrics.Paragraphs(body),
	}

	result := Result{Score: 100}
	for _, r := range d.rules {
		for _, f := range r.check(a) {
			result.add(r.category, f.detail, f.severity)
		}
	}
	result.NeedsRewrite = result.Score < d.threshold
	return result
}

func checkCliches(a *analysis) []finding {
	var out []finding
	for _, p := range clichePatterns {
		if m := p.re.FindString(a.body); m != "" {
			out = append(out, finding{
				detail:   fmt.Sprintf("%s cliche: %q", p.label, truncate(m, 40)),
				severity: 4,
			})
		}
	}
	return out
}

func checkDirectPhrases(a *analysis) []finding {
	var out []finding
	total := 0
	reported := 0
	for _, dp := range directPhrases {
		n := strings.Count(a.body, dp.phrase)
		if n == 0 {
			continue
		}
		total += n
		if reported < 3 {
			out = append(out, finding{
				detail:   fmt.Sprintf("stock phrase %q used %d time(s)", dp.phrase, n),
				severity: dp.severity,
			})
			reported++
		}
	}
	if total >= 3 {
		out = append(out, finding{
			detail:   fmt.Sprintf("%d stock AI phrases in total", total),
			severity: 5,
		})
	}
	return out
}

func checkConnectors(a *analysis) []finding {
	counts := textmetrics.ConnectorCounts(a.body, overusedConnectors)
	type cc struct {
		term  string
		count int
	}
	var repeated []cc
	for term, n := range counts {
		if n >= 2 {
			repeated = append(repeated, cc{term, n})
		}
	}
	sort.Slice(repeated, func(i, j int) bool {
		if repeated[i].count != repeated[j].count {
			return repeated[i].count > repeated[j].count
		}
		return repeated[i].term < repeated[j].term
	})

	describe := func(limit int) string {
		parts := make([]string, 0, limit)
		for i, c := range repeated {
			if i == limit {
				break
			}
			parts = append(parts, fmt.Sprintf("%q x%d", c.term, c.count))
		}
		return strings.Join(parts, ", ")
	}

	switch {
	case len(repeated) >= 3:
		return []finding{{detail: "connector overuse: " + describe(3), severity: 6}}
	case len(repeated) == 2:
		return []finding{{detail: "repeated connectors: " + describe(2), severity: 3}}
	}
	return nil
}

func checkEndingMonotony(a *analysis) []finding {
	total := 0
	domName, domCount := "", 0
	// deterministic scan order, same class slice the histogram was built from
	for _, c := range a.classes {
		n := a.endings[c.Name]
		total += n
		if n > domCount {
			domName, domCount = c.Name, n
		}
	}
	if total == 0 {
		return nil
	}
	ratio := float64(domCount) / float64(total)
	switch {
	case ratio > 0.85 && domCount >= 15:
		return []finding{{
			detail:   fmt.Sprintf("ending class %q dominates: %d/%d (%.0f%%)", domName, domCount, total, ratio*100),
			severity: 7,
		}}
	case ratio > 0.75 && domCount >= 10:
		return []finding{{
			detail:   fmt.Sprintf("ending class %q ratio high: %d/%d (%.0f%%)", domName, domCount, total, ratio*100),
			severity: 4,
		}}
	}
	return nil
}

func checkEmphasis(a *analysis) []finding {
	n := textmetrics.EmphasisCount(a.body)
	switch {
	case n >= 15:
		return []finding{{detail: fmt.Sprintf("%d bold spans", n), severity: 5}}
	case n >= 10:
		return []finding{{detail: fmt.Sprintf("%d bold spans", n), severity: 3}}
	}
	return nil
}

func checkOrdinals(a *analysis) []finding {
	if n := textmetrics.OrdinalMarkerCount(a.body); n >= 3 {
		return []finding{{detail: fmt.Sprintf("%d bolded ordinal markers", n), severity: 5}}
	}
	return nil
}

func checkFAQ(a *analysis) []finding {
	// exactly three Q&A pairs is the default shape of generated content
	if textmetrics.FAQCount(a.body) == 3 {
		return []finding{{detail: "exactly 3 FAQ entries", severity: 4}}
	}
	return nil
}

func checkParagraphUniformity(a *analysis) []finding {
	if len(a.paragraphs) < 4 {
		return nil
	}
	cv := textmetrics.CoefficientOfVariation(textmetrics.ParagraphLengths(a.paragraphs))
	if cv < 0.20 {
		return []finding{{detail: fmt.Sprintf("uniform paragraph lengths (cv %.2f)", cv), severity: 4}}
	}
	return nil
}

func checkOpeningRepetition(a *analysis) []finding {
	if len(a.paragraphs) < 5 {
		return nil
	}
	counts := textmetrics.OpeningWordCounts(a.paragraphs)
	var repeated []string
	for word, n := range counts {
		if n >= 3 {
			repeated = append(repeated, fmt.Sprintf("%q x%d", word, n))
		}
	}
	if len(repeated) == 0 {
		return nil
	}
	sort.Strings(repeated)
	return []finding{{detail: "repeated paragraph openers: " + strings.Join(repeated, ", "), severity: 4}}
}

func checkExclamations(a *analysis) []finding {
	if n := textmetrics.ExclamationCount(a.body); n > 8 {
		return []finding{{detail: fmt.Sprintf("%d exclamation marks", n), severity: 3}}
	}
	return nil
}

func checkSectionUniformity(a *analysis) []finding {
	counts := textmetrics.SectionBulletCounts(a.body)
	if len(counts) < 4 {
		return nil
	}
	first := counts[0]
	if first == 0 {
		return nil
	}
	for _, c := range counts[1:] {
		if c != first {
			return nil
		}
	}
	return []finding{{detail: fmt.Sprintf("every section has exactly %d bullets", first), severity: 5}}
}

func checkAdvicePhrases(a *analysis) []finding {
	if n := len(adviceRe.FindAllString(a.body, -1)); n >= 4 {
		return []finding{{detail: fmt.Sprintf("%d imperative advice endings", n), severity: 3}}
	}
	return nil
}

func checkPersonalVoice(a *analysis) []finding {
	for _, m := range personalMarkers {
		if strings.Contains(a.body, m) {
			return nil
		}
	}
	return []finding{{detail: "no first-person or experiential phrasing anywhere", severity: 5}}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
