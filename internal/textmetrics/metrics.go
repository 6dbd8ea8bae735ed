// Package textmetrics computes lexical and structural features of Korean
// markdown bodies. Every function is pure and deterministic; all length
// arithmetic is rune-based.
package textmetrics

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emphasisRe   = regexp.MustCompile(`\*\*[^*]+\*\*`)
	faqRe        = regexp.MustCompile(`\*\*Q\d+\.`)
	tableRowRe   = regexp.MustCompile(`(?m)^\|.+\|$`)
	headingRe    = regexp.MustCompile(`(?mi)^##\s+|<h2[^>]*>`)
	sectionRe    = regexp.MustCompile(`(?m)^## `)
	bulletRe     = regexp.MustCompile(`(?m)^[-*]\s`)
	ordinalRe    = regexp.MustCompile(`\*\*(?:첫째|둘째|셋째|넷째|다섯째|첫\s*번째|두\s*번째|세\s*번째)`)
	firstSentRe  = regexp.MustCompile(`^[^.!?]+[.!?]`)
	collapseWSRe = regexp.MustCompile(`\s+`)
)

// EndingClass pairs a sentence-ending register with the regexp that counts it.
type EndingClass struct {
	Name    string
	Pattern *regexp.Regexp
}

// DefaultEndingClasses covers the registers Korean blog prose moves between.
// The formal-declarative "nida" class is the one AI output overuses.
func DefaultEndingClasses() []EndingClass {
	return []EndingClass{
		{Name: "nida", Pattern: regexp.MustCompile(`니다[.!?\s]`)},
		{Name: "seyo", Pattern: regexp.MustCompile(`세요[.!?\s]`)},
		{Name: "neundeyo", Pattern: regexp.MustCompile(`는데요[.!?\s]`)},
		{Name: "geodeunyo", Pattern: regexp.MustCompile(`거든요[.!?\s]`)},
		{Name: "jiyo", Pattern: regexp.MustCompile(`(?:이죠|지요|이에요)[.!?\s]`)},
		{Name: "deoragoyo", Pattern: regexp.MustCompile(`더라고요[.!?\s]`)},
	}
}

// EndingHistogram counts occurrences of each ending class in body.
func EndingHistogram(body string, classes []EndingClass) map[string]int {
	hist := make(map[string]int, len(classes))
	for _, c := range classes {
		hist[c.Name] = len(c.Pattern.FindAllString(body, -1))
	}
	return hist
}

// ConnectorCounts returns how often each term of the vocabulary occurs.
// Terms with zero occurrences are omitted.
func ConnectorCounts(body string, vocabulary []string) map[string]int {
	counts := make(map[string]int)
	for _, term := range vocabulary {
		if n := strings.Count(body, term); n > 0 {
			counts[term] = n
		}
	}
	return counts
}

// EmphasisCount counts bold-delimited spans.
func EmphasisCount(body string) int {
	return len(emphasisRe.FindAllString(body, -1))
}

// OrdinalMarkerCount counts bolded ordinal list markers ("첫째", "두 번째", ...).
func OrdinalMarkerCount(body string) int {
	return len(ordinalRe.FindAllString(body, -1))
}

// FAQCount counts numbered Q&A markers.
func FAQCount(body string) int {
	return len(faqRe.FindAllString(body, -1))
}

// TableRowCount counts pipe-delimited table rows.
func TableRowCount(body string) int {
	return len(tableRowRe.FindAllString(body, -1))
}

// HeadingCount counts level-2 headings, markdown or HTML.
func HeadingCount(body string) int {
	return len(headingRe.FindAllString(body, -1))
}

// ExclamationCount counts exclamation marks in the whole body.
func ExclamationCount(body string) int {
	return strings.Count(body, "!")
}

// Paragraphs splits body on blank-line boundaries, dropping empties, heading
// lines and table lines.
func Paragraphs(body string) []string {
	var paras []string
	for _, block := range strings.Split(body, "\n\n") {
		p := strings.TrimSpace(block)
		if p == "" || strings.HasPrefix(p, "#") || strings.HasPrefix(p, "|") {
			continue
		}
		paras = append(paras, p)
	}
	return paras
}

// ParagraphLengths returns the rune length of each paragraph.
func ParagraphLengths(paragraphs []string) []int {
	lengths := make([]int, 0, len(paragraphs))
	for _, p := range paragraphs {
		lengths = append(lengths, utf8.RuneCountInString(p))
	}
	return lengths
}

// CoefficientOfVariation is stddev/mean of the lengths, 0 for degenerate input.
func CoefficientOfVariation(lengths []int) float64 {
	if len(lengths) == 0 {
		return 0
	}
	sum := 0
	for _, l := range lengths {
		sum += l
	}
	mean := float64(sum) / float64(len(lengths))
	if mean == 0 {
		return 0
	}
	variance := 0.0
	for _, l := range lengths {
		d := float64(l) - mean
		variance += d * d
	}
	variance /= float64(len(lengths))
	return math.Sqrt(variance) / mean
}

// OpeningWordCounts maps each paragraph's first word to how many paragraphs
// open with it.
func OpeningWordCounts(paragraphs []string) map[string]int {
	counts := make(map[string]int)
	for _, p := range paragraphs {
		fields := strings.Fields(p)
		if len(fields) == 0 {
			continue
		}
		counts[fields[0]]++
	}
	return counts
}

// SectionBulletCounts returns, per level-2 section, the number of bullet
// lines. The preamble before the first heading is not a section.
func SectionBulletCounts(body string) []int {
	sections := sectionRe.Split(body, -1)
	if len(sections) < 2 {
		return nil
	}
	counts := make([]int, 0, len(sections)-1)
	for _, section := range sections[1:] {
		counts = append(counts, len(bulletRe.FindAllString(section, -1)))
	}
	return counts
}

// FirstSentence returns the leading sentence of body, empty if none ends with
// a terminal mark.
func FirstSentence(body string) string {
	return firstSentRe.FindString(body)
}

// CollapseWhitespace folds runs of whitespace into single spaces.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(collapseWSRe.ReplaceAllString(s, " "))
}
