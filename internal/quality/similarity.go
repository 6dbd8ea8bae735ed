package quality

import (
	"regexp"
	"strings"
)

var (
	nonWordRe    = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalize prepares text for similarity comparison: whitespace collapsed,
// punctuation stripped, case folded.
func Normalize(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = nonWordRe.ReplaceAllString(text, "")
	return strings.TrimSpace(strings.ToLower(text))
}

// Similarity is the Ratcliff/Obershelp ratio of two strings over runes:
// twice the total matched length divided by the combined length. 1.0 means
// identical, 0.0 disjoint. Empty input yields 0.0.
func Similarity(a, b string) float64 {
	ar, br := []rune(a), []rune(b)
	if len(ar) == 0 || len(br) == 0 {
		return 0
	}
	matched := matchTotal(ar, br)
	return 2 * float64(matched) / float64(len(ar)+len(br))
}

// matchTotal sums the longest matching block and, recursively, the matches on
// either side of it.
func matchTotal(a, b []rune) int {
	ai, bi, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchTotal(a[:ai], b[:bi])
	total += matchTotal(a[ai+size:], b[bi+size:])
	return total
}

// longestMatch finds the longest common contiguous block. On ties the
// earliest block in a wins, then the earliest in b.
func longestMatch(a, b []rune) (bestA, bestB, bestSize int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	// lengths[j] = length of common suffix ending at a[i], b[j]
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			if a[i] == b[j] {
				curr[j+1] = prev[j] + 1
				if curr[j+1] > bestSize {
					bestSize = curr[j+1]
					bestA = i - bestSize + 1
					bestB = j - bestSize + 1
				}
			} else {
				curr[j+1] = 0
			}
		}
		prev, curr = curr, prev
	}
	return bestA, bestB, bestSize
}
