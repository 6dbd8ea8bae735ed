package humanizer

import (
	"regexp"
	"strings"
)

var (
	multiBangRe     = regexp.MustCompile(`!{2,}`)
	connectorRe     = regexp.MustCompile(`또한,?\s`)
	closingPhraseRe = regexp.MustCompile(`것입니다\.`)
)

// connectorVariants replace every fourth "또한" after the first; the empty
// variant simply drops the connector and lets context carry the transition.
var connectorVariants = []string{"", "그리고 ", "더불어 ", "이 밖에도 "}

var closingVariants = []string{"거든요.", "셈이죠.", "는 겁니다.", "점, 기억하세요."}

// QuickFix applies cheap deterministic normalizations that need no external
// call: collapses stacked exclamation marks, and when the repeated connector
// or the literal closing phrase occurs five or more times, varies a subset of
// the occurrences.
func QuickFix(body string) string {
	fixed := multiBangRe.ReplaceAllString(body, "!")

	if strings.Count(body, "또한") >= 5 {
		i := -1
		fixed = connectorRe.ReplaceAllStringFunc(fixed, func(m string) string {
			i++
			if i > 0 && i%4 == 0 {
				return connectorVariants[(i/4)%len(connectorVariants)]
			}
			return m
		})
	}

	if len(closingPhraseRe.FindAllString(fixed, -1)) >= 5 {
		i := -1
		fixed = closingPhraseRe.ReplaceAllStringFunc(fixed, func(m string) string {
			i++
			if i > 0 && i%3 == 0 {
				return closingVariants[i%len(closingVariants)]
			}
			return m
		})
	}

	return fixed
}
