// Package legal extracts law citations from post bodies. References are
// replaced wholesale whenever a post is regenerated.
package legal

import (
	"regexp"
	"strings"

	"blogforge/internal/model"
)

// acceptedAbbreviations are statute short names in common professional use;
// their existence needs no further verification.
var acceptedAbbreviations = map[string]struct{}{
	"지방계약법": {}, "국가계약법": {}, "지방재정법": {}, "국가재정법": {},
	"학교회계법": {}, "물품관리법": {}, "공유재산법": {}, "건설기술진흥법": {},
	"지방계약법 시행령": {}, "국가계약법 시행령": {}, "지방재정법 시행령": {},
	"지방계약법 시행규칙": {}, "국가계약법 시행규칙": {},
}

var citationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`「([^」]+)」\s*(제\d+조(?:의\d+)?(?:\s*제\d+항(?:\s*제\d+호)?)?)?`),
	regexp.MustCompile(`([가-힣]+법(?:\s*시행령|\s*시행규칙)?)\s*(제\d+조(?:의\d+)?(?:\s*제\d+항(?:\s*제\d+호)?)?)`),
}

var spaceRe = regexp.MustCompile(`\s+`)

// ExtractCitations finds law citations in text, deduplicated on
// (law name, article number) in order of first appearance.
func ExtractCitations(postID int64, text string) []model.LegalReference {
	var refs []model.LegalReference
	seen := make(map[[2]string]struct{})

	for _, pattern := range citationPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			lawName := strings.TrimSpace(m[1])
			article := ""
			if len(m) > 2 {
				article = strings.TrimSpace(m[2])
			}

			key := [2]string{lawName, article}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			refs = append(refs, model.LegalReference{
				PostID:            postID,
				LawName:           lawName,
				NormalizedLawName: NormalizeLawName(lawName),
				ArticleNumber:     article,
				CitationText:      strings.TrimSpace(m[0]),
				Status:            initialStatus(lawName),
			})
		}
	}
	return refs
}

// NormalizeLawName collapses internal whitespace. Expanding short names to
// full statute titles can be layered on here later.
func NormalizeLawName(name string) string {
	return spaceRe.ReplaceAllString(strings.TrimSpace(name), " ")
}

// initialStatus marks commonly accepted abbreviations verified up front;
// everything else awaits an external check.
func initialStatus(lawName string) model.VerificationStatus {
	if _, ok := acceptedAbbreviations[NormalizeLawName(lawName)]; ok {
		return model.VerificationVerified
	}
	return model.VerificationPending
}
