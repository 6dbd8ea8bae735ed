// Package keyword scores researched keywords. The total is a fixed weighted
// blend; freshness and intent currently have no upstream signal and enter as
// configured constants.
package keyword

import (
	"math"

	"blogforge/internal/config"
)

// TotalScore blends search volume, competition and relevance into a 0-100
// score. Volume saturates at cfg.MaxVolume; competition counts inversely.
func TotalScore(cfg config.KeywordConfig, volume int, competition, relevance float64) float64 {
	maxVolume := float64(cfg.MaxVolume)
	if maxVolume <= 0 {
		maxVolume = float64(config.Default().Keyword.MaxVolume)
	}

	volumeScore := math.Min(float64(volume)/maxVolume, 1.0) * 100
	competitionScore := (1 - math.Min(competition, 1.0)) * 100
	relevanceScore := relevance * 100

	total := volumeScore*cfg.VolumeWeight +
		competitionScore*cfg.CompetitionWeight +
		relevanceScore*cfg.RelevanceWeight +
		cfg.FreshnessConstant*cfg.FreshnessWeight +
		cfg.IntentConstant*cfg.IntentWeight

	return math.Round(total*100) / 100
}

// RelevanceFromRelated derives a 0-1 relevance signal from the number of
// related keywords, neutral 0.5 when nothing is known.
func RelevanceFromRelated(related int) float64 {
	if related <= 0 {
		return 0.5
	}
	return math.Round(math.Min(float64(related)/20, 1.0)*100) / 100
}
