package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"blogforge/internal/config"
)

func TestTotalScore(t *testing.T) {
	cfg := config.Default().Keyword

	tests := []struct {
		name        string
		volume      int
		competition float64
		relevance   float64
		want        float64
	}{
		{"perfect keyword", 100000, 0, 1.0, 98},
		{"volume saturates at max", 500000, 0, 1.0, 98},
		{"full competition zeroes its term", 100000, 1.0, 1.0, 78},
		{"competition clamped above one", 100000, 2.5, 1.0, 78},
		{"middling everything", 50000, 0.4, 0.5, 62.5},
		{"zero volume zero relevance", 0, 1.0, 0, 23},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TotalScore(cfg, tt.volume, tt.competition, tt.relevance)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestTotalScore_RoundsToTwoDecimals(t *testing.T) {
	cfg := config.Default().Keyword

	// relevance 0.333 contributes 33.3 * 0.30 = 9.99
	got := TotalScore(cfg, 0, 1.0, 0.333)
	assert.Equal(t, 32.99, got)
}

func TestTotalScore_FallsBackWhenMaxVolumeUnset(t *testing.T) {
	cfg := config.Default().Keyword
	cfg.MaxVolume = 0

	// Behaves as if MaxVolume were the default 100000.
	assert.InDelta(t, 98.0, TotalScore(cfg, 100000, 0, 1.0), 0.001)
	assert.InDelta(t, 85.5, TotalScore(cfg, 50000, 0, 1.0), 0.001)
}

func TestRelevanceFromRelated(t *testing.T) {
	assert.Equal(t, 0.5, RelevanceFromRelated(0))
	assert.Equal(t, 0.5, RelevanceFromRelated(-3))
	assert.Equal(t, 0.05, RelevanceFromRelated(1))
	assert.Equal(t, 0.35, RelevanceFromRelated(7))
	assert.Equal(t, 0.5, RelevanceFromRelated(10))
	assert.Equal(t, 1.0, RelevanceFromRelated(20))
	assert.Equal(t, 1.0, RelevanceFromRelated(50))
}
