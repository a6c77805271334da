package news

import "strings"

// Scoring weights. Every matching keyword contributes independently; there
// is no de-duplication beyond the literal lists, so a text hitting several
// tiers accumulates all of them before the clamp.
const (
	scoreBase    = 50
	weightHigh   = 15
	weightMedium = 10
	weightLow    = 5

	scoreMin = 1
	scoreMax = 100
)

// Scorer rates articles against a three-tier keyword lexicon. The lists
// are configuration (see internal/config); the scorer only applies them.
type Scorer struct {
	high   []string
	medium []string
	low    []string
}

func NewScorer(high, medium, low []string) *Scorer {
	return &Scorer{high: high, medium: medium, low: low}
}

// Score rates title+summary in [1,100] with a case-insensitive substring
// match per keyword.
func (s *Scorer) Score(title, summary string) int {
	text := strings.ToLower(title + " " + summary)

	score := scoreBase
	score += matches(text, s.high) * weightHigh
	score += matches(text, s.medium) * weightMedium
	score += matches(text, s.low) * weightLow

	if score > scoreMax {
		return scoreMax
	}
	if score < scoreMin {
		return scoreMin
	}
	return score
}

func matches(text string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if k == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(k)) {
			n++
		}
	}
	return n
}
