package usecase

import "strings"

const (
	baseEcoScore        = 60
	sustainableEcoScore = 80
	harmfulEcoScore     = 40
)

var (
	sustainableKeywords = []string{"eco", "organic", "biodegradable", "sustainable"}
	harmfulKeywords     = []string{"plastic", "non-recyclable"}
)

// InferEcoScore derives the 0-100 sustainability score of a product. A
// curated product keeps its fixed score; otherwise the description is
// scanned for sustainable wording first and harmful wording second.
func InferEcoScore(productName, description string) int {
	if p, ok := lookupCurated(productName); ok {
		return clampScore(p.EcoScore)
	}

	desc := strings.ToLower(description)
	switch {
	case containsAny(desc, sustainableKeywords):
		return sustainableEcoScore
	case containsAny(desc, harmfulKeywords):
		return harmfulEcoScore
	default:
		return baseEcoScore
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
