package scraper

import "strings"

var (
	sustainableKeywords = []string{"organic", "eco", "biodegradable", "sustainable"}
	harmfulKeywords     = []string{"plastic", "non-recyclable"}
)

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// badgeHint scores a card from its badges: 50, +20 per sustainable badge,
// -15 per harmful badge, clamped to [0,100].
func badgeHint(badges []string) int {
	score := 50
	for _, badge := range badges {
		b := strings.ToLower(badge)
		if containsAny(b, sustainableKeywords) {
			score += 20
		}
		if containsAny(b, harmfulKeywords) {
			score -= 15
		}
	}
	return clamp(score)
}

// titleHint scores a card from its title: 80 sustainable, 40 harmful, 60 otherwise
func titleHint(title string) int {
	t := strings.ToLower(title)
	switch {
	case containsAny(t, sustainableKeywords):
		return 80
	case containsAny(t, harmfulKeywords):
		return 40
	default:
		return 60
	}
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
