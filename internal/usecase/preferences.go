package usecase

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// foldText puts text in NFC form and lowercases it, so composed and
// decomposed accents compare equal
func foldText(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

// normalizePreferences folds keywords and drops blank ones
func normalizePreferences(preferences []string) []string {
	normalized := make([]string, 0, len(preferences))
	for _, p := range preferences {
		if p = foldText(strings.TrimSpace(p)); p != "" {
			normalized = append(normalized, p)
		}
	}
	return normalized
}

// MatchesPreferences reports whether any preference keyword appears in the
// product name or description, ignoring case and Unicode composition.
// No keywords means everything matches.
func MatchesPreferences(preferences []string, productName, description string) bool {
	keywords := normalizePreferences(preferences)
	if len(keywords) == 0 {
		return true
	}

	name := foldText(productName)
	desc := foldText(description)
	for _, k := range keywords {
		if strings.Contains(name, k) || strings.Contains(desc, k) {
			return true
		}
	}
	return false
}
