package matcher

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tjanuki/storage-manager/internal/core/domain"
)

// Strategy names the rule that produced a match
type Strategy string

const (
	StrategyNone              Strategy = "none"
	StrategyDirect            Strategy = "direct"
	StrategyUnderscoreToSpace Strategy = "underscore_to_space"
	StrategySpaceToUnderscore Strategy = "space_to_underscore"
	StrategyFuzzy             Strategy = "fuzzy"
)

// FuzzyThreshold must be strictly exceeded for a fuzzy match
const FuzzyThreshold = 70.0

var qualityAnnotation = regexp.MustCompile(`\s*\(\d+p\)\s*`)

// Match is the outcome of matching one name against an index
type Match struct {
	Record   domain.MetadataRecord
	Strategy Strategy
	Score    float64
}

// CleanName removes quality annotations such as "(1080p)" and surrounding whitespace
func CleanName(name string) string {
	return strings.TrimSpace(qualityAnnotation.ReplaceAllString(name, ""))
}

// MatchFilename strips the extension and runs MatchName
func MatchFilename(filename string, idx *Index) (Match, bool) {
	return MatchName(strings.TrimSuffix(filename, filepath.Ext(filename)), idx)
}

// MatchName tries direct lookup, underscore and space swaps, then a fuzzy
// scan over every key in ascending order. The first rule that succeeds wins.
func MatchName(name string, idx *Index) (Match, bool) {
	cleaned := CleanName(name)

	candidates := []struct {
		key      string
		strategy Strategy
	}{
		{cleaned, StrategyDirect},
		{strings.ReplaceAll(cleaned, "_", " "), StrategyUnderscoreToSpace},
		{strings.ReplaceAll(cleaned, " ", "_"), StrategySpaceToUnderscore},
	}
	for _, c := range candidates {
		if record, ok := idx.Lookup(c.key); ok {
			return Match{Record: record, Strategy: c.strategy, Score: 100}, true
		}
	}

	if idx.Len() == 0 {
		return Match{Strategy: StrategyNone}, false
	}

	lowered := strings.ToLower(cleaned)
	bestKey := ""
	bestScore := 0.0
	for _, key := range idx.Keys() {
		score := SimilarityPercent(lowered, key)
		if score > bestScore && score > FuzzyThreshold {
			bestKey, bestScore = key, score
		}
	}
	if bestKey == "" {
		return Match{Strategy: StrategyNone}, false
	}

	record, _ := idx.Lookup(bestKey)
	return Match{Record: record, Strategy: StrategyFuzzy, Score: bestScore}, true
}
