// Package sentiment derives search signals from raw user text: a keyword
// set for tag-filtered quote search and a lexicon-based emotion score.
// Everything here is pure and deterministic - no I/O, no state.
package sentiment

import (
	"strings"

	"github.com/Infernape3000/Tenacio/internal/domain"
)

// minKeywordLength is the exclusive lower bound on keyword length.
// Tokens of 3 characters or fewer are noise ("I", "am", "the").
const minKeywordLength = 3

// Keywords lower-cases the text, splits on whitespace and keeps tokens
// longer than minKeywordLength, deduplicated in first-seen order.
// Empty or all-short-word input yields an empty set; callers must tolerate
// zero keywords and fall back to unfiltered retrieval.
func Keywords(text string) []string {
	fields := strings.Fields(strings.ToLower(text))

	keywords := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))

	for _, word := range fields {
		if len(word) <= minKeywordLength {
			continue
		}

		if _, ok := seen[word]; ok {
			continue
		}

		seen[word] = struct{}{}
		keywords = append(keywords, word)
	}

	return keywords
}

// Score sums the lexicon valence of every recognized token and returns the
// aggregate integer score. Unknown tokens contribute nothing.
func Score(text string) int {
	score := 0
	for _, word := range strings.Fields(strings.ToLower(text)) {
		score += lexicon[trimToken(word)]
	}

	return score
}

// Analyze computes the full signal set for one piece of text.
func Analyze(text string) domain.Signals {
	score := Score(text)

	return domain.Signals{
		SentimentScore: score,
		EmotionLabel:   domain.LabelForScore(score),
		Keywords:       Keywords(text),
	}
}

// trimToken strips leading and trailing punctuation so "great!" and
// "(happy)" match their lexicon entries.
func trimToken(word string) string {
	return strings.TrimFunc(word, func(r rune) bool {
		return !isWordRune(r)
	})
}

func isWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '\'':
		return true
	default:
		return false
	}
}
