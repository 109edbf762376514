package extract

import (
	"sort"
	"strings"
	"unicode"

	"github.com/cognicore/hashmark/pkg/hashmark/slug"
)

// minKeywordLen filters short tokens out of keyword ranking. Short tokens
// are almost always noise ("el", "px") while labels only need two chars.
const minKeywordLen = 3

// RankKeywords tokenizes scrubbed prose and returns up to limit tokens
// ranked by frequency, most frequent first. Ties are broken by first
// occurrence, so ranking never depends on map iteration order.
func RankKeywords(prose string, limit int) []string {
	if limit <= 0 {
		return nil
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	var order []string

	for _, tok := range tokenize(prose) {
		if len(tok) < minKeywordLen || slug.IsStopword(tok) {
			continue
		}
		if _, ok := counts[tok]; !ok {
			firstSeen[tok] = len(order)
			order = append(order, tok)
		}
		counts[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		ci, cj := counts[order[i]], counts[order[j]]
		if ci != cj {
			return ci > cj
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	if len(order) > limit {
		order = order[:limit]
	}
	return order
}

// tokenize splits text into lowercase alphanumeric-and-hyphen tokens,
// cleaning stray hyphens off token edges.
func tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		if tok := cleanToken(current.String()); tok != "" {
			tokens = append(tokens, tok)
		}
		current.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

// cleanToken strips leading/trailing hyphens and collapses hyphen runs.
func cleanToken(token string) string {
	token = strings.Trim(token, "-")
	for strings.Contains(token, "--") {
		token = strings.ReplaceAll(token, "--", "-")
	}
	return token
}
