// Package vocab holds the learned label vocabulary and the similarity
// mapper that reconciles new candidates against it.
package vocab

import (
	"context"
	"sort"
	"strings"
)

// Store persists the vocabulary between runs.
type Store interface {
	// Load returns the persisted labels. An empty slice (not an error)
	// means no vocabulary exists yet.
	Load(ctx context.Context) ([]string, error)
	// Save replaces the persisted vocabulary with labels.
	Save(ctx context.Context, labels []string) error
	Close() error
}

// MatchResult is the outcome of mapping one candidate against the vocabulary.
type MatchResult struct {
	Candidate string  // the candidate as submitted
	Label     string  // resulting label: vocabulary entry or the candidate itself
	Score     float64 // similarity in [0,1]
	Remapped  bool    // true when Label is an existing vocabulary entry != Candidate
}

// Snapshot is a read-only view of the vocabulary for one batch run.
// Entries are kept in lexicographic order so mapping decisions are
// deterministic regardless of where the labels came from.
type Snapshot struct {
	labels []string
	tokens [][]string // hyphen-split tokens per label, same index
}

// NewSnapshot sorts and deduplicates labels into a Snapshot.
func NewSnapshot(labels []string) *Snapshot {
	uniq := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		uniq = append(uniq, l)
	}
	sort.Strings(uniq)

	tokens := make([][]string, len(uniq))
	for i, l := range uniq {
		tokens[i] = splitTokens(l)
	}
	return &Snapshot{labels: uniq, tokens: tokens}
}

// Labels returns the snapshot's entries in lexicographic order.
func (s *Snapshot) Labels() []string {
	return append([]string(nil), s.labels...)
}

// Len returns the number of vocabulary entries.
func (s *Snapshot) Len() int { return len(s.labels) }

// Contains reports whether label is a vocabulary entry.
func (s *Snapshot) Contains(label string) bool {
	i := sort.SearchStrings(s.labels, label)
	return i < len(s.labels) && s.labels[i] == label
}

// Map reconciles candidate against the vocabulary. An exact member is
// returned immediately with score 1. Otherwise the entry with the highest
// Jaccard similarity over hyphen-split token sets wins (first entry in
// lexicographic order on ties); the candidate is remapped onto it only
// when the best score reaches threshold. Below threshold the candidate is
// kept as-is, carrying the best score for diagnostics.
func (s *Snapshot) Map(candidate string, threshold float64) MatchResult {
	candTokens := splitTokens(candidate)
	if len(candTokens) == 0 {
		return MatchResult{Candidate: candidate, Label: candidate}
	}

	if s.Contains(candidate) {
		return MatchResult{Candidate: candidate, Label: candidate, Score: 1}
	}

	best := -1.0
	bestIdx := -1
	for i, entryTokens := range s.tokens {
		if len(entryTokens) == 0 {
			continue
		}
		score := jaccard(candTokens, entryTokens)
		if score > best {
			best = score
			bestIdx = i
		}
	}

	if bestIdx >= 0 && best >= threshold {
		return MatchResult{
			Candidate: candidate,
			Label:     s.labels[bestIdx],
			Score:     best,
			Remapped:  true,
		}
	}

	res := MatchResult{Candidate: candidate, Label: candidate}
	if best > 0 {
		res.Score = best
	}
	return res
}

// Merge returns a new Snapshot containing the current entries plus added,
// normalized back into lexicographic order. The receiver is not mutated.
func (s *Snapshot) Merge(added []string) *Snapshot {
	combined := make([]string, 0, len(s.labels)+len(added))
	combined = append(combined, s.labels...)
	combined = append(combined, added...)
	return NewSnapshot(combined)
}

// splitTokens splits a slug into its hyphen-separated sub-tokens,
// dropping empties so malformed input cannot skew set sizes.
func splitTokens(label string) []string {
	parts := strings.Split(label, "-")
	tokens := parts[:0]
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// jaccard calculates Jaccard similarity between two token slices.
func jaccard(a, b []string) float64 {
	aSet := make(map[string]struct{}, len(a))
	for _, s := range a {
		aSet[s] = struct{}{}
	}
	bSet := make(map[string]struct{}, len(b))
	for _, s := range b {
		bSet[s] = struct{}{}
	}

	intersection := 0
	for s := range aSet {
		if _, ok := bSet[s]; ok {
			intersection++
		}
	}
	union := len(aSet) + len(bSet) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
