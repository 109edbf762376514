// Package extract pulls raw hashtag candidates out of a markdown post:
// its title, its headings, its category tags, and its highest-frequency
// body keywords, in that priority order.
package extract

// Input is the document material candidates are drawn from.
type Input struct {
	Title    string   // frontmatter title, may be empty
	Fallback string   // filename-derived title used when Title is empty
	Tags     []string // pre-existing category labels, taken verbatim
	Body     string   // markdown body
}

// Candidates produces the ordered, de-duplicated raw candidate list for a
// document: title first, then headings, then tags, then up to keywordCap
// ranked keywords. Deduplication is by exact string equality before any
// normalization, first occurrence wins. The combined list is truncated to
// candidateCap at the end, never per source.
func Candidates(in Input, candidateCap, keywordCap int) []string {
	content := Scrub(in.Body)

	var raw []string
	if in.Title != "" {
		raw = append(raw, in.Title)
	} else if in.Fallback != "" {
		raw = append(raw, in.Fallback)
	}
	raw = append(raw, content.Headings...)
	raw = append(raw, in.Tags...)
	raw = append(raw, RankKeywords(content.Prose, keywordCap)...)

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, c := range raw {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}

	if candidateCap > 0 && len(out) > candidateCap {
		out = out[:candidateCap]
	}
	return out
}
