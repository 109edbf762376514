// Package process runs one document through the full labeling flow:
// candidate extraction, normalization, denylist filtering, vocabulary
// mapping, and the merge policy that decides whether anything changed.
package process

import (
	"github.com/cognicore/hashmark/pkg/hashmark/config"
	"github.com/cognicore/hashmark/pkg/hashmark/denylist"
	"github.com/cognicore/hashmark/pkg/hashmark/extract"
	"github.com/cognicore/hashmark/pkg/hashmark/slug"
	"github.com/cognicore/hashmark/pkg/hashmark/source"
	"github.com/cognicore/hashmark/pkg/hashmark/vocab"
)

// Processor applies one configuration to a stream of documents.
type Processor struct {
	cfg  config.Config
	deny *denylist.Filter
}

// New validates cfg and compiles its denylist.
func New(cfg config.Config) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	deny, err := denylist.New(cfg.Denylist, cfg.DenylistMode)
	if err != nil {
		return nil, err
	}
	return &Processor{cfg: cfg, deny: deny}, nil
}

// Outcome reports what happened to one document.
type Outcome struct {
	ID      string
	Changed bool

	Existing []string // labels the document already carried, order preserved
	Added    []string // labels introduced by this run
	Final    []string // Existing followed by Added, capped

	// Diagnostics, computed regardless of write mode.
	Denied      []string            // normalized candidates removed by the denylist
	Remaps      []vocab.MatchResult // candidates folded onto vocabulary entries, capped
	Suggestions []string            // generated labels that missed the final cut, capped
	LowRichness bool                // final count is 1 or below min_count
}

// Process labels one document against a vocabulary snapshot. It never
// mutates shared state, so documents can be processed concurrently
// against the same snapshot.
func (p *Processor) Process(doc source.Document, snap *vocab.Snapshot) Outcome {
	out := Outcome{
		ID:       doc.ID,
		Existing: append([]string(nil), doc.Hashtags...),
	}

	raw := extract.Candidates(extract.Input{
		Title:    doc.Title,
		Fallback: source.TitleFallback(doc.ID),
		Tags:     doc.Tags,
		Body:     doc.Body,
	}, p.cfg.CandidateCap, p.cfg.KeywordCap)

	normalized := normalizeAll(raw)
	kept, denied := p.deny.Partition(normalized)
	out.Denied = denied

	mapped := make([]string, 0, len(kept))
	for _, c := range kept {
		res := snap.Map(c, p.cfg.SimilarityThreshold)
		mapped = append(mapped, res.Label)
		if res.Remapped && len(out.Remaps) < p.cfg.RemapDiagnosticCap {
			out.Remaps = append(out.Remaps, res)
		}
	}

	out.Final, out.Added = merge(out.Existing, mapped, p.cfg.MaxCount)
	out.Changed = len(out.Added) > 0
	out.Suggestions = suggestions(kept, out.Final, p.cfg.SuggestionDiagnosticCap)
	out.LowRichness = len(out.Final) == 1 || len(out.Final) < p.cfg.MinCount

	return out
}

// normalizeAll runs candidates through the slug grammar, dropping rejects
// and deduplicating by first occurrence.
func normalizeAll(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		s, ok := slug.Normalize(r)
		if !ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// merge concatenates existing labels and mapped new labels, deduplicates
// by first occurrence, and truncates to maxCount. Existing labels always
// come first and are never evicted to make room: when the document
// already carries maxCount labels, nothing new gets in.
func merge(existing, mapped []string, maxCount int) (final, added []string) {
	seen := make(map[string]struct{}, len(existing)+len(mapped))
	for _, l := range existing {
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		final = append(final, l)
	}
	if len(final) > maxCount {
		final = final[:maxCount]
	}
	for _, l := range mapped {
		if len(final) >= maxCount {
			break
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		final = append(final, l)
		added = append(added, l)
	}
	return final, added
}

// suggestions returns the generated labels that survived the denylist but
// did not make the final list, in generation order, capped.
func suggestions(kept, final []string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	inFinal := make(map[string]struct{}, len(final))
	for _, l := range final {
		inFinal[l] = struct{}{}
	}
	var out []string
	for _, c := range kept {
		if _, ok := inFinal[c]; ok {
			continue
		}
		out = append(out, c)
		if len(out) >= limit {
			break
		}
	}
	return out
}
