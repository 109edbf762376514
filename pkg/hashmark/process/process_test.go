package process

import (
	"testing"

	"github.com/cognicore/hashmark/pkg/hashmark/config"
	"github.com/cognicore/hashmark/pkg/hashmark/denylist"
	"github.com/cognicore/hashmark/pkg/hashmark/slug"
	"github.com/cognicore/hashmark/pkg/hashmark/source"
	"github.com/cognicore/hashmark/pkg/hashmark/vocab"
)

func newProcessor(t *testing.T, mutate func(*config.Config)) *Processor {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	p, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestProcessIntroToAPIDesign(t *testing.T) {
	p := newProcessor(t, func(c *config.Config) {
		c.MinCount = 3
		c.MaxCount = 12
		c.SimilarityThreshold = 0.6
	})

	doc := source.Document{
		ID:    "intro.md",
		Title: "Intro to API Design",
		Body:  "APIs are about contracts. APIs need versioning.",
	}
	out := p.Process(doc, vocab.NewSnapshot(nil))

	if !out.Changed {
		t.Fatal("empty document must gain labels")
	}
	if len(out.Final) > 12 {
		t.Errorf("cap violated: %v", out.Final)
	}
	seen := map[string]struct{}{}
	for _, l := range out.Final {
		if !slug.IsValid(l) {
			t.Errorf("label %q violates the slug grammar", l)
		}
		if _, dup := seen[l]; dup {
			t.Errorf("duplicate label %q in %v", l, out.Final)
		}
		seen[l] = struct{}{}
	}

	for _, want := range []string{"intro-to-api-design", "apis", "contracts", "versioning"} {
		if _, ok := seen[want]; !ok {
			t.Errorf("expected %q in %v", want, out.Final)
		}
	}
	if out.LowRichness != (len(out.Final) < 3) {
		t.Errorf("low richness flag inconsistent: %d labels, flag %v", len(out.Final), out.LowRichness)
	}
}

func TestProcessIdempotent(t *testing.T) {
	p := newProcessor(t, nil)
	snap := vocab.NewSnapshot(nil)

	doc := source.Document{
		ID:    "post.md",
		Title: "Working with Goroutines",
		Body:  "Goroutines and channels. Channels everywhere.",
	}

	first := p.Process(doc, snap)
	if !first.Changed {
		t.Fatal("first run should change the document")
	}

	// Second run starts from the first run's result, with the new labels
	// already in the vocabulary.
	doc.Hashtags = first.Final
	second := p.Process(doc, snap.Merge(first.Added))

	if second.Changed || len(second.Added) != 0 {
		t.Errorf("second run added %v; engine is not idempotent", second.Added)
	}
	if !equalStrings(second.Final, first.Final) {
		t.Errorf("final list drifted: %v -> %v", first.Final, second.Final)
	}
}

func TestProcessExistingLabelsPreserved(t *testing.T) {
	p := newProcessor(t, nil)

	doc := source.Document{
		ID:       "post.md",
		Title:    "Some Title",
		Hashtags: []string{"keep-me", "and-me"},
		Body:     "fresh words fresh ideas",
	}
	out := p.Process(doc, vocab.NewSnapshot(nil))

	if len(out.Final) < 2 || out.Final[0] != "keep-me" || out.Final[1] != "and-me" {
		t.Errorf("existing labels must lead the final list: %v", out.Final)
	}
}

func TestProcessExistingAtCapBlocksAdds(t *testing.T) {
	p := newProcessor(t, func(c *config.Config) {
		c.MinCount = 1
		c.MaxCount = 2
	})

	doc := source.Document{
		ID:       "post.md",
		Title:    "Plenty of Fresh Material Here",
		Hashtags: []string{"first", "second"},
		Body:     "candidates galore everywhere always",
	}
	out := p.Process(doc, vocab.NewSnapshot(nil))

	if len(out.Added) != 0 || out.Changed {
		t.Errorf("no labels may be added past the cap, got added=%v", out.Added)
	}
	if !equalStrings(out.Final, []string{"first", "second"}) {
		t.Errorf("final = %v, want existing unchanged", out.Final)
	}
}

func TestProcessExistingOverCapTruncated(t *testing.T) {
	p := newProcessor(t, func(c *config.Config) {
		c.MinCount = 1
		c.MaxCount = 2
	})

	doc := source.Document{
		ID:       "post.md",
		Hashtags: []string{"one", "two", "three"},
	}
	out := p.Process(doc, vocab.NewSnapshot(nil))

	if !equalStrings(out.Final, []string{"one", "two"}) {
		t.Errorf("final = %v, want [one two]", out.Final)
	}
	if len(out.Added) != 0 {
		t.Errorf("truncation must not report adds: %v", out.Added)
	}
}

func TestProcessDenylistSparesExistingLabels(t *testing.T) {
	p := newProcessor(t, func(c *config.Config) {
		c.Denylist = []string{"astro-*"}
		c.DenylistMode = denylist.ModeGlob
	})

	doc := source.Document{
		ID:       "post.md",
		Title:    "Astro Components Deep Dive",
		Hashtags: []string{"astro-internals"},
		Body:     "astro-components astro-components rendering",
	}
	out := p.Process(doc, vocab.NewSnapshot(nil))

	if out.Final[0] != "astro-internals" {
		t.Errorf("pre-existing label must bypass the denylist: %v", out.Final)
	}
	for _, l := range out.Added {
		if l == "astro-components" || l == "astro-components-deep-dive" {
			t.Errorf("denied candidate %q reached the final list", l)
		}
	}
	found := false
	for _, d := range out.Denied {
		if d == "astro-components" {
			found = true
		}
	}
	if !found {
		t.Errorf("astro-components should appear in denied diagnostics: %v", out.Denied)
	}
}

func TestProcessRemapDiagnostics(t *testing.T) {
	p := newProcessor(t, func(c *config.Config) {
		c.SimilarityThreshold = 0.4
	})
	snap := vocab.NewSnapshot([]string{"api-design"})

	doc := source.Document{
		ID:    "post.md",
		Title: "API Design Notes",
		Body:  "",
	}
	out := p.Process(doc, snap)

	// "api-design-notes" tokens {api,design,notes} vs {api,design}: 2/3.
	if len(out.Remaps) == 0 {
		t.Fatalf("expected a remap diagnostic, outcome %+v", out)
	}
	r := out.Remaps[0]
	if r.Candidate != "api-design-notes" || r.Label != "api-design" || !r.Remapped {
		t.Errorf("remap = %+v", r)
	}
	for _, l := range out.Final {
		if l == "api-design-notes" {
			t.Errorf("remapped candidate leaked unmapped into final: %v", out.Final)
		}
	}
}

func TestProcessLowRichness(t *testing.T) {
	p := newProcessor(t, func(c *config.Config) {
		c.MinCount = 3
		c.MaxCount = 12
	})

	doc := source.Document{ID: "tiny.md", Title: "Hi There", Body: ""}
	out := p.Process(doc, vocab.NewSnapshot(nil))

	if len(out.Final) >= 3 {
		t.Skipf("document unexpectedly rich: %v", out.Final)
	}
	if !out.LowRichness {
		t.Errorf("low richness should fire with %d labels", len(out.Final))
	}
}

func TestProcessSuggestionsCapAndOrder(t *testing.T) {
	p := newProcessor(t, func(c *config.Config) {
		c.MinCount = 1
		c.MaxCount = 1
		c.SuggestionDiagnosticCap = 2
	})

	doc := source.Document{
		ID:       "post.md",
		Title:    "Alpha Bravo",
		Hashtags: []string{"taken"},
		Body:     "charlie charlie delta echo",
	}
	out := p.Process(doc, vocab.NewSnapshot(nil))

	if len(out.Suggestions) != 2 {
		t.Fatalf("suggestions = %v, want 2 entries", out.Suggestions)
	}
	// Generation order: title slug first, then ranked keywords.
	if out.Suggestions[0] != "alpha-bravo" || out.Suggestions[1] != "charlie" {
		t.Errorf("suggestions = %v, want [alpha-bravo charlie]", out.Suggestions)
	}
}

func TestMerge(t *testing.T) {
	cases := []struct {
		name      string
		existing  []string
		mapped    []string
		max       int
		wantFinal []string
		wantAdded []string
	}{
		{
			name:      "append and dedupe",
			existing:  []string{"a", "b"},
			mapped:    []string{"b", "c", "c", "d"},
			max:       10,
			wantFinal: []string{"a", "b", "c", "d"},
			wantAdded: []string{"c", "d"},
		},
		{
			name:      "cap stops new labels",
			existing:  []string{"a"},
			mapped:    []string{"b", "c"},
			max:       2,
			wantFinal: []string{"a", "b"},
			wantAdded: []string{"b"},
		},
		{
			name:      "existing at cap",
			existing:  []string{"a", "b"},
			mapped:    []string{"c"},
			max:       2,
			wantFinal: []string{"a", "b"},
			wantAdded: nil,
		},
		{
			name:      "existing beyond cap truncated",
			existing:  []string{"a", "b", "c"},
			mapped:    []string{"d"},
			max:       2,
			wantFinal: []string{"a", "b"},
			wantAdded: nil,
		},
		{
			name:      "duplicate existing collapses",
			existing:  []string{"a", "a", "b"},
			mapped:    nil,
			max:       10,
			wantFinal: []string{"a", "b"},
			wantAdded: nil,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			final, added := merge(c.existing, c.mapped, c.max)
			if !equalStrings(final, c.wantFinal) {
				t.Errorf("final = %v, want %v", final, c.wantFinal)
			}
			if !equalStrings(added, c.wantAdded) {
				t.Errorf("added = %v, want %v", added, c.wantAdded)
			}
		})
	}
}
