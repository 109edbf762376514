// Package denylist partitions generated label candidates into kept and
// denied sets. It applies only to newly generated candidates; labels a
// document already carries are never run through it.
package denylist

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/cognicore/hashmark/pkg/hashmark/internalerr"
	"github.com/cognicore/hashmark/pkg/hashmark/slug"
)

// Mode selects how denylist entries are matched.
type Mode string

const (
	// ModeExact matches candidates against slug-normalized entries by
	// string equality.
	ModeExact Mode = "exact"
	// ModeGlob treats entries as glob patterns ('*' any run, '?' exactly
	// one character), anchored to the full candidate, case-insensitive.
	ModeGlob Mode = "glob"
)

// Filter holds a compiled denylist.
type Filter struct {
	mode     Mode
	exact    map[string]struct{}
	patterns []glob.Glob
}

// New compiles entries under the given mode. In exact mode entries are
// normalized through the slug grammar first (entries that normalize to
// nothing are dropped). In glob mode entries are compiled verbatim, since
// normalization would strip the wildcard characters.
func New(entries []string, mode Mode) (*Filter, error) {
	f := &Filter{mode: mode}
	switch mode {
	case ModeExact:
		f.exact = make(map[string]struct{}, len(entries))
		for _, e := range entries {
			if normalized, ok := slug.Normalize(e); ok {
				f.exact[normalized] = struct{}{}
			}
		}
	case ModeGlob:
		f.patterns = make([]glob.Glob, 0, len(entries))
		for _, e := range entries {
			e = strings.ToLower(strings.TrimSpace(e))
			if e == "" {
				continue
			}
			g, err := glob.Compile(e)
			if err != nil {
				return nil, fmt.Errorf("denylist pattern %q: %w", e, err)
			}
			f.patterns = append(f.patterns, g)
		}
	default:
		return nil, fmt.Errorf("denylist mode %q: %w", mode, internalerr.ErrInvalidConfig)
	}
	return f, nil
}

// Denied reports whether candidate matches the denylist. Candidates are
// already normalized slugs, so exact mode is a plain set lookup.
func (f *Filter) Denied(candidate string) bool {
	if f == nil {
		return false
	}
	switch f.mode {
	case ModeExact:
		_, ok := f.exact[candidate]
		return ok
	case ModeGlob:
		for _, g := range f.patterns {
			if g.Match(candidate) {
				return true
			}
		}
	}
	return false
}

// Partition splits candidates into kept and denied, preserving order.
func (f *Filter) Partition(candidates []string) (kept, denied []string) {
	for _, c := range candidates {
		if f.Denied(c) {
			denied = append(denied, c)
		} else {
			kept = append(kept, c)
		}
	}
	return kept, denied
}
