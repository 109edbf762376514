// Package source abstracts where documents come from. The engine only
// sees an identifier, a metadata subset, and a body; discovery, parsing,
// and serialization live behind the Source interface.
package source

import (
	"context"
	"path/filepath"
	"strings"
)

// Document is the engine's view of one post. Tags are read-only category
// labels; Hashtags are the previously assigned labels, never removed.
type Document struct {
	ID       string
	Title    string
	Tags     []string
	Hashtags []string
	Body     string
}

// Source lists, reads, and updates documents.
type Source interface {
	// List returns document identifiers matching selector, in a stable
	// order.
	List(ctx context.Context, selector string) ([]string, error)
	// Read loads one document's metadata subset and body.
	Read(ctx context.Context, id string) (Document, error)
	// Write persists hashtags into the document's metadata, leaving every
	// other key and the body untouched. The returned bool is false when
	// the stored bytes already match and nothing was written.
	Write(ctx context.Context, id string, hashtags []string) (bool, error)
}

// TitleFallback derives a human-ish title from a document identifier,
// used when the metadata has no title: base name without extension,
// separators replaced with spaces.
func TitleFallback(id string) string {
	base := filepath.Base(id)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return strings.TrimSpace(base)
}
