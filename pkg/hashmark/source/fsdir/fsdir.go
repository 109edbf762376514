// Package fsdir implements source.Source over a directory of markdown
// files with YAML frontmatter.
package fsdir

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/hashmark/pkg/hashmark/source"
)

// hashtagsKey is the only frontmatter key this package ever writes.
const hashtagsKey = "hashtags"

// DefaultSelector matches the usual post layout when no selector is given.
const DefaultSelector = "*.md"

// Dir is a filesystem-backed document source rooted at one directory.
// Identifiers are paths relative to the root.
type Dir struct {
	root string
}

// New creates a Dir rooted at root. The directory is not required to
// exist until List or Read is called.
func New(root string) *Dir {
	return &Dir{root: root}
}

// List returns the relative paths matching selector (fs.Glob syntax),
// sorted lexicographically.
func (d *Dir) List(ctx context.Context, selector string) ([]string, error) {
	if selector == "" {
		selector = DefaultSelector
	}
	matches, err := fs.Glob(os.DirFS(d.root), selector)
	if err != nil {
		return nil, fmt.Errorf("list documents %q: %w", selector, err)
	}
	return matches, nil
}

// frontMatterEnvelope captures the metadata subset the engine reads.
// Unknown keys are ignored here; Write re-reads the raw block so they
// are never lost.
type frontMatterEnvelope struct {
	Title      string   `yaml:"title"`
	Tags       []string `yaml:"tags"`
	Categories []string `yaml:"categories"`
	Hashtags   []string `yaml:"hashtags"`
}

// Read loads and parses one document.
func (d *Dir) Read(ctx context.Context, id string) (source.Document, error) {
	data, err := os.ReadFile(filepath.Join(d.root, id))
	if err != nil {
		return source.Document{}, fmt.Errorf("read document %s: %w", id, err)
	}

	var meta frontMatterEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return source.Document{}, fmt.Errorf("parse document %s: %w", id, err)
	}

	doc := source.Document{
		ID:       id,
		Title:    meta.Title,
		Tags:     append(append([]string(nil), meta.Tags...), meta.Categories...),
		Hashtags: append([]string(nil), meta.Hashtags...),
		Body:     string(body),
	}
	return doc, nil
}

// Write patches the hashtags key into the document's frontmatter, keeping
// every other key, its order, and its comments intact. The file is only
// rewritten when the patched bytes differ from what is on disk.
func (d *Dir) Write(ctx context.Context, id string, hashtags []string) (bool, error) {
	path := filepath.Join(d.root, id)
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read document %s: %w", id, err)
	}

	block, body, hasBlock := splitFrontmatter(data)

	var node yaml.Node
	if hasBlock {
		if err := yaml.Unmarshal(block, &node); err != nil {
			return false, fmt.Errorf("parse document %s: %w", id, err)
		}
	}
	if node.Kind == 0 {
		node = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}},
		}
	}
	if err := patchHashtags(&node, hashtags); err != nil {
		return false, fmt.Errorf("patch document %s: %w", id, err)
	}

	var encoded bytes.Buffer
	enc := yaml.NewEncoder(&encoded)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return false, fmt.Errorf("serialize document %s: %w", id, err)
	}
	if err := enc.Close(); err != nil {
		return false, fmt.Errorf("serialize document %s: %w", id, err)
	}

	var out bytes.Buffer
	out.WriteString("---\n")
	out.Write(encoded.Bytes())
	out.WriteString("---\n")
	if hasBlock {
		out.Write(body)
	} else {
		out.WriteString("\n")
		out.Write(data)
	}

	if bytes.Equal(out.Bytes(), data) {
		return false, nil
	}
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		return false, fmt.Errorf("write document %s: %w", id, err)
	}
	return true, nil
}

// splitFrontmatter separates a leading YAML frontmatter block from the
// body. The block excludes both delimiter lines.
func splitFrontmatter(data []byte) (block, body []byte, ok bool) {
	lines := strings.SplitAfter(string(data), "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r\n") != "---" {
		return nil, nil, false
	}
	for i := 1; i < len(lines); i++ {
		t := strings.TrimRight(lines[i], "\r\n")
		if t == "---" || t == "..." {
			block = []byte(strings.Join(lines[1:i], ""))
			body = []byte(strings.Join(lines[i+1:], ""))
			return block, body, true
		}
	}
	return nil, nil, false
}

// patchHashtags replaces (or appends) the hashtags key in the document's
// top-level mapping with a block sequence of the given labels.
func patchHashtags(doc *yaml.Node, hashtags []string) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, h := range hashtags {
		seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: h})
	}

	mapping := doc
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			doc.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
		}
		mapping = doc.Content[0]
	}
	if mapping.Kind != yaml.MappingNode {
		return fmt.Errorf("frontmatter is not a mapping")
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == hashtagsKey {
			mapping.Content[i+1] = seq
			return nil
		}
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: hashtagsKey},
		seq,
	)
	return nil
}
