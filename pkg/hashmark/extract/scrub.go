package extract

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gtext "github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

// Content is a markdown body reduced to taggable text.
type Content struct {
	// Headings holds the text of every heading (levels 1-6) in document
	// order, markers and inline markup removed.
	Headings []string
	// Prose is the remaining body text with code blocks, inline code,
	// URLs, and HTML markup removed. Heading text is included, since
	// headings are part of the body.
	Prose string
}

// Linkify is enabled so bare URLs parse as autolinks and can be dropped
// instead of leaking scheme and host fragments into the keyword counts.
var markdown = goldmark.New(goldmark.WithExtensions(extension.Linkify))

// Scrub parses body as markdown and extracts its headings and prose.
func Scrub(body string) Content {
	src := []byte(body)
	doc := markdown.Parser().Parse(gtext.NewReader(src))

	var c Content
	var prose strings.Builder

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Heading:
			if t.Level >= 1 && t.Level <= 6 {
				if text := nodeText(t, src); text != "" {
					c.Headings = append(c.Headings, text)
					prose.WriteString(text)
					prose.WriteByte('\n')
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.CodeSpan:
			return ast.WalkSkipChildren, nil
		case *ast.AutoLink:
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock:
			prose.WriteString(stripHTML(string(blockSource(t, src))))
			prose.WriteByte('\n')
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			prose.WriteString(stripHTML(string(segmentsSource(t.Segments, src))))
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			prose.Write(t.Segment.Value(src))
			prose.WriteByte(' ')
		case *ast.String:
			prose.Write(t.Value)
			prose.WriteByte(' ')
		}
		return ast.WalkContinue, nil
	})

	c.Prose = prose.String()
	return c
}

// nodeText collects the plain text under a node, skipping inline code and
// autolinks, with whitespace runs collapsed.
func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.CodeSpan, *ast.AutoLink, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			b.WriteByte(' ')
		case *ast.String:
			b.Write(t.Value)
			b.WriteByte(' ')
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

// blockSource returns the raw source lines of a block node.
func blockSource(n ast.Node, src []byte) []byte {
	var out []byte
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		out = append(out, seg.Value(src)...)
	}
	return out
}

// segmentsSource concatenates the raw source of a segment list.
func segmentsSource(segments *gtext.Segments, src []byte) []byte {
	var out []byte
	for i := 0; i < segments.Len(); i++ {
		seg := segments.At(i)
		out = append(out, seg.Value(src)...)
	}
	return out
}

// stripHTML reduces an HTML fragment to its text content, dropping script
// and style bodies. Falls back to the input if parsing fails.
func stripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)
	return buf.String()
}
