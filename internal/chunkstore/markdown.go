package chunkstore

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// maxChunkLen caps the size of a single chunk. Sections longer than this are
// split on paragraph boundaries so no chunk dominates the retrieval context.
const maxChunkLen = 2000

// ChunkMarkdown splits a markdown page snapshot into chunks, one per heading
// section. Each chunk carries the heading trail leading to it, outermost
// first, so answers can point users back to the right part of the page.
func ChunkMarkdown(pageURL string, source []byte) []Chunk {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	var (
		chunks   []Chunk
		headings []string
		section  strings.Builder
	)

	flush := func() {
		body := strings.TrimSpace(section.String())
		section.Reset()
		if body == "" {
			return
		}
		path := make([]string, len(headings))
		copy(path, headings)
		for _, part := range splitLong(body) {
			chunks = append(chunks, Chunk{
				ID:   fmt.Sprintf("%s#%d", pageURL, len(chunks)),
				Text: part,
				Metadata: ChunkMetadata{
					PageURL:     pageURL,
					HeadingPath: path,
					RawText:     part,
					Position:    len(chunks),
				},
			})
		}
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			flush()
			if h.Level-1 < len(headings) {
				headings = headings[:h.Level-1]
			}
			headings = append(headings, nodeText(h, source))
			continue
		}
		section.WriteString(blockText(n, source))
		section.WriteString("\n\n")
	}
	flush()

	return chunks
}

// splitLong breaks an over-long section on paragraph boundaries.
func splitLong(body string) []string {
	if len(body) <= maxChunkLen {
		return []string{body}
	}

	var parts []string
	var sb strings.Builder
	for _, para := range strings.Split(body, "\n\n") {
		if sb.Len() > 0 && sb.Len()+len(para) > maxChunkLen {
			parts = append(parts, strings.TrimSpace(sb.String()))
			sb.Reset()
		}
		sb.WriteString(para)
		sb.WriteString("\n\n")
	}
	if s := strings.TrimSpace(sb.String()); s != "" {
		parts = append(parts, s)
	}
	return parts
}

// nodeText extracts the plain text of an inline-bearing node (headings).
func nodeText(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

// blockText extracts the raw source text of a block node by collecting the
// line segments of its leaf blocks (paragraphs, code blocks, list items).
func blockText(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if lines := c.Lines(); lines != nil && lines.Len() > 0 {
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				sb.Write(seg.Value(src))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
