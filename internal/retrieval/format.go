package retrieval

import (
	"fmt"
	"strings"
)

// FormatSources renders results as numbered source blocks. The numbering is
// 1-based and matches the citation markers inserted into answers.
func FormatSources(results []ScoredResult) string {
	if len(results) == 0 {
		return "No sources."
	}

	var sb strings.Builder
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("[%d]", i+1))
		if path := r.Chunk.Metadata.HeadingPath; len(path) > 0 {
			sb.WriteString(" ")
			sb.WriteString(strings.Join(path, " > "))
		}
		sb.WriteString(fmt.Sprintf(" (relevance %.0f%%)\n", r.Score*100))
		sb.WriteString(r.Chunk.Text)
		sb.WriteString("\n\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// SourceTexts extracts just the chunk texts, in result order.
func SourceTexts(results []ScoredResult) []string {
	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Chunk.Text
	}
	return texts
}
