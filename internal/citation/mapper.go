package citation

import (
	"sort"
	"strings"
	"unicode"
)

// Alignment tuning. A sentence cites a source when at least minOverlap of its
// content words appear in the source text; a sentence never cites more than
// maxSourcesPerSpan sources.
const (
	minOverlap        = 0.3
	maxSourcesPerSpan = 3
)

// stopwords are excluded from overlap scoring; they match everything and
// justify nothing.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true,
	"this": true, "are": true, "was": true, "were": true, "from": true,
	"have": true, "has": true, "its": true, "can": true, "will": true,
	"not": true, "you": true, "your": true, "also": true, "which": true,
}

// MapCitations aligns each sentence of the answer to the sources whose text
// supports it, by content-word overlap. Span offsets point into the answer:
// End is the offset where a marker belongs, before the sentence's terminal
// punctuation. An empty source list yields no spans.
func MapCitations(answer string, sources []string) []Span {
	if len(sources) == 0 || answer == "" {
		return nil
	}

	sourceTokens := make([]map[string]bool, len(sources))
	for i, src := range sources {
		sourceTokens[i] = tokenSet(src)
	}

	var spans []Span
	for _, sent := range splitSentences(answer) {
		tokens := tokenSet(answer[sent.start:sent.end])
		if len(tokens) == 0 {
			continue
		}

		type scored struct {
			index   int
			overlap float64
		}
		var candidates []scored
		for i, src := range sourceTokens {
			if o := overlap(tokens, src); o >= minOverlap {
				candidates = append(candidates, scored{index: i, overlap: o})
			}
		}
		if len(candidates) == 0 {
			continue
		}

		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].overlap > candidates[j].overlap
		})
		if len(candidates) > maxSourcesPerSpan {
			candidates = candidates[:maxSourcesPerSpan]
		}

		indices := make([]int, len(candidates))
		for i, c := range candidates {
			indices[i] = c.index
		}
		sort.Ints(indices)

		spans = append(spans, Span{
			Start:         sent.start,
			End:           sent.end,
			SourceIndices: indices,
			Confidence:    candidates[0].overlap,
		})
	}

	return spans
}

// sentence is a half-open range of answer text: start is the first content
// byte, end is the marker insertion offset (before terminal punctuation).
type sentence struct {
	start, end int
}

func splitSentences(text string) []sentence {
	var out []sentence
	start := -1

	for i := 0; i < len(text); i++ {
		c := text[i]
		if start == -1 {
			if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
				continue
			}
			start = i
		}

		switch c {
		case '.', '!', '?':
			if i+1 == len(text) || text[i+1] == ' ' || text[i+1] == '\n' {
				out = append(out, sentence{start: start, end: i})
				start = -1
			}
		case '\n':
			end := i
			for end > start && (text[end-1] == ' ' || text[end-1] == '\t' || text[end-1] == '\r') {
				end--
			}
			if end > start {
				out = append(out, sentence{start: start, end: end})
			}
			start = -1
		}
	}

	if start != -1 {
		end := len(text)
		for end > start && unicode.IsSpace(rune(text[end-1])) {
			end--
		}
		if end > start {
			out = append(out, sentence{start: start, end: end})
		}
	}

	return out
}

func tokenSet(text string) map[string]bool {
	tokens := map[string]bool{}
	word := strings.Builder{}

	flush := func() {
		w := word.String()
		word.Reset()
		if len(w) > 2 && !stopwords[w] {
			tokens[w] = true
		}
	}

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

// overlap is the fraction of sentence tokens present in the source.
func overlap(sentTokens, srcTokens map[string]bool) float64 {
	if len(sentTokens) == 0 {
		return 0
	}
	hits := 0
	for t := range sentTokens {
		if srcTokens[t] {
			hits++
		}
	}
	return float64(hits) / float64(len(sentTokens))
}
