// Package citation aligns spans of generated answer text with the numbered
// sources that support them, and converts between span form and the inline
// marker form ("[1]", "[2,3]") embedded in answer strings.
package citation

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Span is a character range in an answer annotated with the zero-based
// indices of the sources that justify it.
type Span struct {
	Start         int     `json:"start"`
	End           int     `json:"end"`
	SourceIndices []int   `json:"sourceIndices"`
	Confidence    float64 `json:"confidence"`
}

// Marker is an inline citation token found in annotated text. Start and End
// are the byte offsets of the token itself, End exclusive.
type Marker struct {
	Start         int
	End           int
	SourceIndices []int
}

// markerPattern matches well-formed citation markers: a bracket, one or more
// digit groups separated by commas, a bracket. Anything else between
// brackets is left as literal text.
var markerPattern = regexp.MustCompile(`\[\d+(?:,\d+)*\]`)

// InsertMarkers splices a citation marker into answer at each span's End
// offset and returns the annotated string. Spans are applied in descending
// End order, so every insertion point refers to the original coordinate
// space; building the output as ordered segments of the immutable input is
// equivalent and avoids index arithmetic on a mutating string. Spans sharing
// an End are spliced as atomic adjacent markers, never interleaved. Invalid
// spans (out of range, no sources) are skipped.
//
// The output length is always the input length plus the sum of the inserted
// marker lengths.
func InsertMarkers(answer string, spans []Span) string {
	if len(spans) == 0 {
		return answer
	}

	valid := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Start < 0 || s.End < s.Start || s.End > len(answer) || len(s.SourceIndices) == 0 {
			continue
		}
		valid = append(valid, s)
	}
	if len(valid) == 0 {
		return answer
	}

	sort.SliceStable(valid, func(i, j int) bool { return valid[i].End < valid[j].End })

	var sb strings.Builder
	prev := 0
	for _, s := range valid {
		sb.WriteString(answer[prev:s.End])
		sb.WriteString(formatMarker(s.SourceIndices))
		prev = s.End
	}
	sb.WriteString(answer[prev:])

	return sb.String()
}

// ParseMarkers scans annotated text for citation markers and returns them in
// order of appearance, with source numbers converted to zero-based indices.
// Malformed brackets never match; markers containing a zero source number
// are treated as literal text too, since markers are 1-based.
func ParseMarkers(text string) []Marker {
	locs := markerPattern.FindAllStringIndex(text, -1)
	if locs == nil {
		return nil
	}

	markers := make([]Marker, 0, len(locs))
	for _, loc := range locs {
		token := text[loc[0]+1 : loc[1]-1]
		parts := strings.Split(token, ",")

		indices := make([]int, 0, len(parts))
		ok := true
		for _, p := range parts {
			n, err := strconv.Atoi(p)
			if err != nil || n < 1 {
				ok = false
				break
			}
			indices = append(indices, n-1)
		}
		if !ok {
			continue
		}

		markers = append(markers, Marker{
			Start:         loc[0],
			End:           loc[1],
			SourceIndices: indices,
		})
	}

	return markers
}

// StripMarkers removes all citation markers from text.
func StripMarkers(text string) string {
	return markerPattern.ReplaceAllString(text, "")
}

// Spans converts parsed markers into spans over the annotated text, each
// covering its marker token with full confidence.
func Spans(markers []Marker) []Span {
	spans := make([]Span, len(markers))
	for i, m := range markers {
		spans[i] = Span{
			Start:         m.Start,
			End:           m.End,
			SourceIndices: m.SourceIndices,
			Confidence:    1,
		}
	}
	return spans
}

// FilterValid drops spans referencing source indices outside [0, numSources).
func FilterValid(spans []Span, numSources int) []Span {
	valid := spans[:0:0]
	for _, s := range spans {
		ok := len(s.SourceIndices) > 0
		for _, idx := range s.SourceIndices {
			if idx < 0 || idx >= numSources {
				ok = false
				break
			}
		}
		if ok {
			valid = append(valid, s)
		}
	}
	return valid
}

func formatMarker(indices []int) string {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = strconv.Itoa(idx + 1)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
