package citation

import (
	"reflect"
	"strings"
	"testing"
)

func TestMapCitationsAlignsSentences(t *testing.T) {
	answer := "The gopher mascot represents golang branding. Bananas ripen faster inside paper bags."
	sources := []string{
		"The gopher mascot represents golang branding and appears on merchandise",
		"Compilers translate source programs into machine instructions",
	}

	spans := MapCitations(answer, sources)
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d: %+v", len(spans), spans)
	}

	span := spans[0]
	if !reflect.DeepEqual(span.SourceIndices, []int{0}) {
		t.Errorf("expected source [0], got %v", span.SourceIndices)
	}

	// The marker belongs before the sentence's terminal period.
	wantEnd := strings.Index(answer, ".")
	if span.End != wantEnd {
		t.Errorf("expected end %d (before period), got %d", wantEnd, span.End)
	}
	if span.Start != 0 {
		t.Errorf("expected start 0, got %d", span.Start)
	}
	if span.Confidence < minOverlap {
		t.Errorf("confidence %f below threshold", span.Confidence)
	}
}

func TestMapCitationsMultipleSentences(t *testing.T) {
	answer := "Retrieval ranks chunks by embedding similarity. Compaction replaces older turns with a summary."
	sources := []string{
		"Retrieval ranks page chunks by embedding similarity against the question",
		"Compaction replaces older conversation turns with a single summary message",
	}

	spans := MapCitations(answer, sources)
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d: %+v", len(spans), spans)
	}
	if !reflect.DeepEqual(spans[0].SourceIndices, []int{0}) {
		t.Errorf("sentence 1: expected source [0], got %v", spans[0].SourceIndices)
	}
	if !reflect.DeepEqual(spans[1].SourceIndices, []int{1}) {
		t.Errorf("sentence 2: expected source [1], got %v", spans[1].SourceIndices)
	}
	if spans[1].Start <= spans[0].End {
		t.Errorf("spans out of order: %+v", spans)
	}
}

func TestMapCitationsCapsSourcesPerSpan(t *testing.T) {
	answer := "Semantic chunk retrieval scoring."
	src := "semantic chunk retrieval scoring explained in detail"
	sources := []string{src, src, src, src, src}

	spans := MapCitations(answer, sources)
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if len(spans[0].SourceIndices) != maxSourcesPerSpan {
		t.Errorf("expected at most %d sources, got %v", maxSourcesPerSpan, spans[0].SourceIndices)
	}
}

func TestMapCitationsNoSources(t *testing.T) {
	if spans := MapCitations("Some answer.", nil); spans != nil {
		t.Errorf("expected nil spans, got %v", spans)
	}
	if spans := MapCitations("", []string{"source"}); spans != nil {
		t.Errorf("expected nil spans for empty answer, got %v", spans)
	}
}

func TestMapCitationsThenInsert(t *testing.T) {
	answer := "Vector search retrieves matching chunks quickly."
	sources := []string{"vector search retrieves matching chunks from the page index quickly"}

	annotated := InsertMarkers(answer, MapCitations(answer, sources))
	want := "Vector search retrieves matching chunks quickly[1]."
	if annotated != want {
		t.Errorf("expected %q, got %q", want, annotated)
	}
}

func TestSplitSentencesNewlineBoundary(t *testing.T) {
	text := "first line\nsecond line."
	sents := splitSentences(text)
	if len(sents) != 2 {
		t.Fatalf("expected 2 sentences, got %d: %+v", len(sents), sents)
	}
	if got := text[sents[0].start:sents[0].end]; got != "first line" {
		t.Errorf("sentence 1: got %q", got)
	}
	if got := text[sents[1].start:sents[1].end]; got != "second line" {
		t.Errorf("sentence 2: got %q", got)
	}
}

func TestSplitSentencesAbbreviationNotSplit(t *testing.T) {
	// A period not followed by a space or newline does not end a sentence.
	text := "version 1.2 shipped today"
	sents := splitSentences(text)
	if len(sents) != 1 {
		t.Fatalf("expected 1 sentence, got %d: %+v", len(sents), sents)
	}
	if got := text[sents[0].start:sents[0].end]; got != text {
		t.Errorf("got %q", got)
	}
}
