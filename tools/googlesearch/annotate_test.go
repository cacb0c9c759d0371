package googlesearch

import (
	"strings"
	"testing"

	genai "google.golang.org/genai"
)

func metadata() *genai.GroundingMetadata {
	return &genai.GroundingMetadata{
		GroundingChunks: []*genai.GroundingChunk{
			{Web: &genai.GroundingChunkWeb{URI: "https://example.com/one", Title: "Doc One"}},
			{Web: &genai.GroundingChunkWeb{URI: "https://example.com/two", Title: "Doc Two"}},
		},
		GroundingSupports: []*genai.GroundingSupport{
			{
				Segment:               &genai.Segment{StartIndex: 0, EndIndex: 11},
				GroundingChunkIndices: []int32{0},
			},
			{
				Segment:               &genai.Segment{StartIndex: 13, EndIndex: 25},
				GroundingChunkIndices: []int32{1},
			},
		},
	}
}

func TestAnnotateInsertsMarkers(t *testing.T) {
	text := "First claim. Second claim."
	summary, sources := annotate(text, metadata(), 2)
	if len(sources) != 2 {
		t.Fatalf("Expect 2 sources, but got %d", len(sources))
	}
	if sources[0].Ref != "q2s0" || sources[1].Ref != "q2s1" {
		t.Errorf("Unexpected source refs: %s, %s", sources[0].Ref, sources[1].Ref)
	}
	if !strings.Contains(summary, "First claim [q2s0].") {
		t.Errorf("Expect first marker after first claim, got %q", summary)
	}
	if !strings.Contains(summary, "Second claim [q2s1].") {
		t.Errorf("Expect second marker after second claim, got %q", summary)
	}
}

func TestAnnotateWithoutMetadata(t *testing.T) {
	text := "No grounding here."
	summary, sources := annotate(text, nil, 0)
	if summary != text {
		t.Errorf("Expect text untouched, but got %q", summary)
	}
	if sources != nil {
		t.Errorf("Expect no sources, but got %d", len(sources))
	}
}

func TestAnnotateClipsOutOfRangeSegment(t *testing.T) {
	md := metadata()
	md.GroundingSupports = []*genai.GroundingSupport{
		{
			Segment:               &genai.Segment{StartIndex: 0, EndIndex: 9999},
			GroundingChunkIndices: []int32{0},
		},
	}
	text := "Short text."
	summary, _ := annotate(text, md, 0)
	if !strings.HasSuffix(summary, "Short text. [q0s0]") {
		t.Errorf("Expect marker appended at clipped end, got %q", summary)
	}
}

func TestAnnotateSkipsEmptySegments(t *testing.T) {
	md := metadata()
	md.GroundingSupports = append(md.GroundingSupports, &genai.GroundingSupport{
		Segment:               &genai.Segment{StartIndex: 5, EndIndex: 5},
		GroundingChunkIndices: []int32{0},
	})
	summary, _ := annotate("First claim. Second claim.", md, 0)
	if strings.Count(summary, "[q0s0]") != 1 {
		t.Errorf("Expect empty segment skipped, got %q", summary)
	}
}
