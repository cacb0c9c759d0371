package research

import (
	"strings"
	"testing"
)

func TestFinalizeRenumbersMarkers(t *testing.T) {
	digests := []Digest{
		{
			Query:   "first",
			Summary: "alpha [q0s0]",
			Sources: []Source{{Title: "Alpha", URL: "https://example.com/alpha", Ref: "q0s0"}},
		},
		{
			Query:   "second",
			Summary: "beta [q1s0]",
			Sources: []Source{{Title: "Beta", URL: "https://example.com/beta", Ref: "q1s0"}},
		},
	}
	answer := Finalize("Beta fact [q1s0]. Alpha fact [q0s0]. Beta again [q1s0].", digests)
	if got := answer.Text; got != "Beta fact [1]. Alpha fact [2]. Beta again [1]." {
		t.Errorf("Unexpected renumbered text: %q", got)
	}
	if len(answer.Sources) != 2 {
		t.Fatalf("Expect 2 sources, but got %d", len(answer.Sources))
	}
	if answer.Sources[0].Title != "Beta" || answer.Sources[1].Title != "Alpha" {
		t.Errorf("Expect sources ordered by first citation, got %v", answer.Sources)
	}
}

func TestFinalizeStripsDanglingMarkers(t *testing.T) {
	answer := Finalize("Claim with no backing [q9s9].", nil)
	if strings.Contains(answer.Text, "[") {
		t.Errorf("Expect unresolved marker removed, got %q", answer.Text)
	}
	if answer.Text != "Claim with no backing." {
		t.Errorf("Expect clean text, got %q", answer.Text)
	}
	if len(answer.Sources) != 0 {
		t.Errorf("Expect no sources, but got %d", len(answer.Sources))
	}
}

func TestFinalizeDropsUncitedSources(t *testing.T) {
	digests := []Digest{
		{
			Query:   "first",
			Summary: "alpha [q0s0] beta [q0s1]",
			Sources: []Source{
				{Title: "Alpha", URL: "https://example.com/alpha", Ref: "q0s0"},
				{Title: "Beta", URL: "https://example.com/beta", Ref: "q0s1"},
			},
		},
	}
	answer := Finalize("Only alpha is used [q0s0].", digests)
	if len(answer.Sources) != 1 {
		t.Fatalf("Expect 1 source, but got %d", len(answer.Sources))
	}
	if answer.Sources[0].Title != "Alpha" {
		t.Errorf("Expect Alpha kept, got %s", answer.Sources[0].Title)
	}
}

func TestFinalizeDeduplicatesByURL(t *testing.T) {
	digests := []Digest{
		{
			Query:   "first",
			Summary: "",
			Sources: []Source{
				{Title: "Same", URL: "https://example.com/same", Ref: "q0s0"},
				{Title: "Same", URL: "https://example.com/same", Ref: "q0s1"},
			},
		},
	}
	answer := Finalize("One [q0s0] and two [q0s1].", digests)
	if answer.Text != "One [1] and two [1]." {
		t.Errorf("Expect both markers share ordinal 1, got %q", answer.Text)
	}
	if len(answer.Sources) != 1 {
		t.Errorf("Expect deduplicated source list, got %d", len(answer.Sources))
	}
}

func TestFinalizeWithoutMarkers(t *testing.T) {
	answer := Finalize("Plain answer with no citations.", nil)
	if answer.Text != "Plain answer with no citations." {
		t.Errorf("Expect text untouched, got %q", answer.Text)
	}
	if len(answer.Sources) != 0 {
		t.Errorf("Expect no sources, but got %d", len(answer.Sources))
	}
}
