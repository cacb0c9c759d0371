package research

import (
	"fmt"
	"regexp"
)

// Source is a web source backing part of an answer.
type Source struct {
	// Title is the title of the source page.
	Title string `json:"title,omitempty"`
	// URL is the address of the source page.
	URL string `json:"url"`
	// Ref is the gather-time reference tag used inside summaries.
	Ref string `json:"-"`
}

// Digest is the outcome of researching one query: a summary carrying inline
// reference markers plus the sources those markers resolve to.
type Digest struct {
	// Query is the search query that produced this digest.
	Query string `json:"query"`
	// Summary is the research summary with inline reference markers.
	Summary string `json:"summary"`
	// Sources are the web sources backing the summary.
	Sources []Source `json:"sources,omitempty"`
}

// Answer is the final result of a research turn. Markers in Text are ordinals
// into Sources, one-based.
type Answer struct {
	// Text is the answer text with inline [n] citation markers.
	Text string `json:"text"`
	// Sources are the cited sources in order of first citation.
	Sources []Source `json:"sources,omitempty"`
}

// markerRe matches gather-time reference tags, with the space the annotator
// inserted in front of them when present.
var markerRe = regexp.MustCompile(` ?\[(q\d+s\d+)\]`)

// Finalize remaps the gather-time reference tags in text to one-based ordinal
// citation markers. Sources are numbered in order of first citation and
// deduplicated by URL. Tags that resolve to no known source are removed, and
// sources never cited are dropped, so every marker in the returned text has a
// matching source entry and every source entry is cited at least once.
func Finalize(text string, digests []Digest) *Answer {
	byRef := make(map[string]Source)
	for _, d := range digests {
		for _, src := range d.Sources {
			if _, ok := byRef[src.Ref]; !ok {
				byRef[src.Ref] = src
			}
		}
	}
	var (
		ordered []Source
		byURL   = make(map[string]int)
	)
	out := markerRe.ReplaceAllStringFunc(text, func(m string) string {
		ref := markerRe.FindStringSubmatch(m)[1]
		src, ok := byRef[ref]
		if !ok {
			return ""
		}
		n, cited := byURL[src.URL]
		if !cited {
			ordered = append(ordered, src)
			n = len(ordered)
			byURL[src.URL] = n
		}
		return fmt.Sprintf(" [%d]", n)
	})
	return &Answer{
		Text:    out,
		Sources: ordered,
	}
}
