package googlesearch

import (
	"fmt"
	"sort"
	"strings"

	genai "google.golang.org/genai"
)

// RefTag builds the stable reference tag for source idx of query ord.
func RefTag(ord, idx int) string {
	return fmt.Sprintf("q%ds%d", ord, idx)
}

// annotate inserts [ref] markers into the summary text at the grounding
// support boundaries and maps grounding chunks to sources. Segment indexes
// are byte offsets into the text, so markers are inserted back to front.
func annotate(text string, md *genai.GroundingMetadata, ord int) (string, []Source) {
	if md == nil || len(md.GroundingChunks) == 0 {
		return text, nil
	}
	sources := make([]Source, 0, len(md.GroundingChunks))
	refs := make(map[int]string, len(md.GroundingChunks))
	for idx, chunk := range md.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		ref := RefTag(ord, idx)
		refs[idx] = ref
		sources = append(sources, Source{
			Title: chunk.Web.Title,
			URL:   chunk.Web.URI,
			Ref:   ref,
		})
	}
	supports := make([]*genai.GroundingSupport, 0, len(md.GroundingSupports))
	for _, support := range md.GroundingSupports {
		if support == nil || support.Segment == nil {
			continue
		}
		if support.Segment.EndIndex <= support.Segment.StartIndex {
			continue
		}
		supports = append(supports, support)
	}
	sort.Slice(supports, func(i, j int) bool {
		if supports[i].Segment.EndIndex != supports[j].Segment.EndIndex {
			return supports[i].Segment.EndIndex > supports[j].Segment.EndIndex
		}
		return supports[i].Segment.StartIndex > supports[j].Segment.StartIndex
	})
	for _, support := range supports {
		end := int(support.Segment.EndIndex)
		if end > len(text) {
			end = len(text)
		}
		var marker strings.Builder
		for _, ind := range support.GroundingChunkIndices {
			ref, ok := refs[int(ind)]
			if !ok {
				continue
			}
			marker.WriteString(" [")
			marker.WriteString(ref)
			marker.WriteString("]")
		}
		if marker.Len() == 0 {
			continue
		}
		text = text[:end] + marker.String() + text[end:]
	}
	return text, sources
}
