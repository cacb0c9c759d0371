package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/bububa/research-agents/tools/googlesearch"
	"github.com/bububa/research-agents/tools/searxng"
	"github.com/bububa/research-agents/tools/webpage"
)

// Searcher researches one query and returns a digest of what was found. The
// ordinal is the position of the query within the turn and keys the reference
// tags of the digest's sources. A query that finds nothing yields an empty
// digest, not an error.
type Searcher interface {
	Search(ctx context.Context, query string, ordinal int) (*Digest, error)
}

// GeminiSearcher researches queries through Gemini grounded generation.
type GeminiSearcher struct {
	tool *googlesearch.GoogleSearch
}

var _ Searcher = (*GeminiSearcher)(nil)

func NewGeminiSearcher(tool *googlesearch.GoogleSearch) *GeminiSearcher {
	return &GeminiSearcher{tool: tool}
}

func (s *GeminiSearcher) Search(ctx context.Context, query string, ordinal int) (*Digest, error) {
	input := googlesearch.NewInput(query, ordinal)
	output := new(googlesearch.Output)
	if err := s.tool.Run(ctx, input, output); err != nil {
		return nil, err
	}
	digest := &Digest{
		Query:   query,
		Summary: output.Summary,
	}
	for _, src := range output.Sources {
		digest.Sources = append(digest.Sources, Source{
			Title: src.Title,
			URL:   src.URL,
			Ref:   src.Ref,
		})
	}
	return digest, nil
}

// SearxSearcher researches queries against a self-hosted SearxNG instance,
// optionally fetching the top result pages for fuller context. Each result
// snippet becomes a summary paragraph tagged with its reference marker.
type SearxSearcher struct {
	search     *searxng.SearxngSearch
	fetcher    *webpage.Fetcher
	fetchPages int
}

var _ Searcher = (*SearxSearcher)(nil)

// NewSearxSearcher returns a searcher over the given SearxNG tool. When
// fetcher is non-nil the first fetchPages result pages are downloaded and
// their content appended to the digest.
func NewSearxSearcher(search *searxng.SearxngSearch, fetcher *webpage.Fetcher, fetchPages int) *SearxSearcher {
	return &SearxSearcher{
		search:     search,
		fetcher:    fetcher,
		fetchPages: fetchPages,
	}
}

func (s *SearxSearcher) Search(ctx context.Context, query string, ordinal int) (*Digest, error) {
	input := searxng.NewInput(searxng.GeneralCategory, query)
	output := new(searxng.Output)
	if err := s.search.Run(ctx, input, output); err != nil {
		return nil, err
	}
	digest := &Digest{Query: query}
	var parts []string
	for idx, item := range output.Results {
		ref := googlesearch.RefTag(ordinal, idx)
		digest.Sources = append(digest.Sources, Source{
			Title: item.Title,
			URL:   item.URL,
			Ref:   ref,
		})
		snippet := strings.TrimSpace(item.Content)
		if snippet == "" {
			snippet = item.Title
		}
		parts = append(parts, fmt.Sprintf("%s [%s]", snippet, ref))
		if s.fetcher != nil && idx < s.fetchPages {
			if content := s.fetchPage(ctx, item.URL); content != "" {
				parts = append(parts, fmt.Sprintf("%s [%s]", content, ref))
			}
		}
	}
	digest.Summary = strings.Join(parts, "\n\n")
	return digest, nil
}

// fetchPage downloads one result page. Fetch failures degrade to the snippet
// alone rather than failing the whole query.
func (s *SearxSearcher) fetchPage(ctx context.Context, link string) string {
	input := webpage.NewInput(link, false)
	output := new(webpage.Output)
	if err := s.fetcher.Run(ctx, input, output); err != nil {
		return ""
	}
	return strings.TrimSpace(output.Content)
}
