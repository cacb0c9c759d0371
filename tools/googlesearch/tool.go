package googlesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	genai "google.golang.org/genai"

	"github.com/bububa/research-agents/schema"
	"github.com/bububa/research-agents/tools"
)

// searchTemplate instructs the model to research one query with the Google Search tool.
const searchTemplate = `Conduct a targeted Google Search to gather the most recent, credible information on "%s" and synthesize it into a verifiable text artifact.

Instructions:
- The current date is %s.
- Only include information found in the search results, don't make up any information.
- The output should be a well-written summary or report based on your search findings.
- Track the sources used for each specific piece of information.`

// Input schema for a single grounded web research call.
type Input struct {
	schema.Base
	// Query is the web search query to research.
	Query string `json:"query" jsonschema:"title=query,description=The web search query to research." validate:"required"`
	// Ordinal is the position of the query within the research turn, used to build stable source reference tags.
	Ordinal int `json:"ordinal,omitempty" jsonschema:"title=ordinal,description=Position of the query within the research turn."`
}

func NewInput(query string, ordinal int) *Input {
	return &Input{
		Query:   query,
		Ordinal: ordinal,
	}
}

func (s Input) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// Source is a web source backing part of the research summary.
type Source struct {
	// Title is the title of the source page.
	Title string `json:"title,omitempty"`
	// URL is the address of the source page.
	URL string `json:"url"`
	// Ref is the stable gather-time reference tag inserted into the summary text.
	Ref string `json:"ref"`
}

// Output schema for the GoogleSearch research tool.
type Output struct {
	schema.Base
	// Summary is the model-written research summary with inline [ref] markers.
	Summary string `json:"summary,omitempty" jsonschema:"title=summary,description=Research summary with inline reference markers."`
	// Sources are the web sources backing the summary.
	Sources []Source `json:"sources,omitempty" jsonschema:"title=sources,description=Web sources backing the summary."`
}

func (s Output) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

type Config struct {
	tools.Config
	apiKey      string
	model       string
	temperature float32
	client      *genai.Client
}

// GoogleSearch researches one query through Gemini grounded generation with the
// built-in Google Search tool. It does not parse HTML or manage search plumbing
// itself; grounding metadata carries the source titles and URLs.
type GoogleSearch struct {
	Config
}

var _ tools.Tool[Input, Output] = (*GoogleSearch)(nil)

// New returns a new GoogleSearch tool. A client is built from the API key
// unless one is injected through WithClient.
func New(ctx context.Context, opts ...Option) (*GoogleSearch, error) {
	ret := new(GoogleSearch)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle("GoogleSearchTool")
	}
	if ret.model == "" {
		ret.model = "gemini-2.0-flash"
	}
	if ret.client == nil {
		clt, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  ret.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		ret.client = clt
	}
	return ret, nil
}

// Run executes one grounded research call synchronously.
// An empty candidate list yields an empty output, not an error.
func (t *GoogleSearch) Run(ctx context.Context, input *Input, output *Output) error {
	prompt := fmt.Sprintf(searchTemplate, input.Query, currentDate())
	resp, err := t.client.Models.GenerateContent(ctx, t.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(t.temperature),
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	})
	if err != nil {
		return fmt.Errorf("grounded search for %q failed: %w", input.Query, err)
	}
	if len(resp.Candidates) == 0 {
		return nil
	}
	summary, sources := annotate(resp.Text(), resp.Candidates[0].GroundingMetadata, input.Ordinal)
	output.Summary = summary
	output.Sources = sources
	return nil
}

func currentDate() string {
	return time.Now().Format("January 2, 2006")
}
