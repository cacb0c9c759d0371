package webpage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"

	"github.com/bububa/research-agents/schema"
	"github.com/bububa/research-agents/tools"
)

// Input schema for the webpage fetch tool.
type Input struct {
	schema.Base
	// URL of the webpage to fetch.
	URL string `json:"url" jsonschema:"title=url,description=URL of the webpage to fetch." validate:"required,url"`
	// IncludeLinks Whether to preserve hyperlinks in the markdown output.
	IncludeLinks bool `json:"include_links,omitempty" jsonschema:"title=include_links,description=Whether to preserve hyperlinks in the markdown output."`
}

func NewInput(link string, includeLinks bool) *Input {
	return &Input{
		URL:          link,
		IncludeLinks: includeLinks,
	}
}

func (s Input) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// Metadata Schema for webpage metadata
type Metadata struct {
	// Title is the title of the webpage.
	Title string `json:"title,omitempty" jsonschema:"title=title,description=The title of the webpage."`
	// Description is the meta description of the webpage.
	Description string `json:"description,omitempty" jsonschema:"title=description,description=The meta description of the webpage."`
	// SiteName is the name of the website.
	SiteName string `json:"sitename,omitempty" jsonschema:"title=sitename,description=The name of the website."`
	// Domain is the domain name of the website.
	Domain string `json:"domain,omitempty" jsonschema:"title=domain,description=The domain name of the website."`
}

// Output Schema for the output of the webpage fetch tool.
type Output struct {
	schema.Base
	// Content The page content converted to markdown.
	Content string `json:"content,omitempty" jsonschema:"title=content,description=The page content converted to markdown."`
	// Metadata is metadata about the fetched webpage.
	Metadata *Metadata `json:"metadata,omitempty" jsonschema:"title=metadata,description=Metadata about the webpage."`
}

func (s Output) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

type Config struct {
	tools.Config
	// userAgent User agent string to use for requests.
	userAgent string
	// timeout Timeout in seconds for HTTP requests
	timeout int
	// maxContentLength Maximum markdown length in bytes to keep.
	maxContentLength int
	httpClient       *http.Client
}

// Fetcher downloads a webpage and converts its main content to markdown so
// it can be fed to a language model as supporting material.
type Fetcher struct {
	Config
}

var _ tools.Tool[Input, Output] = (*Fetcher)(nil)

func New(opts ...Option) *Fetcher {
	ret := new(Fetcher)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle("WebpageFetchTool")
	}
	if ret.userAgent == "" {
		ret.userAgent = DefaultUserAgent
	}
	if ret.timeout == 0 {
		ret.timeout = 30
	}
	if ret.maxContentLength == 0 {
		ret.maxContentLength = 100_000
	}
	if ret.httpClient == nil {
		ret.httpClient = &http.Client{
			Timeout: time.Second * time.Duration(ret.timeout),
		}
	}
	return ret
}

func (t *Fetcher) Run(ctx context.Context, input *Input, output *Output) error {
	parsedURL, err := url.ParseRequestURI(input.URL)
	if err != nil {
		return err
	}
	doc, err := t.fetch(ctx, input.URL)
	if err != nil {
		return err
	}
	mainContent := t.extractMainContent(doc)
	markdown, err := htmltomarkdown.ConvertString(
		mainContent,
		converter.WithDomain(fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)),
	)
	if err != nil {
		return err
	}
	markdown = t.cleanMarkdownContent(markdown)
	if !input.IncludeLinks {
		markdown = stripLinks(markdown)
	}
	if len(markdown) > t.maxContentLength {
		markdown = truncate(markdown, t.maxContentLength)
	}
	meta := new(Metadata)
	meta.Domain = parsedURL.Host
	t.extractMetadata(doc, meta)
	output.Content = markdown
	output.Metadata = meta
	return nil
}

func (t *Fetcher) fetch(ctx context.Context, link string) (*goquery.Document, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("User-Agent", t.userAgent)
	httpReq.Header.Set("Accept", DefaultAccept)
	httpReq.Header.Set("Connection", "keep-alive")
	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("non-200 response fetching %s: %d", link, httpResp.StatusCode)
	}
	return goquery.NewDocumentFromReader(httpResp.Body)
}

// Extracts metadata from the webpage
func (t *Fetcher) extractMetadata(doc *goquery.Document, meta *Metadata) {
	meta.Title = strings.TrimSpace(doc.Find("head title").Text())
	meta.Description, _ = doc.Find("meta[name='description']").Attr("content")
	meta.SiteName, _ = doc.Find("meta[property='og:site_name']").Attr("content")
}

// extractMainContent extracts the main content from the webpage using custom heuristics
func (t *Fetcher) extractMainContent(doc *goquery.Document) string {
	for _, tag := range []string{"script", "style", "nav", "header", "footer", "aside"} {
		doc.Find(tag).Remove()
	}
	contentCandidates := []string{
		"main",
		"article",
		"#content, #main",
		".content, .main",
		"body",
	}
	var mainContent string
	for _, selector := range contentCandidates {
		sel := doc.Find(selector)
		if sel.Length() > 0 {
			if txt, err := sel.Html(); err == nil {
				mainContent = txt
				break
			}
		}
	}
	if mainContent == "" {
		mainContent, _ = doc.Html()
	}
	return mainContent
}

var (
	blankLinesRe = regexp.MustCompile(`\r?\n{2,}`)
	mdLinkRe     = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
)

// Cleans up the markdown content by removing excessive whitespace and normalizing formatting
func (t *Fetcher) cleanMarkdownContent(content string) string {
	content = blankLinesRe.ReplaceAllString(content, "\n\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	content = strings.Join(lines, "\n")
	return strings.TrimSpace(content) + "\n"
}

// stripLinks replaces markdown links with their anchor text.
func stripLinks(content string) string {
	return mdLinkRe.ReplaceAllString(content, "$1")
}

// truncate cuts content to at most n bytes without splitting a UTF-8 rune.
func truncate(content string, n int) string {
	if len(content) <= n {
		return content
	}
	for n > 0 && !utf8.RuneStart(content[n]) {
		n--
	}
	return content[:n]
}
