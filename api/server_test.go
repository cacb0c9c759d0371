package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bububa/research-agents/research"
)

type stubFormulator struct{}

func (stubFormulator) FormulateQueries(ctx context.Context, topic string, n int) ([]research.SearchQuery, error) {
	return []research.SearchQuery{{Query: topic}}, nil
}

type stubReflector struct{}

func (stubReflector) Reflect(ctx context.Context, topic string, digests []research.Digest) (*research.Reflection, error) {
	return &research.Reflection{IsSufficient: true}, nil
}

type stubSynthesizer struct {
	text string
	err  error
}

func (s stubSynthesizer) Synthesize(ctx context.Context, topic string, digests []research.Digest) (string, error) {
	return s.text, s.err
}

type stubSearcher struct{}

func (stubSearcher) Search(ctx context.Context, query string, ordinal int) (*research.Digest, error) {
	return &research.Digest{
		Query:   query,
		Summary: "fact [q0s0]",
		Sources: []research.Source{{Title: "Doc", URL: "https://example.com/doc", Ref: "q0s0"}},
	}, nil
}

func testServer(synth stubSynthesizer) *Server {
	pipeline := research.NewPipeline(
		research.WithFormulator(stubFormulator{}),
		research.WithReflector(stubReflector{}),
		research.WithSynthesizer(synth),
		research.WithSearcher(stubSearcher{}),
		research.WithMaxRetries(0),
	)
	return NewServer(":0", pipeline, nil)
}

func doRequest(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/research", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleResearch(t *testing.T) {
	srv := testServer(stubSynthesizer{text: "answer [q0s0]"})
	rec := doRequest(t, srv, `{"message":"What is Gemini AI?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expect 200, but got %d: %s", rec.Code, rec.Body.String())
	}
	var resp ResearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Error decoding response: %v", err)
	}
	if resp.Answer != "answer [1]" {
		t.Errorf("Unexpected answer: %q", resp.Answer)
	}
	if len(resp.Sources) != 1 || resp.Sources[0].URL != "https://example.com/doc" {
		t.Errorf("Unexpected sources: %v", resp.Sources)
	}
}

func TestHandleResearchWithHistory(t *testing.T) {
	srv := testServer(stubSynthesizer{text: "follow-up answer"})
	body := `{"message":"and who made it?","history":[{"role":"user","content":"What is Gemini AI?"},{"role":"assistant","content":"A model family."}]}`
	rec := doRequest(t, srv, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expect 200, but got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleResearchBlankMessage(t *testing.T) {
	srv := testServer(stubSynthesizer{text: "unused"})
	if rec := doRequest(t, srv, `{"message":""}`); rec.Code != http.StatusBadRequest {
		t.Errorf("Expect 400 for missing message, got %d", rec.Code)
	}
	if rec := doRequest(t, srv, `{"message":"   "}`); rec.Code != http.StatusBadRequest {
		t.Errorf("Expect 400 for blank message, got %d", rec.Code)
	}
}

func TestHandleResearchFailure(t *testing.T) {
	srv := testServer(stubSynthesizer{err: research.ErrGenerationFailed})
	rec := doRequest(t, srv, `{"message":"topic"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expect 500, but got %d", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Error decoding response: %v", err)
	}
	if resp.Error == "" {
		t.Error("Expect user-visible failure notice")
	}
}

func TestHandleHealth(t *testing.T) {
	srv := testServer(stubSynthesizer{text: "unused"})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Expect 200, but got %d", rec.Code)
	}
}
