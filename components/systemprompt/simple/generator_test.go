package simple

import (
	"strings"
	"testing"
)

type fakeProvider struct {
	title string
	info  string
}

func (p fakeProvider) Title() string { return p.title }
func (p fakeProvider) Info() string  { return p.info }

func TestGenerate(t *testing.T) {
	gen := New("You answer questions about the weather.")
	if got := gen.Generate(); got != "You answer questions about the weather." {
		t.Errorf("Unexpected prompt: %q", got)
	}
}

func TestGenerateWithContextProviders(t *testing.T) {
	gen := New("Base instructions.", WithContextProviders(fakeProvider{title: "NOTES", info: "remember this"}))
	prompt := gen.Generate()
	if !strings.Contains(prompt, "## NOTES") || !strings.Contains(prompt, "remember this") {
		t.Errorf("Expect provider info in prompt, got:\n%s", prompt)
	}
}

func TestContextProviderLookup(t *testing.T) {
	gen := New("Base.", WithContextProviders(fakeProvider{title: "NOTES", info: "x"}))
	if _, err := gen.ContextProvider("NOTES"); err != nil {
		t.Errorf("Expect provider found, got %v", err)
	}
	if _, err := gen.ContextProvider("MISSING"); err == nil {
		t.Error("Expect error for unknown provider")
	}
	gen.RemoveContextProviders("NOTES")
	if _, err := gen.ContextProvider("NOTES"); err == nil {
		t.Error("Expect provider removed")
	}
}
