package research

import (
	"strings"
	"testing"
)

func TestStagePrompts(t *testing.T) {
	queryPrompt := queryPromptGenerator().Generate()
	if !strings.Contains(queryPrompt, "web search queries") {
		t.Errorf("Unexpected query prompt:\n%s", queryPrompt)
	}
	reflectionPrompt := reflectionPromptGenerator().Generate()
	if !strings.Contains(reflectionPrompt, "knowledge gap") {
		t.Errorf("Unexpected reflection prompt:\n%s", reflectionPrompt)
	}
	answerPrompt := answerPromptGenerator().Generate()
	if !strings.Contains(answerPrompt, "reference markers") {
		t.Errorf("Unexpected answer prompt:\n%s", answerPrompt)
	}
	for _, prompt := range []string{queryPrompt, reflectionPrompt, answerPrompt} {
		if !strings.Contains(prompt, "## CURRENT DATE") {
			t.Errorf("Expect current date context in prompt:\n%s", prompt)
		}
	}
}
