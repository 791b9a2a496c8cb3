package rewrite

import (
	"strings"

	"github.com/tmc/langchaingo/prompts"

	"github.com/kailas-cloud/docqa/internal/domain"
)

var rewritePrompt = prompts.NewPromptTemplate(`
Rewrite the follow-up question so it is fully self-contained.

Conversation:
{{.history}}

Follow-up question:
{{.question}}

Standalone question:
`, []string{"history", "question"})

func renderPrompt(turns []domain.ConversationTurn, question string) (string, error) {
	var history strings.Builder
	for _, t := range turns {
		history.WriteString("Q: " + t.Question + "\nA: " + t.Answer + "\n")
	}
	return rewritePrompt.Format(map[string]any{
		"history":  history.String(),
		"question": question,
	})
}
