package rewrite

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/domain"
)

type mockGenerator struct {
	text    string
	err     error
	prompts []string
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (domain.GenerationResult, error) {
	m.prompts = append(m.prompts, prompt)
	return domain.GenerationResult{Text: m.text}, m.err
}

func turns(n int) []domain.ConversationTurn {
	out := make([]domain.ConversationTurn, n)
	for i := range out {
		out[i] = domain.ConversationTurn{
			Question: "question " + string(rune('A'+i)),
			Answer:   "answer " + string(rune('A'+i)),
		}
	}
	return out
}

func TestRewrite_EmptyHistoryReturnsTrimmedQuestion(t *testing.T) {
	gen := &mockGenerator{}
	svc := New(gen, 3, zap.NewNop())

	got, err := svc.Rewrite(context.Background(), nil, "  What is the leave policy?  ")
	require.NoError(t, err)
	assert.Equal(t, "What is the leave policy?", got)
	assert.Empty(t, gen.prompts, "no generation call without history")
}

func TestRewrite_UsesGenerator(t *testing.T) {
	gen := &mockGenerator{text: "  How many vacation days do new employees get?\n"}
	svc := New(gen, 3, zap.NewNop())

	history := []domain.ConversationTurn{{Question: "What is the vacation policy?", Answer: "20 days per year."}}
	got, err := svc.Rewrite(context.Background(), history, "And for new hires?")
	require.NoError(t, err)
	assert.Equal(t, "How many vacation days do new employees get?", got)

	require.Len(t, gen.prompts, 1)
	p := gen.prompts[0]
	assert.Contains(t, p, "Rewrite the follow-up question so it is fully self-contained.")
	assert.Contains(t, p, "Q: What is the vacation policy?\nA: 20 days per year.\n")
	assert.Contains(t, p, "Follow-up question:\nAnd for new hires?")
	assert.True(t, strings.HasSuffix(p, "Standalone question:\n"))
}

func TestRewrite_OnlyLastThreeTurns(t *testing.T) {
	gen := &mockGenerator{text: "standalone"}
	svc := New(gen, 3, zap.NewNop())

	_, err := svc.Rewrite(context.Background(), turns(5), "follow up")
	require.NoError(t, err)

	p := gen.prompts[0]
	assert.NotContains(t, p, "question A")
	assert.NotContains(t, p, "question B")
	assert.Contains(t, p, "question C")
	assert.Contains(t, p, "question E")
	assert.Less(t, strings.Index(p, "question C"), strings.Index(p, "question E"), "oldest first")
}

func TestRewrite_GeneratorError(t *testing.T) {
	gen := &mockGenerator{err: domain.ErrGenerationProviderError}
	svc := New(gen, 3, zap.NewNop())

	_, err := svc.Rewrite(context.Background(), turns(1), "follow up")
	assert.True(t, errors.Is(err, domain.ErrGenerationProviderError))
}

func TestRenderPrompt_TemplateSyntaxInInputIsLiteral(t *testing.T) {
	prompt, err := renderPrompt(
		[]domain.ConversationTurn{{Question: "What is {{.history}}?", Answer: "A {{ field }}."}},
		"And {{.question}}?",
	)
	require.NoError(t, err)

	assert.Contains(t, prompt, "Q: What is {{.history}}?\nA: A {{ field }}.\n")
	assert.Contains(t, prompt, "Follow-up question:\nAnd {{.question}}?\n")
	assert.True(t, strings.HasSuffix(prompt, "Standalone question:\n"))
}
