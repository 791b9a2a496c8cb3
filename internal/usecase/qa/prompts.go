package qa

import "github.com/tmc/langchaingo/prompts"

var answerPrompt = prompts.NewPromptTemplate(`
You are an internal knowledge assistant.

Rules:
- Answer ONLY using the provided context.
- Do NOT use external knowledge.
- Do NOT guess or hallucinate.

If the exact answer is explicitly stated:
- Answer directly and concisely.

If the exact answer is NOT explicitly stated:
- Explain what related information IS present in the context.
- You may aggregate, list, or summarize information from the context.
- Clearly state uncertainty when needed.

Allowed:
- Listing names, concepts, topics, or sections
- Aggregating information across chunks
- Explaining absence of information

If the context contains no relevant information, reply exactly:
"{{.refusal}}"

Context:
{{.context}}

Question:
{{.question}}

Answer:
`, []string{"refusal", "context", "question"})

var summaryPrompt = prompts.NewPromptTemplate(`
You are an internal document summarization assistant.

Rules:
- Summarize ONLY using the provided context.
- Do NOT add external knowledge.
- Do NOT guess or hallucinate.

Produce a concise, high-level summary covering:
- Main topic
- Key ideas
- Important conclusions (if any)

Context:
{{.context}}

Summary:
`, []string{"context"})

type promptData struct {
	Context  string
	Question string
	Refusal  string
}

func render(p prompts.PromptTemplate, data promptData) (string, error) {
	return p.Format(map[string]any{
		"context":  data.Context,
		"question": data.Question,
		"refusal":  data.Refusal,
	})
}
