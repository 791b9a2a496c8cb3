// Package docqa embeds the grounded question answering pipeline in a Go
// program without running the HTTP server.
//
// Answers come only from the indexed documents. When the evidence is weak
// the client returns the refusal text with no citations.
//
//	client, _ := docqa.New(
//	    docqa.WithDirs("data/raw_docs", "data/index"),
//	    docqa.WithOpenAIEmbedding(os.Getenv("OPENAI_API_KEY"), "", "text-embedding-3-small"),
//	    docqa.WithOpenAIGeneration(os.Getenv("GROQ_API_KEY"), "https://api.groq.com/openai/v1", "llama-3.1-8b-instant"),
//	)
//	_, _ = client.Ingest(ctx, "")
//	ans, _ := client.Ask(ctx, "How many leave days do employees get?", nil, "")
//	fmt.Println(ans.Answer, ans.Citations, ans.Confidence)
//
// Any OpenAI-compatible endpoint works. Custom providers plug in through
// WithEmbedder and WithGenerator.
package docqa
