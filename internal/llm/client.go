// Package llm abstracts the language model behind a small interface so the
// pipeline can be exercised with a deterministic stub in tests and the
// backend can be swapped without touching callers.
package llm

import "context"

// Client is the injected translator/summarizer backend.
type Client interface {
	// Complete sends one system+user prompt pair and returns the model's
	// reply. Implementations must honor ctx cancellation.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
