package answer

import "errors"

var (
	// ErrSearcherRequired is returned when a searcher is not provided.
	ErrSearcherRequired = errors.New("searcher required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrNoContext is returned when no relevant chunks could be
	// retrieved for a question.
	ErrNoContext = errors.New("no relevant context found")
)
