package mock

import (
	"context"
	"fmt"

	"github.com/gabrielramosasof/jurisrag/ai"
)

// MockAnswerer is a test double for ai.Answerer.
// It allows custom behavior injection via a function field.
type MockAnswerer struct {
	// AnswerFunc is called by Answer if set.
	// If nil, uses default canned behavior.
	AnswerFunc func(ctx context.Context, question string, excerpts []ai.Excerpt) (string, error)

	callCount    int
	lastQuestion string
	lastExcerpts []ai.Excerpt
}

// NewMockAnswerer creates a mock answerer with default canned behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockAnswerer() *MockAnswerer {
	return &MockAnswerer{}
}

// Answer returns a deterministic canned answer describing its inputs.
func (m *MockAnswerer) Answer(ctx context.Context, question string, excerpts []ai.Excerpt) (string, error) {
	m.callCount++
	m.lastQuestion = question
	m.lastExcerpts = excerpts

	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, question, excerpts)
	}

	return fmt.Sprintf("mock answer to %q based on %d excerpts", question, len(excerpts)), nil
}

// CallCount returns the number of times Answer was called.
func (m *MockAnswerer) CallCount() int {
	return m.callCount
}

// LastQuestion returns the question passed to the most recent Answer call.
func (m *MockAnswerer) LastQuestion() string {
	return m.lastQuestion
}

// LastExcerpts returns the excerpts passed to the most recent Answer call.
func (m *MockAnswerer) LastExcerpts() []ai.Excerpt {
	return m.lastExcerpts
}

// Reset clears the call count and any injected behavior.
func (m *MockAnswerer) Reset() {
	m.callCount = 0
	m.lastQuestion = ""
	m.lastExcerpts = nil
	m.AnswerFunc = nil
}
