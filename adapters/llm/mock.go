package llm

import (
	"context"
	"fmt"

	"github.com/avoronkov/personabot/domain"
)

// Mock is a canned completer for tests and local runs without a backend.
type Mock struct {
	// Reply overrides the default echo when non-empty.
	Reply string
	// Err makes every call fail when set.
	Err error
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Complete(_ context.Context, req domain.CompletionRequest) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if m.Reply != "" {
		return m.Reply, nil
	}
	last := req.Messages[len(req.Messages)-1]
	return fmt.Sprintf("(mock) you said: %s", last.Content), nil
}
