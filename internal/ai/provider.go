package ai

import "context"

type Message struct {
	Role    string
	Content string
}

type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// StatusReporter is an optional interface. Providers may expose call state for
// the UI (spinner, disabled input).
type StatusReporter interface {
	Loading() bool
	LastError() string
}
