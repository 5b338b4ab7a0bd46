package llm

import "context"

// Provider defines the interface for LLM providers.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// CompleteStream behaves like Complete but invokes onDelta for each
	// incremental chunk before returning the accumulated response. The
	// stream is finite and not restartable.
	CompleteStream(ctx context.Context, req CompletionRequest, onDelta StreamFunc) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}
