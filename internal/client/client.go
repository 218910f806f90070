// Package client defines the strategy interface for LLM CLI backends and
// provides concrete implementations for each supported client.
package client

import (
	"context"
	"fmt"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("tamiz.client")

// Model tier constants used across all clients.
const (
	ModelTierHigh   = "high"
	ModelTierMedium = "medium"
	ModelTierLow    = "low"
)

// RunOptions holds all parameters for a single client invocation.
type RunOptions struct {
	Ctx       context.Context // cancellation context; nil means no cancellation
	NativeSID string          // client-specific session ID for continuity
	Prompt    string
	CWD       string
	ModelTier string // "high", "medium", "low" — mapped per client
}

func (o RunOptions) context() context.Context {
	if o.Ctx != nil {
		return o.Ctx
	}
	return context.Background()
}

// Client is the strategy interface every LLM backend must implement.
type Client interface {
	// Name returns the client identifier (e.g. "gemini", "claude-code").
	Name() string

	// Run executes a prompt and streams results.
	// onChunk is called with each text chunk as it arrives from the model.
	// onSessionID is called when the client provides its native session ID.
	Run(opts RunOptions, onChunk func(string), onSessionID func(string)) (fullResponse string, err error)

	// SetModels configures the tier-to-model mapping for this client.
	SetModels(models map[string]string)
}

// registry maps client names to constructor functions.
var registry = map[string]func(binPath string) Client{}

// Register adds a client constructor to the global registry.
func Register(name string, ctor func(binPath string) Client) {
	registry[name] = ctor
}

// NewClient creates a Client by name using the global registry.
func NewClient(name, binPath string) (Client, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown client: %q", name)
	}
	return ctor(binPath), nil
}

// RegisteredClients returns the names of all registered clients.
func RegisteredClients() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	return names
}

func truncatePrompt(prompt string) string {
	if len(prompt) > 100 {
		return prompt[:100] + "..."
	}
	return prompt
}
