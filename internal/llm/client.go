// Package llm wraps the external language-model collaborator used for
// claim classification, semantic normalization, evidence assessment, and
// relationship classification. Every caller must tolerate the collaborator
// being absent or returning garbage.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"trustlens/internal/model"
)

// ErrUnavailable is returned when no collaborator client is configured or
// the configured one cannot be reached.
var ErrUnavailable = errors.New("llm: collaborator unavailable")

// Request is a single bounded completion request
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Client is the minimal surface the pipeline needs from a model provider
type Client interface {
	// Name returns the provider name
	Name() string

	// Complete sends a prompt and returns the raw text response
	Complete(ctx context.Context, req Request) (string, error)

	// IsAvailable checks whether the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// NewClient creates a client from configuration. An empty provider returns
// (nil, nil): the collaborator is disabled and callers degrade to
// heuristics.
func NewClient(cfg model.LLMConfig) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIClient(cfg)

	case "ollama":
		return NewOllamaClient(cfg)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown llm provider: %s (supported: openai, ollama)", cfg.Provider)
	}
}
