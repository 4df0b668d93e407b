// Package llm abstracts the generative backend behind a small Client
// interface so the pipeline can swap providers by configuration and tests
// can substitute a stub. The two shipped backends (OpenAI, Groq) both ride
// the official openai-go SDK; Groq exposes an OpenAI-compatible endpoint.
//
// The client performs exactly one outbound call per Generate and never
// retries internally: attempt counting and backoff live in the orchestrator
// so they stay centralized and observable.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/raveheart1/pagecraft/internal/schema"
)

// Prompt is one fully rendered request to the model.
type Prompt struct {
	System string
	User   string
}

// Client sends a prompt plus a target schema to a generative backend and
// returns the raw response text. The schema is rendered into the request as
// an instruction; conformance is enforced by the caller after the fact.
type Client interface {
	// Generate performs one model call. It must respect ctx cancellation.
	Generate(ctx context.Context, p Prompt, s schema.Schema) (string, error)
	// Name identifies the backend for diagnostics.
	Name() string
}

// ErrorKind classifies provider failures for the retry policy.
type ErrorKind int

const (
	// Unavailable covers network, auth, and API failures. The environment is
	// broken, not the content: never retried.
	Unavailable ErrorKind = iota
	// Timeout covers context deadline expiry during a call. Retried up to the
	// configured limit.
	Timeout
)

// String returns the taxonomy name for the error kind.
func (k ErrorKind) String() string {
	switch k {
	case Timeout:
		return "ProviderTimeout"
	default:
		return "ProviderUnavailable"
	}
}

// ProviderError wraps a backend failure with its retry classification.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: provider %s: %v", e.Kind, e.Provider, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As compatibility.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// classify maps an SDK error to a ProviderError. Deadline expiry is the only
// retryable provider condition; everything else means the environment is
// broken.
func classify(provider string, ctx context.Context, err error) *ProviderError {
	kind := Unavailable
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		kind = Timeout
	}
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}

// Settings carries the backend selection and model parameters from config.
type Settings struct {
	Provider    string // "openai" or "groq"
	Model       string // empty selects the provider default
	APIKey      string
	BaseURL     string // empty selects the provider default endpoint
	Temperature float64
	MaxTokens   int
}

// New constructs the configured backend.
func New(cfg Settings) (Client, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAIClient(cfg)
	case ProviderGroq:
		return NewGroqClient(cfg)
	default:
		return nil, fmt.Errorf("unknown model provider %q (valid: %s, %s)", cfg.Provider, ProviderOpenAI, ProviderGroq)
	}
}
