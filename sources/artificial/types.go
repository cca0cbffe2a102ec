package artificial

import (
	"context"
	"errors"
	"fmt"

	"sakuracore/sources/tracing"
)

const (
	ProviderAzure  = "azure"
	ProviderNative = "native"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

const (
	EngineReady         = "ready"
	EngineNotConfigured = "not_configured"
)

var (
	ErrNotConfigured     = errors.New("provider is not configured")
	ErrEmptyResponse     = errors.New("provider returned no choices")
	ErrEngineUnavailable = errors.New("AI service temporarily unavailable. Please try again.")
)

type GenerationRequest struct {
	System      string
	Prompt      string
	SearchQuery string
	Temperature float32
	MaxTokens   int
}

type GenerationResult struct {
	Text     string
	Provider string
	Model    string
	Tokens   int
}

type Generator interface {
	Name() string
	Configured() bool
	Invoke(ctx context.Context, log *tracing.Logger, req *GenerationRequest) (*GenerationResult, error)
}

type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
