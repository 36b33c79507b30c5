package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bensuskins/meal-planner/internal/config"
)

// TokenUsage tracks the tokens consumed by a request.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// ContentResponse contains the generated text and its token usage.
type ContentResponse struct {
	Content string
	Usage   TokenUsage
}

// TextGenerator generates text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (ContentResponse, error)
}

// New builds the generator selected by cfg.AIProvider. It returns a nil
// generator when AI is disabled. The returned close function is never nil.
func New(ctx context.Context, cfg config.Config) (TextGenerator, func() error, error) {
	noop := func() error { return nil }

	switch cfg.AIProvider {
	case config.ProviderOpenAI:
		client := NewOpenAIClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, &http.Client{Timeout: cfg.AITimeout})
		return client, noop, nil
	case config.ProviderGemini:
		client, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, noop, err
		}
		return client, client.Close, nil
	case config.ProviderNone, "":
		return nil, noop, nil
	}
	return nil, noop, fmt.Errorf("unknown ai provider %q", cfg.AIProvider)
}
