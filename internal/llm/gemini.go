package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
}

func NewGeminiClient(ctx context.Context, apiKey string, modelName string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	return &GeminiClient{client: client, model: model, modelName: modelName}, nil
}

func (client *GeminiClient) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	response, err := client.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return ContentResponse{}, fmt.Errorf("generating content: %w", err)
	}
	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return ContentResponse{}, fmt.Errorf("no content generated")
	}

	var text strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		if value, ok := part.(genai.Text); ok {
			text.WriteString(string(value))
		}
	}
	if text.Len() == 0 {
		return ContentResponse{}, fmt.Errorf("generated content is not text")
	}

	usage := TokenUsage{Model: client.modelName}
	if metadata := response.UsageMetadata; metadata != nil {
		usage.PromptTokens = int(metadata.PromptTokenCount)
		usage.CompletionTokens = int(metadata.CandidatesTokenCount)
		usage.TotalTokens = int(metadata.TotalTokenCount)
	}
	return ContentResponse{Content: text.String(), Usage: usage}, nil
}

func (client *GeminiClient) Close() error {
	return client.client.Close()
}
