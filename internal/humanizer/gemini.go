package humanizer

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GeminiRewriter implements Rewriter using Gemini text generation.
type GeminiRewriter struct {
	client *genai.Client
	model  string
}

func NewGeminiRewriter(ctx context.Context, apiKey string, modelName string) (*GeminiRewriter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiRewriter{client: client, model: modelName}, nil
}

func (g *GeminiRewriter) Rewrite(ctx context.Context, req RewriteRequest) (string, error) {
	contents := genai.Text(buildRewritePrompt(req))
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("empty rewrite response")
	}
	return cleanMarkdownOutput(text), nil
}
