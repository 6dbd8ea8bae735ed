package humanizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// OpenAIRewriter implements Rewriter against OpenAI chat completions.
type OpenAIRewriter struct {
	client openai.Client
	model  string
}

func NewOpenAIRewriter(apiKey, model string) *OpenAIRewriter {
	return &OpenAIRewriter{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (o *OpenAIRewriter) Rewrite(ctx context.Context, req RewriteRequest) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(buildRewritePrompt(req)),
					},
				},
			},
		},
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("empty rewrite response")
	}
	return cleanMarkdownOutput(resp.Choices[0].Message.Content), nil
}
