package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

var ErrLLMUnavailable = errors.New("LLM service unavailable")

const enhancerSystemPrompt = "You are a prompt enhancer. Rewrite the user's prompt to be clear, specific, and goal-oriented. Preserve intent, add necessary constraints (format, tone, audience), and remove ambiguity. Reply with only the improved prompt."

// ChatCompleter is the subset of *openai.Client the enhancer uses.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Enhancer rewrites prompts through an OpenAI chat model. With no client it
// returns prompts unchanged.
type Enhancer struct {
	client ChatCompleter
	model  string
}

// NewEnhancer returns an enhancer backed by OpenAI, or a pass-through one
// when apiKey is empty.
func NewEnhancer(apiKey, model string) *Enhancer {
	if apiKey == "" {
		return &Enhancer{model: model}
	}
	return &Enhancer{client: openai.NewClient(apiKey), model: model}
}

func NewEnhancerWithClient(client ChatCompleter, model string) *Enhancer {
	return &Enhancer{client: client, model: model}
}

func (e *Enhancer) Enhance(ctx context.Context, prompt string) (string, error) {
	if e.client == nil {
		return prompt, nil
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: enhancerSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLLMUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return prompt, nil
	}
	improved := strings.TrimSpace(resp.Choices[0].Message.Content)
	if improved == "" {
		return prompt, nil
	}
	return improved, nil
}
