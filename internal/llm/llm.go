package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pavelanni/scanner/internal/llm/prompts"
	"github.com/pavelanni/scanner/internal/model"
)

const maxReflectionRunes = 1200

// ErrEmptyInsight is returned when the model answers without a reflection.
var ErrEmptyInsight = errors.New("LLM returned an empty reflection")

// Insight is the personalised text shown under the results.
type Insight struct {
	Headline   string `json:"headline"`
	Reflection string `json:"reflection"`
}

// Request carries a finished quiz to the model.
type Request struct {
	Name      string
	Lang      string
	Top       []model.Archetype
	Breakdown []model.Standing
	Log       []model.AnswerLogEntry
}

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api     *openai.Client
	model   string
	variant prompts.Variant
}

// New creates a new LLM client using the given prompt variant.
func New(baseURL, apiKey, modelName, variant string) (*Client, error) {
	if err := prompts.Load(prompts.Templates); err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}
	if !prompts.IsValidVariant(variant) {
		return nil, fmt.Errorf("invalid insight variant %q", variant)
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:     openai.NewClientWithConfig(config),
		model:   modelName,
		variant: prompts.Variant(variant),
	}, nil
}

// Ping checks that the endpoint answers by listing its models.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// Reflect asks the model for a short reflection on a finished quiz.
func (c *Client) Reflect(ctx context.Context, req Request) (*Insight, error) {
	systemPrompt, err := prompts.BuildInsightPrompt(c.variant, req.Name, req.Lang, req.Top, req.Breakdown, req.Log)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Write the reflection now."},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("LLM returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("LLM response", "raw", raw)
	return parseInsight(raw)
}

func parseInsight(raw string) (*Insight, error) {
	// Some local models wrap JSON in a markdown fence despite the response format.
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var in Insight
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return nil, fmt.Errorf("parse LLM response: %w (raw: %s)", err, raw)
	}
	in.Headline = strings.TrimSpace(in.Headline)
	in.Reflection = strings.TrimSpace(in.Reflection)
	if in.Reflection == "" {
		return nil, ErrEmptyInsight
	}
	if utf8.RuneCountInString(in.Reflection) > maxReflectionRunes {
		in.Reflection = string([]rune(in.Reflection)[:maxReflectionRunes]) + "…"
	}
	return &in, nil
}
