// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

// Package genai wraps the OpenAI-compatible chat completion API used to
// generate roadmap and resource recommendations. The client is transport
// only: prompt construction and response validation live in the recommend
// package.
package genai

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/skilltrail/skilltrail/internal/logging"
)

// ErrEmptyCompletion indicates the API returned a completion with no choices.
var ErrEmptyCompletion = errors.New("generation service returned no completion choices")

// systemPrompt frames every completion request. The per-learner curator
// prompt is sent as the user message.
const systemPrompt = "You are a learning recommendation engine. Respond only with the JSON the user requests."

// Config holds the generation service connection settings.
type Config struct {
	// APIKey authenticates against the completion endpoint. Empty disables
	// the client.
	APIKey string

	// BaseURL overrides the default OpenAI endpoint, for self-hosted
	// OpenAI-compatible servers. Empty uses the upstream default.
	BaseURL string

	// Model selects the chat completion model.
	Model string

	// Timeout bounds a single completion round trip.
	Timeout time.Duration

	// Temperature controls output variability. Zero keeps the API default.
	Temperature float32
}

// Client issues chat completion requests for recommendation generation.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	temp    float32
}

// NewClient builds a generation client from config. An empty API key is a
// configuration error; callers should gate on Config.APIKey before
// constructing the client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("generation API key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("generation model is required")
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		api:     openai.NewClientWithConfig(apiCfg),
		model:   cfg.Model,
		timeout: timeout,
		temp:    cfg.Temperature,
	}, nil
}

// Generate sends the curator prompt and returns the raw completion text.
// The response is returned untouched; fence stripping and JSON validation
// are the caller's concern.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temp,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	logging.Debug().
		Str("model", c.model).
		Dur("duration", time.Since(start)).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Msg("Chat completion finished")

	return resp.Choices[0].Message.Content, nil
}
