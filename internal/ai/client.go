// Package ai asks a language model for a second opinion on a saved theory.
package ai

import (
	"context"
	"fmt"
	"github.com/homecrimes/caseroom/internal/errors"
	"github.com/homecrimes/caseroom/internal/models"
	"github.com/homecrimes/caseroom/internal/theory"
	"github.com/sashabaranov/go-openai"
	"slices"
	"strings"
)

const MaxTokens = 512

var ErrNoChoices = errors.NewSentinel("completion has no choices")

type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a client for the OpenAI API. A non-empty baseURL points it at a compatible server.
func NewClient(apiKey string, baseURL string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  openai.GPT3Dot5Turbo1106,
	}
}

func (c *Client) SyncCompletion(
	ctx context.Context,
	messages []openai.ChatCompletionMessage,
) (openai.ChatCompletionResponse, error) {
	completion, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     c.model,
			MaxTokens: MaxTokens,
			Messages:  messages,
		},
	)
	if err != nil {
		return openai.ChatCompletionResponse{}, errors.Wrap(err, "create chat completion")
	}
	return completion, nil
}

// ReviewTheory returns a short critique of t. The review is advisory and stored apart from the theory.
func (c *Client) ReviewTheory(
	ctx context.Context,
	caseFile models.CaseFile,
	t theory.Theory,
	evidence []models.Evidence,
) (string, error) {
	completion, err := c.SyncCompletion(ctx, ReviewMessages(caseFile, t, evidence))
	if err != nil {
		return "", errors.Wrap(err, "review theory")
	}
	if len(completion.Choices) == 0 {
		return "", ErrNoChoices
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// ReviewMessages builds the prompt. Only the evidence the theory cites is shared with the model.
func ReviewMessages(caseFile models.CaseFile, t theory.Theory, evidence []models.Evidence) []openai.ChatCompletionMessage {
	system := fmt.Sprintf(`Eres la inspectora a cargo del caso "%s". Objetivo de la investigación: %s
Revisa la hipótesis de un investigador aficionado en tres frases como máximo. Señala qué pruebas la sostienen y
qué contradicciones debería comprobar. No reveles la solución del caso.`, caseFile.Title, caseFile.Objective)

	var user strings.Builder
	fmt.Fprintf(&user, "Hipótesis: %s\n%s\n", t.Title, t.Content)
	for _, ev := range evidence {
		if !slices.Contains(t.EvidenceSupport, ev.ID) {
			continue
		}
		fmt.Fprintf(&user, "- Evidencia (%s) %s: %s\n", ev.Type, ev.Title, ev.Summary)
	}

	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system}, //nolint:exhaustruct // optional fields
		{Role: openai.ChatMessageRoleUser, Content: user.String()}, //nolint:exhaustruct // optional fields
	}
}

