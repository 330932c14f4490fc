// Package describe generates a short page description from page text when
// the scraper finds none. Optional; failures are warnings, never fatal.
package describe

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/sashabaranov/go-openai"

	"github.com/user/notionclip/internal/config"
)

// Describer generates descriptions using an LLM
type Describer struct {
	cfg *config.Config
}

func NewDescriber(cfg *config.Config) *Describer {
	return &Describer{cfg: cfg}
}

const describePrompt = `Write a concise 1-2 sentence description of this web page, suitable as the description field of a bookmark. Respond with the description only, no preamble.

Page content:
%s`

func (d *Describer) Describe(ctx context.Context, content string) (string, error) {
	// Truncate content for LLM
	const maxContentLen = 10000
	if len(content) > maxContentLen {
		content = content[:maxContentLen]
	}
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("no page content to describe")
	}

	prompt := fmt.Sprintf(describePrompt, content)

	switch d.cfg.Describe.Provider {
	case "anthropic":
		return d.describeWithAnthropic(ctx, prompt)
	case "openai", "openrouter":
		return d.describeWithOpenAI(ctx, prompt)
	default:
		return "", fmt.Errorf("unsupported LLM provider: %s", d.cfg.Describe.Provider)
	}
}

func (d *Describer) describeWithAnthropic(ctx context.Context, prompt string) (string, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	client := anthropic.NewClient(apiKey)

	resp, err := client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(d.cfg.Describe.Model),
		MaxTokens: 300,
		Messages: []anthropic.Message{
			{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{{Type: "text", Text: &prompt}},
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("empty response from Anthropic")
	}

	return strings.TrimSpace(resp.Content[0].GetText()), nil
}

func (d *Describer) describeWithOpenAI(ctx context.Context, prompt string) (string, error) {
	var apiKey string
	var baseURL string

	if d.cfg.Describe.Provider == "openrouter" {
		apiKey = os.Getenv("OPENROUTER_API_KEY")
		baseURL = d.cfg.Describe.BaseURL
		if baseURL == "" {
			baseURL = "https://openrouter.ai/api/v1"
		}
	} else {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	if apiKey == "" {
		return "", fmt.Errorf("API key not set for provider %s", d.cfg.Describe.Provider)
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}

	client := openai.NewClientWithConfig(clientCfg)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     d.cfg.Describe.Model,
		MaxTokens: 300,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
