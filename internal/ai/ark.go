package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// chatModel is the slice of eino's model.ChatModel that Generate needs.
type chatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// einoGenerator adapts any eino chat model to Generator.
type einoGenerator struct {
	chat  chatModel
	model string
}

// NewArkClient returns a Generator backed by a Volcengine Ark chat model
// through eino.
//   - cfg.APIKey:  your ARK_API_KEY
//   - cfg.Model:   the Ark endpoint / model id
//   - cfg.BaseURL: optional, defaults to the SDK's region endpoint
func NewArkClient(ctx context.Context, cfg ClientConfig) (Generator, error) {
	// The Ark runtime retries on its own unless told otherwise; report
	// generation is single-shot.
	noRetries := 0
	arkCfg := &ark.ChatModelConfig{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		RetryTimes: &noRetries,
	}
	if cfg.Timeout > 0 {
		timeout := cfg.Timeout
		arkCfg.Timeout = &timeout
	}

	cm, err := ark.NewChatModel(ctx, arkCfg)
	if err != nil {
		return nil, fmt.Errorf("ark: create chat model: %w", err)
	}
	return newEinoGenerator(cm, cfg.Model), nil
}

func newEinoGenerator(cm chatModel, modelName string) *einoGenerator {
	return &einoGenerator{chat: cm, model: modelName}
}

func (g *einoGenerator) Model() string { return g.model }

// Generate sends prompt as a single user message.
func (g *einoGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := g.chat.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", fmt.Errorf("ark: generate: %w", err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", fmt.Errorf("ark: no content: %w", ErrEmptyResponse)
	}
	return msg.Content, nil
}
