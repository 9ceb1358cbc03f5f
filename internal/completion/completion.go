// Package completion obtains empathetic replies from an OpenAI-compatible
// chat completions endpoint using a fixed support persona.
package completion

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-mindcare-backend/internal/config"
)

// Persona is the system instruction sent with every request.
const Persona = "You are an empathetic mental health support chatbot. Always respond kindly, encourage conversation, and avoid giving medical advice. If user is at risk, encourage professional help."

// FallbackReply is returned when the service answers without usable content.
const FallbackReply = "I'm here to listen. Can you tell me more about how you're feeling?"

// Client wraps the OpenAI SDK client.
type Client struct {
	api   openai.Client
	model string
}

// New builds a Client from cfg. Retries and the per-request timeout are
// delegated to the SDK.
func New(cfg config.OpenAIConfig, extra ...option.RequestOption) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	opts = append(opts, extra...)
	return &Client{
		api:   openai.NewClient(opts...),
		model: cfg.Model,
	}
}

// Complete sends the persona and userMessage and returns the reply text.
// Transport and service errors are returned; empty content yields
// FallbackReply.
func (c *Client) Complete(ctx context.Context, userMessage string) (string, error) {
	ctx, span := otel.Tracer("completion").Start(ctx, "Complete")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", c.model))

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(Persona),
			openai.UserMessage(userMessage),
		},
	})
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return ExtractReply(resp), nil
}

// ExtractReply returns the first choice's message content, or FallbackReply
// when there is none.
func ExtractReply(resp *openai.ChatCompletion) string {
	if resp == nil || len(resp.Choices) == 0 {
		return FallbackReply
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return FallbackReply
	}
	return content
}
