// Package claude adapts the Anthropic Messages API to ai.Model.
package claude

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/kitchenflow/internal/domain"
)

// maxTokens comfortably covers a ten-item fridge scan or a recipe card.
const maxTokens = 1024

type Model struct {
	client *anthropic.Client
	model  string
}

type Option func(*[]anthropic.ClientOption)

// WithBaseURL points the client at a different API root, e.g. a proxy.
func WithBaseURL(url string) Option {
	return func(opts *[]anthropic.ClientOption) {
		*opts = append(*opts, anthropic.WithBaseURL(url))
	}
}

func New(apiKey, model string, opts ...Option) *Model {
	var clientOpts []anthropic.ClientOption
	for _, o := range opts {
		o(&clientOpts)
	}
	return &Model{
		client: anthropic.NewClient(apiKey, clientOpts...),
		model:  model,
	}
}

func (m *Model) Generate(ctx context.Context, prompt string, images []domain.Image) (string, error) {
	resp, err := m.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(m.model),
		MaxTokens: maxTokens,
		Messages:  []anthropic.Message{buildMessage(prompt, images)},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call claude: %w", err)
	}

	var b strings.Builder
	for _, c := range resp.Content {
		if c.Type == anthropic.MessagesContentTypeText {
			b.WriteString(c.GetText())
		}
	}
	if b.Len() == 0 {
		return "", errors.New("claude returned no text")
	}
	return b.String(), nil
}

// buildMessage puts images before the prompt text.
func buildMessage(prompt string, images []domain.Image) anthropic.Message {
	content := make([]anthropic.MessageContent, 0, len(images)+1)
	for _, img := range images {
		content = append(content, anthropic.NewImageMessageContent(anthropic.NewMessageContentSource(
			anthropic.MessagesContentSourceTypeBase64,
			normaliseMIME(img.MimeType),
			base64.StdEncoding.EncodeToString(img.Data),
		)))
	}
	content = append(content, anthropic.NewTextMessageContent(prompt))
	return anthropic.Message{Role: anthropic.RoleUser, Content: content}
}

// normaliseMIME maps browser MIME types to the values the API accepts.
// Unknown types are sent as jpeg.
func normaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
