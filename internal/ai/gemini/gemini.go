// Package gemini adapts the Google Gemini API to ai.Model.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/vbonduro/kitchenflow/internal/domain"
)

const DefaultModel = "gemini-1.5-flash"

type Model struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// New creates a Gemini client that asks for JSON replies.
func New(ctx context.Context, apiKey, model string) (*Model, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	gm := client.GenerativeModel(model)
	gm.ResponseMIMEType = "application/json"
	return &Model{client: client, model: gm}, nil
}

func (m *Model) Generate(ctx context.Context, prompt string, images []domain.Image) (string, error) {
	resp, err := m.model.GenerateContent(ctx, buildParts(prompt, images)...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return responseText(resp)
}

func (m *Model) Close() error {
	return m.client.Close()
}

func buildParts(prompt string, images []domain.Image) []genai.Part {
	parts := make([]genai.Part, 0, len(images)+1)
	for _, img := range images {
		mime := img.MimeType
		if mime == "" {
			mime = "image/jpeg"
		}
		parts = append(parts, genai.Blob{MIMEType: mime, Data: img.Data})
	}
	return append(parts, genai.Text(prompt))
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no content generated")
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", errors.New("generated content is not text")
	}
	return b.String(), nil
}
