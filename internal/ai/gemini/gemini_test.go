package gemini

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/kitchenflow/internal/domain"
)

func TestBuildParts(t *testing.T) {
	parts := buildParts("scan", []domain.Image{{Data: []byte{1}, MimeType: "image/png"}, {Data: []byte{2}}})
	require.Len(t, parts, 3)
	assert.Equal(t, genai.Blob{MIMEType: "image/png", Data: []byte{1}}, parts[0])
	assert.Equal(t, genai.Blob{MIMEType: "image/jpeg", Data: []byte{2}}, parts[1])
	assert.Equal(t, genai.Text("scan"), parts[2])
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"foodName":`), genai.Text(`"Pho"}`)}},
		}},
	}
	text, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, `{"foodName":"Pho"}`, text)
}

func TestResponseTextEmpty(t *testing.T) {
	_, err := responseText(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	_, err = responseText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}}}},
	})
	assert.Error(t, err)
}
