// Package content produces the training tips spoken on scheduled calls
// and sent over WhatsApp. Generation goes through the Gemini API when
// configured; any failure falls back to a fixed set of generic tips so a
// call or message always completes gracefully.
package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Generator produces localized training content for a topic.
type Generator interface {
	TrainingTips(ctx context.Context, topic, language string) (string, error)
}

// GeminiGenerator generates training tips with the Gemini API.
type GeminiGenerator struct {
	client  *genai.Client
	modelID string
}

// NewGeminiGenerator creates a Gemini-backed generator.
func NewGeminiGenerator(ctx context.Context, apiKey, modelID string) (*GeminiGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("content: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("content: failed to create gemini client: %w", err)
	}

	return &GeminiGenerator{client: client, modelID: modelID}, nil
}

var languageNames = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"mr": "Marathi",
}

// TrainingTips asks the model for three short, practical tips on the
// topic, phrased for rural women entrepreneurs new to digital commerce.
func (g *GeminiGenerator) TrainingTips(ctx context.Context, topic, language string) (string, error) {
	model := g.client.GenerativeModel(g.modelID)
	model.SetMaxOutputTokens(512)

	langName, ok := languageNames[language]
	if !ok {
		langName = "English"
	}

	prompt := fmt.Sprintf(
		"Give exactly three short, practical business tips about %q for a rural woman entrepreneur "+
			"selling handcrafted products, in simple %s suitable for reading aloud over a phone call. "+
			"Number the tips 1 to 3 and avoid any formatting besides the numbers.",
		topic, langName,
	)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("content: generate tips: %w", err)
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return "", errors.New("content: model returned no usable text")
	}
	return text, nil
}

// Close releases the underlying API client.
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	return b.String()
}
