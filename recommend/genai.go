package recommend

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GenAI generates recommendations with Google's Gemini API.
type GenAI struct {
	client *genai.Client
	model  string
}

// NewGenAI creates a Gemini provider.
func NewGenAI(ctx context.Context, apiKey, model string) (*GenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create GenAI client (%v)", err)
	}

	return &GenAI{
		client: client,
		model:  model,
	}, nil
}

func (p *GenAI) Complete(ctx context.Context, system, prompt string) (string, error) {
	result, err := p.client.Models.GenerateContent(ctx,
		p.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature:       genai.Ptr[float32](0.7),
			MaxOutputTokens:   500,
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		},
	)
	if err != nil {
		return "", fmt.Errorf("GenAI completion failed (%v)", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("GenAI completion returned no content")
	}

	return text, nil
}
