package gemini

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/openshelf/shelfscan/internal/providers"
	"google.golang.org/api/option"
)

// requestTimeout bounds one completion call end to end.
const requestTimeout = 60 * time.Second

// Gemini is a provider for Google Gemini
type Gemini struct{}

// New returns a new Gemini provider
func New() *Gemini {
	return &Gemini{}
}

// Complete generates text for the given prompt using Gemini
func (g *Gemini) Complete(ctx context.Context, config providers.Config) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(config.Model)
	model.SetTemperature(float32(config.Temperature))
	if config.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(config.System)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(config.Prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	if txt, ok := candidate.Content.Parts[0].(genai.Text); ok {
		return string(txt), nil
	}

	return "", fmt.Errorf("unexpected response format from Gemini")
}
