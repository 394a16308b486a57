package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/openshelf/shelfscan/internal/providers"
)

// requestTimeout bounds one completion call end to end.
const requestTimeout = 60 * time.Second

// Ollama is a provider for Ollama
type Ollama struct {
	httpClient *http.Client
}

// New returns a new Ollama provider
func New() *Ollama {
	return &Ollama{
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Complete generates text for the given prompt using Ollama
func (o *Ollama) Complete(ctx context.Context, config providers.Config) (string, error) {
	ollamaURL := os.Getenv("OLLAMA_URL")
	if ollamaURL == "" {
		ollamaURL = os.Getenv("OLLAMA_HOST")
	}
	if ollamaURL == "" {
		ollamaURL = "http://localhost:11434"
	}
	url := ollamaURL + "/api/generate"

	prompt := config.Prompt
	if config.System != "" {
		prompt = config.System + "\n\n" + prompt
	}

	requestBody, err := json.Marshal(map[string]interface{}{
		"model":  config.Model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]interface{}{
			"temperature": config.Temperature,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	return response.Response, nil
}
