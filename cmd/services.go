package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/openshelf/shelfscan/internal/books"
	"github.com/openshelf/shelfscan/internal/gemini"
	"github.com/openshelf/shelfscan/internal/ollama"
	"github.com/openshelf/shelfscan/internal/openai"
	"github.com/openshelf/shelfscan/internal/providers"
	"github.com/openshelf/shelfscan/internal/recommend"
	"github.com/openshelf/shelfscan/internal/scan"
	"github.com/openshelf/shelfscan/internal/vision"
)

// services holds the wired pipelines shared by serve and the one-shot
// scan command.
type services struct {
	scan      *scan.Service
	recommend *recommend.Service
	resolver  books.Resolver
}

// buildServices wires the pipelines from the environment.
func buildServices(ctx context.Context) (*services, error) {
	visionClient := vision.NewClientFromEnv()

	resolver, err := books.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog client: %w", err)
	}

	generator, model, err := newProvider()
	if err != nil {
		return nil, err
	}

	maxResults := maxResultsFromEnv()

	return &services{
		scan:      scan.NewService(visionClient, visionClient, resolver, maxResults),
		recommend: recommend.NewService(generator, resolver, model, maxResults),
		resolver:  resolver,
	}, nil
}

// newProvider selects the tag generator from TAGS_PROVIDER and picks a
// model default appropriate for it when TAGS_MODEL is unset.
func newProvider() (providers.Provider, string, error) {
	name := os.Getenv("TAGS_PROVIDER")
	if name == "" {
		name = "openai"
	}

	model := os.Getenv("TAGS_MODEL")

	switch name {
	case "ollama":
		if model == "" {
			model = "mistral-small3.2:24b"
		}
		return ollama.New(), model, nil
	case "openai":
		if model == "" {
			model = "gpt-4o"
		}
		return openai.New(), model, nil
	case "gemini":
		if model == "" {
			model = "gemini-2.0-flash"
		}
		return gemini.New(), model, nil
	default:
		return nil, "", fmt.Errorf("unknown TAGS_PROVIDER %q (supported: ollama, openai, gemini)", name)
	}
}

// maxResultsFromEnv reads MAX_RESULTS; zero lets the services apply
// their default.
func maxResultsFromEnv() int {
	raw := os.Getenv("MAX_RESULTS")
	if raw == "" {
		return 0
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		slog.Warn("Ignoring invalid MAX_RESULTS", "value", raw)
		return 0
	}
	return n
}
