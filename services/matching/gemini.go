package matching

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chairhop/config"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiEmbedder embeds text through the Gemini embedding API.
type GeminiEmbedder struct {
	model   *genai.EmbeddingModel
	timeout time.Duration
}

func NewGeminiEmbedder(apiKey string) *GeminiEmbedder {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		panic(fmt.Sprintf("failed to create Gemini client: %v", err))
	}

	model := client.EmbeddingModel(config.AppConfig.EmbeddingModel)
	return &GeminiEmbedder{
		model:   model,
		timeout: time.Duration(config.AppConfig.EmbedTimeoutMs) * time.Millisecond,
	}
}

// Embed returns the vector for the given text. Provider failures come back
// as typed MatchErrors so callers can decide to degrade instead of failing.
func (g *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		if strings.Contains(err.Error(), "429") || strings.Contains(strings.ToLower(err.Error()), "quota") {
			return nil, ErrRateLimited
		}
		return nil, ErrEmbeddingUnavailable
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, ErrEmbeddingUnavailable
	}
	return resp.Embedding.Values, nil
}
