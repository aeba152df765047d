package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when the config leaves the model empty.
const DefaultGeminiModel = "text-embedding-004"

// GeminiEmbedder embeds text with a Google Gemini embedding model.
type GeminiEmbedder struct {
	client *genai.Client
	model  *genai.EmbeddingModel
}

// NewGeminiEmbedder creates a Gemini provider.
func NewGeminiEmbedder(ctx context.Context, apiKey, model string) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiEmbedder{
		client: client,
		model:  client.EmbeddingModel(model),
	}, nil
}

// Embed implements Embedder.
func (g *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	resp, err := g.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		observe(ProviderGemini, start, err)
		return nil, fmt.Errorf("failed to embed content: %w", err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		err = fmt.Errorf("no embedding in response")
		observe(ProviderGemini, start, err)
		return nil, err
	}
	observe(ProviderGemini, start, nil)

	vec := make([]float32, len(resp.Embedding.Values))
	copy(vec, resp.Embedding.Values)
	return Normalize(vec), nil
}

// Close releases the underlying client.
func (g *GeminiEmbedder) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
