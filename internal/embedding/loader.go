package embedding

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ProviderConfig selects and configures an embedding provider.
type ProviderConfig struct {
	Provider   string
	Model      string
	APIKey     string
	BaseURL    string
	Dimensions int
}

// NewLoader returns a Loader that builds the configured provider, wrapped in a
// CachedEmbedder when store is non-nil.
func NewLoader(cfg ProviderConfig, store Store, logger *zap.Logger) Loader {
	return func(ctx context.Context) (Embedder, error) {
		var (
			e   Embedder
			err error
		)
		switch cfg.Provider {
		case ProviderGemini, "":
			e, err = NewGeminiEmbedder(ctx, cfg.APIKey, cfg.Model)
		case ProviderOpenAI:
			e, err = NewOpenAIEmbedder(OpenAIConfig{
				APIKey:     cfg.APIKey,
				BaseURL:    cfg.BaseURL,
				Model:      cfg.Model,
				Dimensions: cfg.Dimensions,
			})
		case ProviderHashing:
			e = NewHashingEmbedder(cfg.Dimensions)
		default:
			return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
		}
		if err != nil {
			return nil, fmt.Errorf("create %s embedder: %w", cfg.Provider, err)
		}
		if store != nil {
			e = NewCachedEmbedder(e, store, logger)
		}
		return e, nil
	}
}
