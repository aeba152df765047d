package embedding

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/jonathan/jd-matcher/internal/parsing"
)

// DefaultHashingDimensions is the vector size of HashingEmbedder when none is given.
const DefaultHashingDimensions = 512

// HashingEmbedder is an offline provider that feature-hashes tokens into a fixed
// number of signed buckets. It needs no network and is deterministic.
type HashingEmbedder struct {
	dims int
}

// NewHashingEmbedder creates a hashing provider with dims buckets.
func NewHashingEmbedder(dims int) *HashingEmbedder {
	if dims <= 0 {
		dims = DefaultHashingDimensions
	}
	return &HashingEmbedder{dims: dims}
}

// Dimensions returns the vector size.
func (h *HashingEmbedder) Dimensions() int {
	return h.dims
}

// Embed implements Embedder.
func (h *HashingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		observe(ProviderHashing, start, err)
		return nil, err
	}

	vec := make([]float32, h.dims)
	for _, tok := range parsing.Tokenize(text) {
		f := fnv.New64a()
		_, _ = f.Write([]byte(tok))
		sum := f.Sum64()
		idx := int(sum % uint64(h.dims))
		if sum&(1<<63) != 0 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}
	observe(ProviderHashing, start, nil)
	return Normalize(vec), nil
}
