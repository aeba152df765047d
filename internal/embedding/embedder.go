// Package embedding turns text into dense vectors for semantic scoring.
// Providers are built lazily by a Service, which owns the single model handle.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Provider names accepted by NewLoader.
const (
	ProviderGemini  = "gemini"
	ProviderOpenAI  = "openai"
	ProviderHashing = "hashing"
)

// Embedder converts text into an L2-normalized vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ErrModelUnavailable is matched by every load or inference failure.
var ErrModelUnavailable = errors.New("embedding model unavailable")

// ModelUnavailableError reports a failed model load or inference call.
type ModelUnavailableError struct {
	Op  string
	Err error
}

func (e *ModelUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("embedding model unavailable (%s): %v", e.Op, e.Err)
	}
	return fmt.Sprintf("embedding model unavailable (%s)", e.Op)
}

func (e *ModelUnavailableError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrModelUnavailable) match without losing the cause chain.
func (e *ModelUnavailableError) Is(target error) bool {
	return target == ErrModelUnavailable
}

// Normalize scales v to unit length in place and returns it. Zero vectors are left as is.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
	return v
}
