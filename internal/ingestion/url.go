package ingestion

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/jd-matcher/internal/fetch"
)

var (
	// ErrHTTPRequestFailed is returned when the job posting could not be downloaded
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrContentExtractionFailed is returned when no text could be extracted from the page
	ErrContentExtractionFailed = errors.New("content extraction failed")
)

// FetchJobText downloads a job posting and returns its cleaned main text.
// Job-board platforms are detected from the host so their own content and
// noise selectors apply.
func FetchJobText(ctx context.Context, urlStr string, opts *fetch.Options, logger *zap.Logger) (string, *Metadata, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	platform := fetch.DetectPlatform(urlStr)

	result, err := fetch.URL(ctx, urlStr, opts)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}

	text, err := fetch.ExtractMainText(result.HTML,
		fetch.PlatformContentSelectors(platform),
		fetch.PlatformNoiseSelectors(platform)...)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}
	if text == "" {
		return "", nil, fmt.Errorf("%w: page has no readable text", ErrContentExtractionFailed)
	}

	cleaned := CleanText(text)
	logger.Debug("Fetched job posting",
		zap.String("url", urlStr),
		zap.String("platform", string(platform)),
		zap.Int("html_bytes", len(result.HTML)),
		zap.Int("text_chars", len(cleaned)),
	)

	meta := NewMetadata(cleaned)
	meta.URL = urlStr
	meta.Platform = string(platform)
	return cleaned, meta, nil
}
