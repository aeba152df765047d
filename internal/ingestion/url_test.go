package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchJobText_InvalidURL(t *testing.T) {
	for _, u := range []string{"", "not-a-url", "example.com", "http://"} {
		t.Run(u, func(t *testing.T) {
			_, _, err := FetchJobText(context.Background(), u, nil, nil)
			assert.ErrorIs(t, err, ErrHTTPRequestFailed)
		})
	}
}

func TestFetchJobText_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<!DOCTYPE html><html><body>
<nav>Jobs Home</nav>
<div class="job-description">
<h1>Performance Marketer</h1>
<p>We are hiring a Performance Marketer    to run Google Ads.</p>
<form>Apply now</form>
</div>
<footer>Footer</footer>
</body></html>`))
	}))
	defer server.Close()

	text, meta, err := FetchJobText(context.Background(), server.URL, nil, nil)
	require.NoError(t, err)

	assert.Contains(t, text, "Performance Marketer")
	assert.Contains(t, text, "to run Google Ads.")
	assert.NotContains(t, text, "Jobs Home")
	assert.NotContains(t, text, "Apply now")
	assert.NotContains(t, text, "Footer")
	assert.Equal(t, server.URL, meta.URL)
	assert.Equal(t, "unknown", meta.Platform)
}

func TestFetchJobText_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, _, err := FetchJobText(context.Background(), server.URL, nil, nil)
	assert.ErrorIs(t, err, ErrHTTPRequestFailed)
}

func TestFetchJobText_EmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><nav>only nav</nav></body></html>`))
	}))
	defer server.Close()

	_, _, err := FetchJobText(context.Background(), server.URL, nil, nil)
	assert.ErrorIs(t, err, ErrContentExtractionFailed)
}
