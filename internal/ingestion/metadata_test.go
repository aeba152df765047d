package ingestion

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetadata(t *testing.T) {
	m := NewMetadata("Google Ads and SEO")

	assert.Equal(t, 4, m.Words)
	assert.Equal(t, computeHash("Google Ads and SEO"), m.Hash)
	_, err := time.Parse(time.RFC3339, m.Timestamp)
	assert.NoError(t, err)
}

func TestComputeHash(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", computeHash(""))
	assert.NotEqual(t, computeHash("a"), computeHash("b"))
}

func TestMetadata_ToJSON(t *testing.T) {
	m := NewMetadata("text")
	m.URL = "https://jobs.lever.co/acme/1"
	m.Platform = "lever"

	data, err := m.ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "lever", decoded["platform"])
	assert.Equal(t, float64(1), decoded["words"])
	assert.NotContains(t, decoded, "filename")
}
