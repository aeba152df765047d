package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) { return nil, errors.New("conn reset") }
func (failingStore) Set(context.Context, string, []byte) error   { return errors.New("conn reset") }

func TestCachedEmbedder_HitAndMiss(t *testing.T) {
	inner := &fakeEmbedder{}
	store := NewMemoryStore(0)
	c := NewCachedEmbedder(inner, store, nil)
	ctx := context.Background()

	first, err := c.Embed(ctx, "seo content")
	require.NoError(t, err)
	second, err := c.Embed(ctx, "seo content")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), inner.calls.Load())
	assert.Len(t, store.items, 1)

	_, err = c.Embed(ctx, "ga4 reporting")
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestCachedEmbedder_StoreFailureFallsThrough(t *testing.T) {
	inner := &fakeEmbedder{}
	c := NewCachedEmbedder(inner, failingStore{}, nil)

	v, err := c.Embed(context.Background(), "crm")
	require.NoError(t, err)
	assert.Len(t, v, 2)
}

func TestCachedEmbedder_CorruptEntryIsIgnored(t *testing.T) {
	inner := &fakeEmbedder{}
	store := NewMemoryStore(0)
	require.NoError(t, store.Set(context.Background(), cacheKey("crm"), []byte{1, 2, 3}))

	c := NewCachedEmbedder(inner, store, nil)
	_, err := c.Embed(context.Background(), "crm")
	require.NoError(t, err)
	assert.Equal(t, int32(1), inner.calls.Load())
}

func TestCachedEmbedder_InnerError(t *testing.T) {
	c := NewCachedEmbedder(&fakeEmbedder{err: errors.New("boom")}, NewMemoryStore(0), nil)
	_, err := c.Embed(context.Background(), "crm")
	assert.ErrorContains(t, err, "embed text: boom")
}

func TestVectorBytesRoundTrip(t *testing.T) {
	v := []float32{0.25, -1.5, 3}
	got, err := bytesToVector(vectorToBytes(v))
	require.NoError(t, err)
	assert.Equal(t, v, got)

	_, err = bytesToVector([]byte{1})
	assert.Error(t, err)
}

func TestMemoryStore_Limit(t *testing.T) {
	s := NewMemoryStore(1)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "a", []byte("1")))
	require.NoError(t, s.Set(ctx, "b", []byte("2")))
	require.NoError(t, s.Set(ctx, "a", []byte("3")))

	assert.Len(t, s.items, 1)
	v, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), v)

	_, err = s.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, cacheKey("x"), cacheKey("x"))
	assert.NotEqual(t, cacheKey("x"), cacheKey("y"))
	assert.Contains(t, cacheKey("x"), cacheKeyPrefix)
}
