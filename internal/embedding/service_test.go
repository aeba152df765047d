package embedding

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	calls atomic.Int32
	err   error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return Normalize([]float32{float32(len(text)), 1}), nil
}

func TestService_LoadsOnceUnderConcurrency(t *testing.T) {
	var loads atomic.Int32
	release := make(chan struct{})
	fake := &fakeEmbedder{}

	svc := NewService(func(ctx context.Context) (Embedder, error) {
		loads.Add(1)
		<-release
		return fake, nil
	}, nil)

	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Embed(context.Background(), "paid search")
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), loads.Load())
	assert.Equal(t, int32(16), fake.calls.Load())
	assert.True(t, svc.Loaded())
}

func TestService_FailedLoadIsRetried(t *testing.T) {
	var loads atomic.Int32
	svc := NewService(func(ctx context.Context) (Embedder, error) {
		if loads.Add(1) == 1 {
			return nil, errors.New("network down")
		}
		return &fakeEmbedder{}, nil
	}, nil)

	_, err := svc.Embed(context.Background(), "seo")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.False(t, svc.Loaded())

	vec, err := svc.Embed(context.Background(), "seo")
	require.NoError(t, err)
	assert.Len(t, vec, 2)
	assert.Equal(t, int32(2), loads.Load())
}

func TestService_NilModelIsUnavailable(t *testing.T) {
	svc := NewService(func(ctx context.Context) (Embedder, error) { return nil, nil }, nil)

	err := svc.Warm(context.Background())
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestService_InferenceFailure(t *testing.T) {
	svc := NewService(func(ctx context.Context) (Embedder, error) {
		return &fakeEmbedder{err: errors.New("quota exceeded")}, nil
	}, nil)

	_, err := svc.Embed(context.Background(), "crm")
	var mu *ModelUnavailableError
	require.ErrorAs(t, err, &mu)
	assert.Equal(t, "embed", mu.Op)
	assert.True(t, svc.Loaded())
}

func TestService_WarmAfter(t *testing.T) {
	loaded := make(chan struct{})
	svc := NewService(func(ctx context.Context) (Embedder, error) {
		defer close(loaded)
		return &fakeEmbedder{}, nil
	}, nil)

	svc.WarmAfter(5 * time.Millisecond)

	select {
	case <-loaded:
	case <-time.After(time.Second):
		t.Fatal("pre-warm never ran")
	}
	assert.Eventually(t, svc.Loaded, time.Second, 5*time.Millisecond)
}

func TestService_CancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	svc := NewService(func(ctx context.Context) (Embedder, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &fakeEmbedder{}, nil
	}, nil)

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Model(firstCtx)
		firstErr <- err
	}()
	<-started

	secondErr := make(chan error, 1)
	go func() {
		_, err := svc.Model(context.Background())
		secondErr <- err
	}()

	cancel()
	err := <-firstErr
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ErrModelUnavailable)

	close(release)
	require.NoError(t, <-secondErr)
	assert.True(t, svc.Loaded())
}
