package fs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/commitgen"
	"github.com/fwojciec/commitgen/fs"
	"github.com/fwojciec/commitgen/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_DelegatesOnMissAndCachesResult(t *testing.T) {
	t.Parallel()

	calls := 0
	inner := &mock.Backend{
		CompleteFn: func(context.Context, commitgen.CompletionRequest) (string, error) {
			calls++
			return "SUMMARY: hi\nIMPACT: minor", nil
		},
	}
	cache := fs.NewCache(inner, t.TempDir())
	req := commitgen.CompletionRequest{Model: "m", System: "s", Prompt: "p"}

	first, err := cache.Complete(context.Background(), req)
	require.NoError(t, err)

	second, err := cache.Complete(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "second call must be served from cache")
}

func TestCache_DistinctRequestsDoNotCollide(t *testing.T) {
	t.Parallel()

	inner := &mock.Backend{
		CompleteFn: func(_ context.Context, req commitgen.CompletionRequest) (string, error) {
			return req.Prompt, nil
		},
	}
	cache := fs.NewCache(inner, t.TempDir())

	a, err := cache.Complete(context.Background(), commitgen.CompletionRequest{Prompt: "alpha"})
	require.NoError(t, err)
	b, err := cache.Complete(context.Background(), commitgen.CompletionRequest{Prompt: "beta"})
	require.NoError(t, err)

	assert.Equal(t, "alpha", a)
	assert.Equal(t, "beta", b)
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	calls := 0
	inner := &mock.Backend{
		CompleteFn: func(context.Context, commitgen.CompletionRequest) (string, error) {
			calls++
			if calls == 1 {
				return "", errors.New("transient")
			}
			return "recovered", nil
		},
	}
	cache := fs.NewCache(inner, t.TempDir())
	req := commitgen.CompletionRequest{Prompt: "p"}

	_, err := cache.Complete(context.Background(), req)
	require.Error(t, err)

	got, err := cache.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "recovered", got)
}
