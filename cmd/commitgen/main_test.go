package main_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/commitgen"
	main "github.com/fwojciec/commitgen/cmd/commitgen"
	"github.com/fwojciec/commitgen/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(backend commitgen.Backend, retriever commitgen.DiffRetriever) *commitgen.Generator {
	analyzer := commitgen.NewAnalyzer(backend, "fast", retriever)
	synthesizer := commitgen.NewSynthesizer(backend, "quality")
	return commitgen.NewGenerator(analyzer, synthesizer)
}

func TestApp_Run_GeneratesMessage(t *testing.T) {
	t.Parallel()

	backend := &mock.Backend{
		CompleteFn: func(_ context.Context, req commitgen.CompletionRequest) (string, error) {
			if req.Model == "fast" {
				return "SUMMARY: Add the widget\nIMPACT: minor", nil
			}
			return "feat: add widget", nil
		},
	}
	retriever := &mock.DiffRetriever{
		StagedDiffFn: func(context.Context, string) (string, error) {
			return "@@ -0,0 +1 @@\n+widget\n", nil
		},
	}
	lister := &mock.ChangeLister{
		StagedFilesFn: func(context.Context) ([]commitgen.FileChange, error) {
			return []commitgen.FileChange{{Path: "widget.go", Status: commitgen.StatusAdded}}, nil
		},
	}

	app := &main.App{Lister: lister, Generator: newTestGenerator(backend, retriever)}

	got, err := app.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "feat: add widget", got)
}

func TestApp_Run_RawDiffBypassesLister(t *testing.T) {
	t.Parallel()

	backend := &mock.Backend{
		CompleteFn: func(_ context.Context, req commitgen.CompletionRequest) (string, error) {
			if req.Model == "fast" {
				return "SUMMARY: Rework the parser\nIMPACT: major", nil
			}
			return "refactor: rework the parser", nil
		},
	}

	app := &main.App{
		Generator: newTestGenerator(backend, nil),
		RawDiff:   "@@ -1,2 +1,2 @@\n-old\n+new\n",
	}

	got, err := app.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "refactor: rework the parser", got)
}

func TestApp_Run_NothingStaged(t *testing.T) {
	t.Parallel()

	lister := &mock.ChangeLister{
		StagedFilesFn: func(context.Context) ([]commitgen.FileChange, error) {
			return nil, nil
		},
	}

	app := &main.App{Lister: lister, Generator: newTestGenerator(nil, nil)}

	_, err := app.Run(context.Background())

	assert.ErrorIs(t, err, main.ErrNoInput)
}

func TestApp_Run_ListingFailureIsFatal(t *testing.T) {
	t.Parallel()

	lister := &mock.ChangeLister{
		StagedFilesFn: func(context.Context) ([]commitgen.FileChange, error) {
			return nil, errors.New("not a repository")
		},
	}

	app := &main.App{Lister: lister, Generator: newTestGenerator(nil, nil)}

	_, err := app.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a repository")
}
