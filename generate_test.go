package commitgen_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/commitgen"
	"github.com/fwojciec/commitgen/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPipeline(backend commitgen.Backend, retriever commitgen.DiffRetriever, opts ...commitgen.GeneratorOption) *commitgen.Generator {
	analyzer := commitgen.NewAnalyzer(backend, "fast", retriever)
	synthesizer := commitgen.NewSynthesizer(backend, "quality")
	return commitgen.NewGenerator(analyzer, synthesizer, opts...)
}

func TestGenerator_EmptyInputFailsFast(t *testing.T) {
	t.Parallel()

	backend := &mock.Backend{
		CompleteFn: func(context.Context, commitgen.CompletionRequest) (string, error) {
			t.Fatal("no backend call expected")
			return "", nil
		},
	}
	g := newPipeline(backend, nil)

	_, err := g.Generate(context.Background(), nil)

	assert.ErrorIs(t, err, commitgen.ErrNoChanges)
}

func TestGenerator_EndToEnd(t *testing.T) {
	t.Parallel()

	files := []commitgen.FileChange{
		{Path: "src/a.ts", Status: commitgen.StatusAdded},
		{Path: "pnpm-lock.yaml", Status: commitgen.StatusModified},
	}

	var analysisCalls []string
	backend := &mock.Backend{
		CompleteFn: func(_ context.Context, req commitgen.CompletionRequest) (string, error) {
			if req.Model == "fast" {
				analysisCalls = append(analysisCalls, req.Prompt)
				return "SUMMARY: Add the a module\nIMPACT: minor", nil
			}
			// synthesis sees the lockfile as a trivial entry
			assert.Contains(t, req.Prompt, "Update package dependencies")
			return "feat: add a module", nil
		},
	}
	retriever := &mock.DiffRetriever{
		StagedDiffFn: func(_ context.Context, path string) (string, error) {
			require.Equal(t, "src/a.ts", path, "only the .ts file needs a diff")
			return "@@ -0,0 +1,2 @@\n+export {}\n+// a\n", nil
		},
	}

	g := newPipeline(backend, retriever)

	got, err := g.Generate(context.Background(), files)

	require.NoError(t, err)
	assert.Equal(t, "feat: add a module", got)
	require.Len(t, analysisCalls, 1, "lockfile must not trigger a backend call")
	assert.Contains(t, analysisCalls[0], "src/a.ts")
}

func TestGenerator_AllBackendFailuresStillYieldMessagePipeline(t *testing.T) {
	t.Parallel()

	files := []commitgen.FileChange{
		{Path: "a.go", Status: commitgen.StatusModified},
		{Path: "b.go", Status: commitgen.StatusModified},
		{Path: "c.go", Status: commitgen.StatusModified},
	}

	var synthesisPrompt string
	backend := &mock.Backend{
		CompleteFn: func(_ context.Context, req commitgen.CompletionRequest) (string, error) {
			if req.Model == "fast" {
				return "", errors.New("backend down")
			}
			synthesisPrompt = req.Prompt
			return "fix: patch things", nil
		},
	}
	retriever := &mock.DiffRetriever{
		StagedDiffFn: func(_ context.Context, path string) (string, error) {
			return "@@ -1 +1 @@\n-x\n+y\n", nil
		},
	}

	g := newPipeline(backend, retriever)

	got, err := g.Generate(context.Background(), files)

	require.NoError(t, err, "per-file failures never abort the batch")
	assert.Equal(t, "fix: patch things", got)
	// All three files reached the synthesis context via heuristic fallbacks.
	for _, path := range []string{"a.go", "b.go", "c.go"} {
		assert.Contains(t, synthesisPrompt, path)
	}
}

func TestGenerator_ProgressCallbackOrder(t *testing.T) {
	t.Parallel()

	files := []commitgen.FileChange{
		{Path: "one.go", Status: commitgen.StatusModified},
		{Path: "two.go", Status: commitgen.StatusModified},
	}

	backend := &mock.Backend{
		CompleteFn: func(_ context.Context, req commitgen.CompletionRequest) (string, error) {
			if req.Model == "fast" {
				return "SUMMARY: s\nIMPACT: minor", nil
			}
			return "fix: stuff", nil
		},
	}
	retriever := &mock.DiffRetriever{
		StagedDiffFn: func(context.Context, string) (string, error) {
			return "@@ -1 +1 @@\n+x\n", nil
		},
	}

	var calls []string
	g := newPipeline(backend, retriever, commitgen.WithProgress(func(index, total int, path string) {
		calls = append(calls, path)
		assert.Equal(t, 2, total)
	}))

	_, err := g.Generate(context.Background(), files)

	require.NoError(t, err)
	assert.Equal(t, []string{"one.go", "two.go"}, calls, "stable input order")
}

func TestGenerator_GenerateFromDiff(t *testing.T) {
	t.Parallel()

	backend := &mock.Backend{
		CompleteFn: func(_ context.Context, req commitgen.CompletionRequest) (string, error) {
			if req.Model == "fast" {
				return "SUMMARY: Rework everything\nIMPACT: major", nil
			}
			assert.Contains(t, req.Prompt, "Rework everything")
			return "feat: rework everything", nil
		},
	}

	g := newPipeline(backend, nil)

	got, err := g.GenerateFromDiff(context.Background(), "@@ -1 +1 @@\n-a\n+b\n")

	require.NoError(t, err)
	assert.Equal(t, "feat: rework everything", got)
}

func TestGenerator_GenerateFromDiff_BlankInput(t *testing.T) {
	t.Parallel()

	backend := &mock.Backend{
		CompleteFn: func(context.Context, commitgen.CompletionRequest) (string, error) {
			t.Fatal("no backend call expected for blank diffs")
			return "", nil
		},
	}
	g := newPipeline(backend, nil)

	_, err := g.GenerateFromDiff(context.Background(), "   \n\t\n")

	assert.ErrorIs(t, err, commitgen.ErrNoChanges)
}
