package gitdiff_test

import (
	"context"
	"strings"
	"testing"

	"github.com/fwojciec/commitgen"
	"github.com/fwojciec/commitgen/gitdiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDiff = `diff --git a/hello.go b/hello.go
new file mode 100644
index 0000000..e69de29
--- /dev/null
+++ b/hello.go
@@ -0,0 +1,3 @@
+package main
+
+func hello() {}
diff --git a/old.go b/old.go
deleted file mode 100644
index e69de29..0000000
--- a/old.go
+++ /dev/null
@@ -1,1 +0,0 @@
-package old
diff --git a/before.go b/after.go
similarity index 90%
rename from before.go
rename to after.go
index 1111111..2222222 100644
--- a/before.go
+++ b/after.go
@@ -1,2 +1,2 @@
 package x
-var a = 1
+var a = 2
`

func newSource(t *testing.T) *gitdiff.Source {
	t.Helper()
	src, err := gitdiff.NewSource(strings.NewReader(sampleDiff))
	require.NoError(t, err)
	return src
}

func TestSource_StagedFiles(t *testing.T) {
	t.Parallel()

	src := newSource(t)

	files, err := src.StagedFiles(context.Background())

	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, commitgen.FileChange{Path: "hello.go", Status: commitgen.StatusAdded}, files[0])
	assert.Equal(t, commitgen.FileChange{Path: "old.go", Status: commitgen.StatusDeleted}, files[1])
	assert.Equal(t, commitgen.FileChange{Path: "after.go", Status: commitgen.StatusRenamed, OldPath: "before.go"}, files[2])
}

func TestSource_StagedDiffPerFile(t *testing.T) {
	t.Parallel()

	src := newSource(t)

	diff, err := src.StagedDiff(context.Background(), "hello.go")

	require.NoError(t, err)
	assert.Contains(t, diff, "@@ -0,0 +1,3 @@")
	assert.Contains(t, diff, "+func hello() {}")
	assert.NotContains(t, diff, "package old", "per-file diff must not leak other files")
}

func TestSource_StagedDiffWholeChangeset(t *testing.T) {
	t.Parallel()

	src := newSource(t)

	diff, err := src.StagedDiff(context.Background(), "")

	require.NoError(t, err)
	assert.Contains(t, diff, "+func hello() {}")
	assert.Contains(t, diff, "-package old")
	assert.Contains(t, diff, "+var a = 2")
}

func TestSource_StagedDiffUnknownPath(t *testing.T) {
	t.Parallel()

	src := newSource(t)

	_, err := src.StagedDiff(context.Background(), "missing.go")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.go")
}

func TestSource_RenderedDiffFeedsImpactHeuristic(t *testing.T) {
	t.Parallel()

	src := newSource(t)

	diff, err := src.StagedDiff(context.Background(), "after.go")
	require.NoError(t, err)

	// One removed and one added line: trivial territory.
	assert.Equal(t, commitgen.ImpactTrivial, commitgen.EstimateImpact(diff))
}

func TestNewSource_RejectsInputWithoutChanges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"plain text", "hello\nworld\n"},
		{"header without usable hunks", "diff --git a/x b/x\n@@ nonsense"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := gitdiff.NewSource(strings.NewReader(tt.input))

			require.Error(t, err)
			assert.Contains(t, err.Error(), "no file changes")
		})
	}
}
