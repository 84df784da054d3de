// Package commitgen provides domain types for AI-assisted commit message
// generation from staged version-control changes.
package commitgen

import (
	"context"
	"errors"
)

// FileStatus describes what happened to a file in the staged changeset.
type FileStatus string

// File statuses as reported by version control.
const (
	StatusAdded    FileStatus = "added"
	StatusModified FileStatus = "modified"
	StatusDeleted  FileStatus = "deleted"
	StatusRenamed  FileStatus = "renamed"
	StatusCopied   FileStatus = "copied"
)

// FileChange is one changed file as reported by version control.
type FileChange struct {
	Path    string     // repository-relative
	Status  FileStatus // added, modified, deleted, renamed, copied
	OldPath string     // set only when Status is StatusRenamed
}

// CategoryType is the classification of a changed file.
type CategoryType string

// File categories, in classification precedence order.
const (
	CategoryTooling       CategoryType = "tooling"
	CategoryConfiguration CategoryType = "configuration"
	CategoryDocumentation CategoryType = "documentation"
	CategoryTest          CategoryType = "test"
	CategoryCode          CategoryType = "code"
)

// FileCategory is the classification result for a path.
// Tooling is the unique category that skips AI analysis: NeedsAnalysis is
// false iff Type is CategoryTooling, and in that case Summary carries a
// precomputed description derived from the filename pattern.
type FileCategory struct {
	Type          CategoryType
	NeedsAnalysis bool
	Summary       string
}

// Impact is a coarse severity classification of a single file's change.
type Impact string

// Impact levels.
const (
	ImpactMajor   Impact = "major"
	ImpactMinor   Impact = "minor"
	ImpactTrivial Impact = "trivial"
)

// FileAnalysis is the per-file result feeding the final message.
// Created either from a parsed backend response or by a heuristic fallback;
// never mutated after creation.
type FileAnalysis struct {
	File     FileChange
	Category FileCategory
	Summary  string
	Impact   Impact
}

// AnalysisResult is the aggregate handed to the synthesizer.
// OverallScope and SuggestedCommitType are pure functions of FileAnalyses.
type AnalysisResult struct {
	FileAnalyses        []FileAnalysis // order preserved from input
	OverallScope        string
	SuggestedCommitType string
}

// CompletionRequest is a single text-completion call to a backend.
type CompletionRequest struct {
	Model  string // backend-specific model name, empty for the backend default
	System string // system prompt, optional
	Prompt string
}

// Backend is a text-completion service. Implementations must respect the
// request context's deadline and must distinguish an unreachable backend,
// a backend demanding authentication, and empty output by wrapping
// ErrBackendUnavailable, ErrAuthRequired, and ErrMalformedResponse.
type Backend interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// DiffRetriever returns staged diff text. An empty path requests the full
// staged diff. No truncation happens at this layer.
type DiffRetriever interface {
	StagedDiff(ctx context.Context, path string) (string, error)
}

// ChangeLister reports the staged changeset.
type ChangeLister interface {
	StagedFiles(ctx context.Context) ([]FileChange, error)
}

// Logger receives warnings from the pipeline. Per-file analysis failures are
// reported here instead of aborting the run.
type Logger interface {
	Warnf(format string, args ...any)
}

// NopLogger discards all warnings.
type NopLogger struct{}

// Warnf implements Logger.
func (NopLogger) Warnf(string, ...any) {}

// Error kinds shared by all backends. Backends wrap these with %w so callers
// can classify failures with errors.Is.
var (
	// ErrBackendUnavailable means the backend process/service cannot be
	// reached or is not installed.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrAuthRequired means the backend is reachable but demands
	// (re-)authentication.
	ErrAuthRequired = errors.New("backend authentication required")

	// ErrMalformedResponse means the backend answered with empty or
	// unusable output.
	ErrMalformedResponse = errors.New("backend returned a malformed response")

	// ErrNoChanges means there is nothing staged to describe.
	ErrNoChanges = errors.New("no staged changes")
)
