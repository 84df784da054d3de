package commitgen

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DefaultMaxDiffChars bounds the diff text embedded in an analysis prompt.
// Longer diffs are truncated with a marker to keep per-call cost and latency
// bounded.
const DefaultMaxDiffChars = 3000

// DefaultCallTimeout bounds a single backend invocation. A call past its
// deadline hard-fails instead of hanging.
const DefaultCallTimeout = 45 * time.Second

// truncationMarker is appended to diffs cut at the analyzer's cap.
const truncationMarker = "\n... [diff truncated]"

// Analyzer produces a FileAnalysis for each changed file, one at a time.
// Files are never analyzed concurrently: the backend is typically a single
// local or remote inference engine with limited concurrent-request capacity,
// and sequential calls keep prompts small and isolated.
type Analyzer struct {
	backend Backend
	model   string
	diffs   DiffRetriever
	timeout time.Duration
	maxDiff int
	logger  Logger
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithAnalyzerTimeout sets the per-call backend timeout.
func WithAnalyzerTimeout(d time.Duration) AnalyzerOption {
	return func(a *Analyzer) { a.timeout = d }
}

// WithMaxDiffChars sets the diff truncation cap.
func WithMaxDiffChars(n int) AnalyzerOption {
	return func(a *Analyzer) { a.maxDiff = n }
}

// WithAnalyzerLogger sets the warning sink for per-file fallbacks.
func WithAnalyzerLogger(l Logger) AnalyzerOption {
	return func(a *Analyzer) { a.logger = l }
}

// NewAnalyzer creates an Analyzer. diffs may be nil if only AnalyzeDiff is
// used.
func NewAnalyzer(backend Backend, model string, diffs DiffRetriever, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		backend: backend,
		model:   model,
		diffs:   diffs,
		timeout: DefaultCallTimeout,
		maxDiff: DefaultMaxDiffChars,
		logger:  NopLogger{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze fetches the file's staged diff and analyzes it. Diff retrieval
// failures are fatal (the run cannot proceed without knowing what changed)
// and are the only non-cancellation error this method returns; backend
// failures degrade to a heuristic result instead.
func (a *Analyzer) Analyze(ctx context.Context, file FileChange, category FileCategory) (FileAnalysis, error) {
	if !category.NeedsAnalysis {
		return FileAnalysis{File: file, Category: category, Summary: category.Summary, Impact: ImpactTrivial}, nil
	}

	diff, err := a.diffs.StagedDiff(ctx, file.Path)
	if err != nil {
		return FileAnalysis{}, fmt.Errorf("retrieve diff for %s: %w", file.Path, err)
	}

	return a.AnalyzeDiff(ctx, file, category, diff)
}

// AnalyzeDiff analyzes an already-retrieved diff. A backend failure or
// unparsable response never propagates: the analysis falls back to a summary
// derived from the file's status and category and an impact estimated from
// the diff's changed-line count. The only error returned is context
// cancellation.
func (a *Analyzer) AnalyzeDiff(ctx context.Context, file FileChange, category FileCategory, diff string) (FileAnalysis, error) {
	analysis := FileAnalysis{File: file, Category: category}

	if strings.TrimSpace(diff) == "" {
		analysis.Summary = fmt.Sprintf("%s %s", file.Status, file.Path)
		analysis.Impact = ImpactTrivial
		return analysis, nil
	}

	prompt := BuildAnalysisPrompt(file, TruncateDiff(diff, a.maxDiff))

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	resp, err := a.backend.Complete(callCtx, CompletionRequest{
		Model:  a.model,
		System: AnalysisSystemPrompt(category.Type),
		Prompt: prompt,
	})
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return FileAnalysis{}, ctx.Err()
		}
		a.logger.Warnf("analysis of %s failed, using heuristic: %v", file.Path, err)
		analysis.Summary = FallbackSummary(file, category)
		analysis.Impact = EstimateImpact(diff)
		return analysis, nil
	}

	summary, impact := ParseAnalysisResponse(resp)
	if summary == "" {
		summary = FallbackSummary(file, category)
	}
	analysis.Summary = summary
	analysis.Impact = impact
	return analysis, nil
}

// TruncateDiff cuts diff text at max characters, appending a marker when
// anything was dropped.
func TruncateDiff(diff string, max int) string {
	if max <= 0 || len(diff) <= max {
		return diff
	}
	return diff[:max] + truncationMarker
}

// ParseAnalysisResponse scans a backend response for the two-line grammar
//
//	SUMMARY: <text>
//	IMPACT: major|minor|trivial
//
// Label matching is case-insensitive and labels may appear in any order.
// A missing summary yields "". An unrecognized or missing impact value
// defaults to minor.
func ParseAnalysisResponse(resp string) (summary string, impact Impact) {
	impact = ImpactMinor
	for _, line := range strings.Split(resp, "\n") {
		trimmed := strings.TrimSpace(line)
		upper := strings.ToUpper(trimmed)
		switch {
		case strings.HasPrefix(upper, "SUMMARY:"):
			if summary == "" {
				summary = strings.TrimSpace(trimmed[len("SUMMARY:"):])
			}
		case strings.HasPrefix(upper, "IMPACT:"):
			switch strings.ToLower(strings.TrimSpace(trimmed[len("IMPACT:"):])) {
			case "major":
				impact = ImpactMajor
			case "minor":
				impact = ImpactMinor
			case "trivial":
				impact = ImpactTrivial
			}
		}
	}
	return summary, impact
}

// FallbackSummary synthesizes a summary from the file's status and category,
// e.g. "Add code file src/auth.go".
func FallbackSummary(file FileChange, category FileCategory) string {
	return fmt.Sprintf("%s %s file %s", statusVerb(file.Status), category.Type, file.Path)
}

func statusVerb(status FileStatus) string {
	switch status {
	case StatusAdded:
		return "Add"
	case StatusDeleted:
		return "Remove"
	case StatusRenamed:
		return "Rename"
	case StatusCopied:
		return "Copy"
	default:
		return "Update"
	}
}

// EstimateImpact estimates a change's impact from its raw diff text by
// counting added and removed lines: more than 100 is major, more than 10 is
// minor, anything else trivial. Used when the backend cannot be consulted,
// so it must tolerate arbitrary (even truncated) input.
func EstimateImpact(diff string) Impact {
	changed := 0
	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---") {
			continue
		}
		if strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-") {
			changed++
		}
	}
	switch {
	case changed > 100:
		return ImpactMajor
	case changed > 10:
		return ImpactMinor
	default:
		return ImpactTrivial
	}
}

// BuildAnalysisPrompt creates the user prompt for a single file's analysis.
func BuildAnalysisPrompt(file FileChange, diff string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "File: %s\n", file.Path)
	fmt.Fprintf(&sb, "Status: %s\n", file.Status)
	if file.Status == StatusRenamed && file.OldPath != "" {
		fmt.Fprintf(&sb, "Renamed from: %s\n", file.OldPath)
	}
	sb.WriteString("\nDiff:\n")
	sb.WriteString(diff)
	return sb.String()
}

// Per-category system prompts. The response contract is identical across
// categories; only the reviewer's focus changes.
const (
	codeSystemPrompt = `You are a senior engineer reviewing a single file's diff. Describe what the change does to the program's behavior, not how the diff looks.
Respond with exactly two lines:
SUMMARY: <one concise sentence describing the change>
IMPACT: <major|minor|trivial>`

	testSystemPrompt = `You are reviewing a change to test code. Describe what behavior the tests now cover, fix, or drop.
Respond with exactly two lines:
SUMMARY: <one concise sentence describing the test change>
IMPACT: <major|minor|trivial>`

	docsSystemPrompt = `You are reviewing a documentation change. Describe what information was added, corrected, or removed.
Respond with exactly two lines:
SUMMARY: <one concise sentence describing the documentation change>
IMPACT: <major|minor|trivial>`

	configSystemPrompt = `You are reviewing a configuration change. Describe what setting or dependency changed and its effect.
Respond with exactly two lines:
SUMMARY: <one concise sentence describing the configuration change>
IMPACT: <major|minor|trivial>`
)

// AnalysisSystemPrompt selects the category-specific system prompt. The code
// prompt doubles as the fallback for unrecognized categories.
func AnalysisSystemPrompt(t CategoryType) string {
	switch t {
	case CategoryTest:
		return testSystemPrompt
	case CategoryDocumentation:
		return docsSystemPrompt
	case CategoryConfiguration:
		return configSystemPrompt
	default:
		return codeSystemPrompt
	}
}
