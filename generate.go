package commitgen

import (
	"context"
	"strings"
)

// ProgressFunc is invoked synchronously before each per-file analysis step.
// index is zero-based. The pipeline never depends on its behavior.
type ProgressFunc func(index, total int, path string)

// Generator runs the whole pipeline: classify each file, analyze files
// sequentially, aggregate, and synthesize one commit message.
type Generator struct {
	analyzer    *Analyzer
	synthesizer *Synthesizer
	progress    ProgressFunc
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithProgress sets the per-file progress callback.
func WithProgress(fn ProgressFunc) GeneratorOption {
	return func(g *Generator) { g.progress = fn }
}

// NewGenerator creates a Generator.
func NewGenerator(analyzer *Analyzer, synthesizer *Synthesizer, opts ...GeneratorOption) *Generator {
	g := &Generator{analyzer: analyzer, synthesizer: synthesizer}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces a commit message for the given changed files. Files are
// processed strictly one at a time in input order; every file yields exactly
// one FileAnalysis even when the backend fails for all of them. Only diff
// retrieval failures and final synthesis failures abort the run.
func (g *Generator) Generate(ctx context.Context, files []FileChange) (string, error) {
	if len(files) == 0 {
		return "", ErrNoChanges
	}

	analyses := make([]FileAnalysis, 0, len(files))
	for i, file := range files {
		if g.progress != nil {
			g.progress(i, len(files), file.Path)
		}
		analysis, err := g.analyzer.Analyze(ctx, file, Classify(file.Path))
		if err != nil {
			return "", err
		}
		analyses = append(analyses, analysis)
	}

	return g.synthesizer.Synthesize(ctx, Aggregate(analyses))
}

// GenerateFromDiff is the degenerate single-diff variant of the pipeline: the
// whole diff becomes one synthetic code-file analysis and goes straight to
// synthesis. It fails fast on blank input before any backend call.
func (g *Generator) GenerateFromDiff(ctx context.Context, diff string) (string, error) {
	if strings.TrimSpace(diff) == "" {
		return "", ErrNoChanges
	}

	file := FileChange{Path: "staged changes", Status: StatusModified}
	category := FileCategory{Type: CategoryCode, NeedsAnalysis: true}
	if g.progress != nil {
		g.progress(0, 1, file.Path)
	}
	analysis, err := g.analyzer.AnalyzeDiff(ctx, file, category, diff)
	if err != nil {
		return "", err
	}

	return g.synthesizer.Synthesize(ctx, Aggregate([]FileAnalysis{analysis}))
}
