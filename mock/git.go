package mock

import (
	"context"

	"github.com/fwojciec/commitgen"
)

// Compile-time interface verification.
var (
	_ commitgen.DiffRetriever = (*DiffRetriever)(nil)
	_ commitgen.ChangeLister  = (*ChangeLister)(nil)
)

// DiffRetriever is a mock implementation of commitgen.DiffRetriever.
type DiffRetriever struct {
	StagedDiffFn func(ctx context.Context, path string) (string, error)
}

func (r *DiffRetriever) StagedDiff(ctx context.Context, path string) (string, error) {
	return r.StagedDiffFn(ctx, path)
}

// ChangeLister is a mock implementation of commitgen.ChangeLister.
type ChangeLister struct {
	StagedFilesFn func(ctx context.Context) ([]commitgen.FileChange, error)
}

func (l *ChangeLister) StagedFiles(ctx context.Context) ([]commitgen.FileChange, error) {
	return l.StagedFilesFn(ctx)
}
