package mock

import (
	"context"

	"github.com/fwojciec/commitgen"
)

// Compile-time interface verification.
var _ commitgen.Backend = (*Backend)(nil)

// Backend is a mock implementation of commitgen.Backend.
type Backend struct {
	CompleteFn func(ctx context.Context, req commitgen.CompletionRequest) (string, error)
}

func (b *Backend) Complete(ctx context.Context, req commitgen.CompletionRequest) (string, error) {
	return b.CompleteFn(ctx, req)
}
