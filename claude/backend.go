// Package claude invokes the Claude Code CLI as a text completion backend,
// using the user's existing subscription instead of an API key.
package claude

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/fwojciec/commitgen"
)

// Compile-time interface verification.
var _ commitgen.Backend = (*Backend)(nil)

// Default model aliases understood by the claude CLI.
const (
	DefaultAnalysisModel  = "haiku"
	DefaultSynthesisModel = "sonnet"
)

// DefaultCommand is the CLI executable looked up on PATH.
const DefaultCommand = "claude"

// Backend runs the claude CLI in non-interactive print mode, passing the
// prompt on stdin to avoid argument length limits on large diffs.
type Backend struct {
	command string
}

// Option configures a Backend.
type Option func(*Backend)

// WithCommand overrides the executable name. Used in tests.
func WithCommand(command string) Option {
	return func(b *Backend) { b.command = command }
}

// New creates a Backend.
func New(opts ...Option) *Backend {
	b := &Backend{command: DefaultCommand}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Complete implements commitgen.Backend.
func (b *Backend) Complete(ctx context.Context, req commitgen.CompletionRequest) (string, error) {
	path, err := exec.LookPath(b.command)
	if err != nil {
		return "", fmt.Errorf("%s not found on PATH: %w", b.command, commitgen.ErrBackendUnavailable)
	}

	args := []string{"-p"}
	if req.Model != "" {
		args = append(args, "--model", req.Model)
	}
	if req.System != "" {
		args = append(args, "--append-system-prompt", req.System)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = strings.NewReader(req.Prompt)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%s did not answer in time: %w", b.command, commitgen.ErrBackendUnavailable)
		}
		detail := firstLine(stderr.String())
		if isAuthFailure(detail) {
			return "", fmt.Errorf("%s: %s: %w", b.command, detail, commitgen.ErrAuthRequired)
		}
		if detail == "" {
			detail = err.Error()
		}
		return "", fmt.Errorf("%s failed: %s", b.command, detail)
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return "", fmt.Errorf("%s produced no output: %w", b.command, commitgen.ErrMalformedResponse)
	}
	return out, nil
}

// isAuthFailure recognizes the CLI's login and credential errors on stderr.
func isAuthFailure(stderr string) bool {
	lower := strings.ToLower(stderr)
	for _, marker := range []string{"/login", "log in", "login", "authentication", "api key", "oauth", "credential"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
