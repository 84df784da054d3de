// Package git provides access to git operations via shell commands.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/fwojciec/commitgen"
)

// Compile-time interface verification.
var (
	_ commitgen.ChangeLister  = (*Repo)(nil)
	_ commitgen.DiffRetriever = (*Repo)(nil)
)

// Repo executes git commands against a working directory.
type Repo struct {
	dir string
}

// NewRepo creates a Repo rooted at dir.
func NewRepo(dir string) *Repo {
	return &Repo{dir: dir}
}

// run executes a git subcommand and returns its stdout. Failures carry git's
// stderr, which is the useful part of a git error.
func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"-C", r.dir}, args...)
	cmd := exec.CommandContext(ctx, "git", full...)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("git %s failed: %s", args[0], strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s failed: %w", args[0], err)
	}
	return string(output), nil
}

// IsRepo reports whether dir is inside a git work tree.
func (r *Repo) IsRepo(ctx context.Context) bool {
	out, err := r.run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// StagedFiles lists the staged changeset with rename detection.
func (r *Repo) StagedFiles(ctx context.Context) ([]commitgen.FileChange, error) {
	out, err := r.run(ctx, "diff", "--cached", "--name-status", "-M")
	if err != nil {
		return nil, err
	}

	var files []commitgen.FileChange
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		change, err := parseNameStatus(line)
		if err != nil {
			return nil, err
		}
		files = append(files, change)
	}
	return files, nil
}

// parseNameStatus parses one line of `git diff --name-status` output, e.g.
// "M\tmain.go" or "R100\told.go\tnew.go".
func parseNameStatus(line string) (commitgen.FileChange, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 2 {
		return commitgen.FileChange{}, fmt.Errorf("unexpected name-status line: %q", line)
	}

	code := fields[0]
	switch code[0] {
	case 'A':
		return commitgen.FileChange{Path: fields[1], Status: commitgen.StatusAdded}, nil
	case 'D':
		return commitgen.FileChange{Path: fields[1], Status: commitgen.StatusDeleted}, nil
	case 'R':
		if len(fields) < 3 {
			return commitgen.FileChange{}, fmt.Errorf("rename without target: %q", line)
		}
		return commitgen.FileChange{Path: fields[2], Status: commitgen.StatusRenamed, OldPath: fields[1]}, nil
	case 'C':
		if len(fields) < 3 {
			return commitgen.FileChange{}, fmt.Errorf("copy without target: %q", line)
		}
		return commitgen.FileChange{Path: fields[2], Status: commitgen.StatusCopied}, nil
	default:
		// M, T and anything else git may report reads as a modification.
		return commitgen.FileChange{Path: fields[1], Status: commitgen.StatusModified}, nil
	}
}

// StagedDiff returns the staged diff, restricted to one file when path is
// non-empty. Output is returned whole; truncation is the analyzer's job.
func (r *Repo) StagedDiff(ctx context.Context, path string) (string, error) {
	args := []string{"diff", "--cached"}
	if path != "" {
		args = append(args, "--", path)
	}
	return r.run(ctx, args...)
}

// StageAll stages all changes in the work tree.
func (r *Repo) StageAll(ctx context.Context) error {
	_, err := r.run(ctx, "add", "-A")
	return err
}

// Commit records the staged changes with the given message.
func (r *Repo) Commit(ctx context.Context, message string) error {
	_, err := r.run(ctx, "commit", "-m", message)
	return err
}

// Push pushes the current branch to its upstream.
func (r *Repo) Push(ctx context.Context) error {
	_, err := r.run(ctx, "push")
	return err
}
