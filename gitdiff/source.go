// Package gitdiff serves the pipeline's view of a changeset from a unified
// diff parsed with bluekeyes/go-gitdiff, so a piped diff can stand in for a
// repository.
package gitdiff

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/fwojciec/commitgen"
)

// Compile-time interface verification.
var (
	_ commitgen.ChangeLister  = (*Source)(nil)
	_ commitgen.DiffRetriever = (*Source)(nil)
)

// Source lists changed files and retrieves per-file diff text from a diff
// parsed once at construction.
type Source struct {
	files []commitgen.FileChange
	diffs map[string]string
}

// NewSource parses a unified diff from r. The parser skips over text it does
// not recognize, so input that yields no usable file changes is rejected here
// rather than silently producing an empty changeset.
func NewSource(r io.Reader) (*Source, error) {
	files, _, err := gitdiff.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse diff: %w", err)
	}

	s := &Source{diffs: make(map[string]string, len(files))}
	for _, f := range files {
		if !hasContent(f) {
			continue
		}
		change := convertFile(f)
		s.files = append(s.files, change)
		s.diffs[change.Path] = renderFile(f)
	}
	if len(s.files) == 0 {
		return nil, errors.New("no file changes found in diff")
	}
	return s, nil
}

// hasContent reports whether a parsed file carries anything the pipeline can
// describe: diff hunks, binary content, or a status change.
func hasContent(f *gitdiff.File) bool {
	return len(f.TextFragments) > 0 || f.IsBinary || f.IsNew || f.IsDelete || f.IsRename || f.IsCopy
}

// StagedFiles returns the changed files in diff order.
func (s *Source) StagedFiles(_ context.Context) ([]commitgen.FileChange, error) {
	out := make([]commitgen.FileChange, len(s.files))
	copy(out, s.files)
	return out, nil
}

// StagedDiff returns the diff text for one file, or the whole diff when path
// is empty.
func (s *Source) StagedDiff(_ context.Context, path string) (string, error) {
	if path == "" {
		var sb strings.Builder
		for _, f := range s.files {
			sb.WriteString(s.diffs[f.Path])
		}
		return sb.String(), nil
	}
	diff, ok := s.diffs[path]
	if !ok {
		return "", fmt.Errorf("no diff for %s", path)
	}
	return diff, nil
}

func convertFile(f *gitdiff.File) commitgen.FileChange {
	change := commitgen.FileChange{Path: f.NewName}
	if change.Path == "" {
		change.Path = f.OldName
	}

	switch {
	case f.IsNew:
		change.Status = commitgen.StatusAdded
	case f.IsDelete:
		change.Status = commitgen.StatusDeleted
	case f.IsRename:
		change.Status = commitgen.StatusRenamed
		change.OldPath = f.OldName
	case f.IsCopy:
		change.Status = commitgen.StatusCopied
	default:
		change.Status = commitgen.StatusModified
	}
	return change
}

// renderFile re-renders a parsed file's fragments as unified diff text, which
// is what the analyzer embeds in prompts and counts lines over.
func renderFile(f *gitdiff.File) string {
	var sb strings.Builder

	if f.IsBinary {
		fmt.Fprintf(&sb, "Binary file %s changed\n", f.NewName)
		return sb.String()
	}

	for _, frag := range f.TextFragments {
		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@", frag.OldPosition, frag.OldLines, frag.NewPosition, frag.NewLines)
		if frag.Comment != "" {
			sb.WriteString(" ")
			sb.WriteString(frag.Comment)
		}
		sb.WriteString("\n")
		for _, line := range frag.Lines {
			sb.WriteString(linePrefix(line.Op))
			sb.WriteString(line.Line)
			if !strings.HasSuffix(line.Line, "\n") {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}

func linePrefix(op gitdiff.LineOp) string {
	switch op {
	case gitdiff.OpAdd:
		return "+"
	case gitdiff.OpDelete:
		return "-"
	default:
		return " "
	}
}
