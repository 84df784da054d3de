package commitgen

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Synthesizer turns an AnalysisResult into the final commit message with a
// single backend call. Unlike per-file analysis there is no heuristic
// fallback here: producing a wrong commit message silently is worse than
// failing visibly, so backend errors propagate.
type Synthesizer struct {
	backend Backend
	model   string
	timeout time.Duration
}

// SynthesizerOption configures a Synthesizer.
type SynthesizerOption func(*Synthesizer)

// WithSynthesizerTimeout sets the backend call timeout.
func WithSynthesizerTimeout(d time.Duration) SynthesizerOption {
	return func(s *Synthesizer) { s.timeout = d }
}

// NewSynthesizer creates a Synthesizer.
func NewSynthesizer(backend Backend, model string, opts ...SynthesizerOption) *Synthesizer {
	s := &Synthesizer{
		backend: backend,
		model:   model,
		timeout: DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize generates the commit message for the aggregated analyses.
func (s *Synthesizer) Synthesize(ctx context.Context, result AnalysisResult) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.backend.Complete(ctx, CompletionRequest{
		Model:  s.model,
		System: synthesisSystemPrompt,
		Prompt: BuildSynthesisPrompt(result),
	})
	if err != nil {
		return "", fmt.Errorf("generate commit message: %w", err)
	}

	message := SanitizeMessage(raw)
	if message == "" {
		return "", fmt.Errorf("generate commit message: %w", ErrMalformedResponse)
	}
	return message, nil
}

const synthesisSystemPrompt = `You write git commit messages in the Conventional Commits format: type(scope): description.
Rules:
- Keep the first line under 72 characters.
- Use present-tense imperative mood ("add", not "added" or "adds").
- When there are multiple significant changes, follow the first line with a blank line and one bullet per significant change saying what changed and why, derived from the per-file summaries. Do not restate the file list generically.
- Output only the commit message. No markdown, no code fences, no commentary.`

// BuildSynthesisPrompt creates the user prompt for final message synthesis
// from the aggregated context.
func BuildSynthesisPrompt(result AnalysisResult) string {
	var sb strings.Builder
	sb.WriteString("Write a commit message for the following staged changes.\n\n")
	fmt.Fprintf(&sb, "Overall scope: %s\n", result.OverallScope)
	fmt.Fprintf(&sb, "Suggested commit type: %s\n\n", result.SuggestedCommitType)
	sb.WriteString(result.ContextBlock())
	sb.WriteString("\n\nUse the suggested commit type unless the changes clearly demand another conventional type.")
	return sb.String()
}
