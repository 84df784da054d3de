package commitgen

import (
	"fmt"
	"strings"
)

// maxListedTrivial is the largest number of trivial changes rendered
// individually in the context block; beyond it they collapse to one count
// line to keep the synthesis prompt bounded.
const maxListedTrivial = 5

// Aggregate combines per-file analyses into an AnalysisResult. It is pure
// and deterministic: the same analyses always yield the same scope and
// suggested commit type.
func Aggregate(analyses []FileAnalysis) AnalysisResult {
	var code, test, docs, config, tooling, major int
	addedCode := false
	for _, a := range analyses {
		switch a.Category.Type {
		case CategoryCode:
			code++
			if a.File.Status == StatusAdded {
				addedCode = true
			}
		case CategoryTest:
			test++
		case CategoryDocumentation:
			docs++
		case CategoryConfiguration:
			config++
		case CategoryTooling:
			tooling++
		}
		if a.Impact == ImpactMajor {
			major++
		}
	}

	return AnalysisResult{
		FileAnalyses:        analyses,
		OverallScope:        overallScope(code, test, docs, config, tooling, major),
		SuggestedCommitType: suggestedCommitType(code, test, docs, addedCode, major),
	}
}

// overallScope implements the scope decision table, first match wins.
func overallScope(code, test, docs, config, tooling, major int) string {
	switch {
	case major > 0 && code > 3:
		return "large feature implementation"
	case major > 0 && code >= 1:
		return "feature implementation"
	case major > 0:
		return "significant change"
	case code > 0 && test > 0:
		return "implementation with tests"
	case code > 0:
		return "code changes"
	case test > 0:
		return "test updates"
	case docs > 0:
		return "documentation updates"
	case config > 0:
		return "configuration changes"
	case tooling > 0:
		return "tooling updates"
	default:
		return "misc changes"
	}
}

// suggestedCommitType implements the commit-type decision table, first match
// wins. A newly added code file always reads as a feature.
func suggestedCommitType(code, test, docs int, addedCode bool, major int) string {
	switch {
	case addedCode:
		return "feat"
	case major > 0:
		return "feat"
	case code > 0:
		return "fix"
	case test > 0:
		return "test"
	case docs > 0:
		return "docs"
	default:
		return "chore"
	}
}

// ContextBlock renders the analyses as plain text grouped by impact, for
// embedding in the synthesis prompt.
func (r AnalysisResult) ContextBlock() string {
	var sb strings.Builder

	writeGroup(&sb, "Major changes", r.byImpact(ImpactMajor))
	writeGroup(&sb, "Minor changes", r.byImpact(ImpactMinor))

	trivial := r.byImpact(ImpactTrivial)
	if len(trivial) > maxListedTrivial {
		fmt.Fprintf(&sb, "Trivial changes:\n- %d trivial changes (lockfiles, generated files, small edits)\n", len(trivial))
	} else {
		writeGroup(&sb, "Trivial changes", trivial)
	}

	return strings.TrimRight(sb.String(), "\n")
}

func (r AnalysisResult) byImpact(impact Impact) []FileAnalysis {
	var out []FileAnalysis
	for _, a := range r.FileAnalyses {
		if a.Impact == impact {
			out = append(out, a)
		}
	}
	return out
}

func writeGroup(sb *strings.Builder, title string, analyses []FileAnalysis) {
	if len(analyses) == 0 {
		return
	}
	sb.WriteString(title)
	sb.WriteString(":\n")
	for _, a := range analyses {
		fmt.Fprintf(sb, "- %s (%s): %s\n", a.File.Path, a.File.Status, a.Summary)
	}
}
