package commitgen

import "strings"

// SanitizeMessage strips markdown code fences a backend may wrap its answer
// in: an opening fence (with optional language tag) at the start, a closing
// fence at the end, and any line that is nothing but a fence marker. Inline
// backticks inside a line are preserved verbatim.
func SanitizeMessage(raw string) string {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "```" {
			continue
		}
		if i == 0 && isOpeningFence(trimmed) {
			continue
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// isOpeningFence reports whether the line is a fence marker with an optional
// language tag and nothing else.
func isOpeningFence(line string) bool {
	if !strings.HasPrefix(line, "```") {
		return false
	}
	tag := strings.TrimPrefix(line, "```")
	return !strings.ContainsAny(tag, " \t`")
}
