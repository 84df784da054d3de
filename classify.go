package commitgen

import (
	"path"
	"strings"
)

// toolingFiles maps exact (lowercased) basenames of generated or
// package-manager-owned files to their precomputed summaries.
var toolingFiles = map[string]string{
	"package-lock.json": "Update package dependencies",
	"yarn.lock":         "Update package dependencies",
	"pnpm-lock.yaml":    "Update package dependencies",
	"bun.lockb":         "Update package dependencies",
	"composer.lock":     "Update package dependencies",
	"gemfile.lock":      "Update package dependencies",
	"poetry.lock":       "Update package dependencies",
	"cargo.lock":        "Update package dependencies",
	"go.sum":            "Update package dependencies",
	"sitemap.xml":       "Update generated sitemap",
}

// toolingDirs are path prefixes whose contents are build artifacts.
var toolingDirs = []string{"dist/", "build/", "out/", "node_modules/", ".next/"}

// configExts are extensions (without dot) treated as configuration.
var configExts = map[string]bool{
	"json": true, "yaml": true, "yml": true, "toml": true,
	"ini": true, "conf": true, "config": true,
}

// configNames are well-known configuration names without a telling extension;
// matching is by substring so variants like Dockerfile.prod, GNUmakefile and
// backend.dockerfile resolve the same way.
var configNames = []string{"dockerfile", "makefile", ".env"}

// docExts are extensions treated as documentation.
var docExts = map[string]bool{"md": true, "txt": true, "rst": true, "adoc": true}

// Classify maps a repository-relative path to its FileCategory. It is a pure
// function evaluating an ordered rule table; precedence is
// tooling > configuration > documentation > test > code, so a file like
// config.test.json always resolves the same way.
func Classify(p string) FileCategory {
	lower := strings.ToLower(p)
	base := path.Base(lower)

	if summary, ok := toolingMatch(lower, base); ok {
		return FileCategory{Type: CategoryTooling, NeedsAnalysis: false, Summary: summary}
	}

	ext := strings.TrimPrefix(path.Ext(base), ".")
	if configExts[ext] || configNameMatch(base) {
		return FileCategory{Type: CategoryConfiguration, NeedsAnalysis: true}
	}

	if docExts[ext] {
		return FileCategory{Type: CategoryDocumentation, NeedsAnalysis: true}
	}

	if strings.Contains(lower, "test") || strings.Contains(lower, "spec") {
		return FileCategory{Type: CategoryTest, NeedsAnalysis: true}
	}

	return FileCategory{Type: CategoryCode, NeedsAnalysis: true}
}

// toolingMatch reports whether the path is a tooling file and, if so, its
// precomputed summary.
func toolingMatch(lower, base string) (string, bool) {
	if summary, ok := toolingFiles[base]; ok {
		return summary, true
	}
	for _, dir := range toolingDirs {
		if strings.HasPrefix(lower, dir) || strings.Contains(lower, "/"+dir) {
			return "Update build artifacts", true
		}
	}
	if strings.HasSuffix(base, ".min.js") || strings.HasSuffix(base, ".min.css") {
		return "Update generated files", true
	}
	if strings.HasSuffix(base, ".lock") {
		return "Update package dependencies", true
	}
	if strings.HasSuffix(base, "manifest.json") {
		return "Update generated manifest", true
	}
	return "", false
}

// configNameMatch reports whether the basename contains a well-known
// configuration name.
func configNameMatch(base string) bool {
	for _, name := range configNames {
		if strings.Contains(base, name) {
			return true
		}
	}
	return false
}
