package github

import (
	"path"
	"path/filepath"
	"strings"
)

// DefaultExtensions are the file extensions listed by default.
var DefaultExtensions = []string{
	".md", ".markdown", ".txt", ".rst",
	".py", ".js", ".java", ".c", ".cpp", ".h",
	".html", ".css", ".json", ".yaml", ".yml",
	".ipynb", ".pdf",
}

// ListOptions filters which tree entries become file descriptors.
type ListOptions struct {
	// FilePatterns are glob patterns matched against the base name or full path.
	// Empty matches everything.
	FilePatterns []string

	// ExcludeDirs are directory names skipped at any depth.
	ExcludeDirs []string

	// Extensions is the allow-list of lower-case extensions.
	// Empty allows every extension.
	Extensions []string

	// MaxSize is the largest file size in bytes. Zero disables the limit.
	MaxSize int64
}

// allows reports whether a blob at p with the given size should be listed.
func (o ListOptions) allows(p string, size int64) bool {
	if o.MaxSize > 0 && size > o.MaxSize {
		return false
	}
	if inExcludedDir(p, o.ExcludeDirs) {
		return false
	}
	if len(o.Extensions) > 0 && !hasExtension(p, o.Extensions) {
		return false
	}
	return matchesPatterns(p, o.FilePatterns)
}

// inExcludedDir checks whether any directory component of p is excluded.
func inExcludedDir(p string, dirs []string) bool {
	if len(dirs) == 0 {
		return false
	}
	parts := strings.Split(path.Dir(p), "/")
	for _, part := range parts {
		for _, d := range dirs {
			if part == d {
				return true
			}
		}
	}
	return false
}

// hasExtension checks the extension of p case-insensitively.
func hasExtension(p string, exts []string) bool {
	ext := strings.ToLower(path.Ext(p))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// matchesPatterns checks if a path matches any of the glob patterns.
func matchesPatterns(p string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}

	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, path.Base(p))
		if err == nil && matched {
			return true
		}
		matched, err = filepath.Match(pattern, p)
		if err == nil && matched {
			return true
		}
	}
	return false
}

// ParsePatterns parses a comma-separated glob patterns string.
func ParsePatterns(s string) []string {
	parts := strings.Split(s, ",")
	patterns := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			patterns = append(patterns, part)
		}
	}
	return patterns
}
