package sync

import (
	gitignore "github.com/sabhiram/go-gitignore"
)

// alwaysIgnored are files that are never pushed, regardless of the user's
// ignore patterns. They're written by editors and the OS while files are
// being edited.
var alwaysIgnored = []string{".DS_Store", "Thumbs.db", "*.swp", "*~"}

// IgnoreList decides which files in the watched directory are excluded from
// syncing. Patterns use the gitignore syntax.
type IgnoreList struct {
	matcher *gitignore.GitIgnore
}

// NewIgnoreList compiles `patterns` along with the default ignore patterns.
func NewIgnoreList(patterns []string) *IgnoreList {
	lines := append(append([]string{}, alwaysIgnored...), patterns...)
	return &IgnoreList{matcher: gitignore.CompileIgnoreLines(lines...)}
}

// ShouldIgnore returns whether the file with the given relative name should
// be skipped.
func (l *IgnoreList) ShouldIgnore(name string) bool {
	if l == nil || l.matcher == nil {
		return false
	}
	return l.matcher.MatchesPath(name)
}
