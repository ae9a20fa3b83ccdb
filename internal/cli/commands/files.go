package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern selects every SQL file below the working directory.
const DefaultPattern = "**/*.sql"

// patterns splits file arguments into include and exclude globs. A pattern
// starting with ! excludes. A directory argument means every SQL file in it.
type patterns struct {
	dir      string
	includes []string
	excludes []string
}

func newPatterns(dir string, args []string) patterns {
	p := patterns{dir: dir}
	for _, arg := range args {
		if rest, ok := strings.CutPrefix(arg, "!"); ok {
			p.excludes = append(p.excludes, p.normalize(rest))
			continue
		}
		if info, err := os.Stat(p.abs(arg)); err == nil && info.IsDir() {
			arg = filepath.Join(arg, DefaultPattern)
		}
		p.includes = append(p.includes, p.normalize(arg))
	}
	if len(p.includes) == 0 {
		p.includes = []string{DefaultPattern}
	}
	return p
}

// normalize turns a pattern into a slash separated pattern relative to dir
// when possible.
func (p patterns) normalize(pattern string) string {
	pattern = filepath.ToSlash(filepath.Clean(pattern))
	if !filepath.IsAbs(filepath.FromSlash(pattern)) {
		if pattern != ".." && !strings.HasPrefix(pattern, "../") {
			return pattern
		}
		pattern = filepath.ToSlash(filepath.Join(p.dir, filepath.FromSlash(pattern)))
	}
	base, rest := doublestar.SplitPattern(pattern)
	if rel, err := filepath.Rel(p.dir, filepath.FromSlash(base)); err == nil && !strings.HasPrefix(rel, "..") {
		if rel == "." {
			return rest
		}
		return filepath.ToSlash(rel) + "/" + rest
	}
	return pattern
}

func (p patterns) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.dir, path)
}

// Expand returns the absolute paths of the matching files, sorted.
func (p patterns) Expand() ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range p.includes {
		root, glob := p.dir, pattern
		if filepath.IsAbs(filepath.FromSlash(pattern)) {
			base, rest := doublestar.SplitPattern(pattern)
			root, glob = filepath.FromSlash(base), rest
		}
		matches, err := doublestar.Glob(os.DirFS(root), glob, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			path := filepath.Join(root, filepath.FromSlash(m))
			if seen[path] || p.excluded(path) {
				continue
			}
			seen[path] = true
			files = append(files, path)
		}
	}
	slices.Sort(files)
	return files, nil
}

// Match reports whether path is selected by the patterns.
func (p patterns) Match(path string) bool {
	if p.excluded(path) {
		return false
	}
	for _, pattern := range p.includes {
		if p.matches(pattern, path) {
			return true
		}
	}
	return false
}

func (p patterns) excluded(path string) bool {
	for _, pattern := range p.excludes {
		if p.matches(pattern, path) {
			return true
		}
	}
	return false
}

func (p patterns) matches(pattern, path string) bool {
	target := filepath.ToSlash(path)
	if !filepath.IsAbs(filepath.FromSlash(pattern)) {
		rel, err := filepath.Rel(p.dir, path)
		if err != nil {
			return false
		}
		target = filepath.ToSlash(rel)
	}
	ok, _ := doublestar.Match(pattern, target)
	return ok
}
