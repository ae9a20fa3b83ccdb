package editorconfig

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// maxRangeExpansion bounds {n1..n2} expansion.
const maxRangeExpansion = 1024

var numericRange = regexp.MustCompile(`\{(-?\d+)\.\.(-?\d+)\}`)

// matchSection reports whether the section glob, declared in a property file
// located in dir, applies to target. Globs without a slash match the base
// name at any depth; globs with a slash are anchored at dir.
func matchSection(glob, dir, target string) bool {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	pattern := splitDoubleStars(expandRanges(glob))
	if strings.Contains(glob, "/") {
		pattern = strings.TrimPrefix(pattern, "/")
	} else {
		pattern = "**/" + pattern
	}
	ok, err := doublestar.Match(pattern, rel)
	return err == nil && ok
}

// expandRanges rewrites {n1..n2} into an alternation doublestar understands.
func expandRanges(glob string) string {
	return numericRange.ReplaceAllStringFunc(glob, func(m string) string {
		parts := numericRange.FindStringSubmatch(m)
		lo, err1 := strconv.Atoi(parts[1])
		hi, err2 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil {
			return m
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		if hi-lo >= maxRangeExpansion {
			return m
		}
		values := make([]string, 0, hi-lo+1)
		for i := lo; i <= hi; i++ {
			values = append(values, strconv.Itoa(i))
		}
		return "{" + strings.Join(values, ",") + "}"
	})
}

// splitDoubleStars turns a ** that shares a path segment with other
// characters into a segment of its own, so that it keeps matching across
// directories: models/**.sql becomes models/**/*.sql.
func splitDoubleStars(glob string) string {
	var sb strings.Builder
	for i := 0; i < len(glob); i++ {
		if glob[i] == '\\' && i+1 < len(glob) {
			sb.WriteByte(glob[i])
			sb.WriteByte(glob[i+1])
			i++
			continue
		}
		if glob[i] != '*' || i+1 >= len(glob) || glob[i+1] != '*' {
			sb.WriteByte(glob[i])
			continue
		}
		if i > 0 && glob[i-1] != '/' {
			sb.WriteString("*/")
		}
		sb.WriteString("**")
		i++
		if i+1 < len(glob) && glob[i+1] != '/' {
			sb.WriteString("/*")
		}
	}
	return sb.String()
}
