package token

import "sort"

// LineIndex maps byte offsets to line and column numbers.
type LineIndex struct {
	starts []int // offset of the first byte of every line
	size   int
}

// NewLineIndex indexes the line starts of text. Only '\n' terminates a line;
// input is expected to be normalised before indexing.
func NewLineIndex(text string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts, size: len(text)}
}

// Position converts offset into a Position. Offsets beyond the end of the
// text are clamped to the end.
func (x *LineIndex) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > x.size {
		offset = x.size
	}
	line := sort.Search(len(x.starts), func(i int) bool { return x.starts[i] > offset }) - 1
	return Position{
		Line:   line + 1,
		Column: offset - x.starts[line] + 1,
		Offset: offset,
	}
}

// LineCount returns the number of lines, counting a trailing empty line.
func (x *LineIndex) LineCount() int {
	return len(x.starts)
}

// LineSpan returns the span of line (1-based) excluding its terminator.
func (x *LineIndex) LineSpan(line int) Span {
	if line < 1 || line > len(x.starts) {
		return Span{Start: x.size, End: x.size}
	}
	start := x.starts[line-1]
	end := x.size
	if line < len(x.starts) {
		end = x.starts[line] - 1
	}
	return Span{Start: start, End: end}
}
