// Package sourcepos reconstructs line/column positions from byte offsets
// using a precomputed line index, so parsers pay O(log n) per match instead
// of re-scanning the document for every construct they find.
package sourcepos

import "sort"

// Position is the external-facing location of a parsed construct.
// Line and Column are 1-based; ByteOffset is 0-based. Length is the byte
// span of the matched construct.
type Position struct {
	Line       int `json:"line"`
	Column     int `json:"column"`
	ByteOffset int `json:"byteOffset"`
	Length     int `json:"length"`
}

// Index is a precomputed table of cumulative byte offsets for each line
// start in a document, enabling O(log n) offset->(line,column) lookups.
type Index struct {
	// starts[i] is the byte offset of the first byte of line i+1 (1-based
	// line numbers; starts[0] is always 0).
	starts []int
}

// NewIndex builds a line index over text. Lines are delimited by '\n';
// the trailing newline (if any) ends a line rather than starting an empty
// one after it, matching how editors report line counts.
func NewIndex(text string) *Index {
	starts := make([]int, 1, 64)
	starts[0] = 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' && i+1 < len(text) {
			starts = append(starts, i+1)
		}
	}
	return &Index{starts: starts}
}

// Position returns the 1-based line/column for a 0-based byte offset and
// packages it with length into a Position.
func (idx *Index) Position(offset, length int) Position {
	line, col := idx.LineCol(offset)
	return Position{Line: line, Column: col, ByteOffset: offset, Length: length}
}

// LineCol returns the 1-based (line, column) for a 0-based byte offset.
func (idx *Index) LineCol(offset int) (line, column int) {
	// Find the last line start <= offset via binary search.
	i := sort.Search(len(idx.starts), func(i int) bool { return idx.starts[i] > offset })
	lineIdx := i - 1
	if lineIdx < 0 {
		lineIdx = 0
	}
	line = lineIdx + 1
	column = offset - idx.starts[lineIdx] + 1
	return line, column
}

// LineCount returns the number of lines recorded in the index.
func (idx *Index) LineCount() int {
	return len(idx.starts)
}

// LineStart returns the 0-based byte offset where the given 1-based line
// begins. Returns -1 if out of range.
func (idx *Index) LineStart(line int) int {
	if line < 1 || line > len(idx.starts) {
		return -1
	}
	return idx.starts[line-1]
}
