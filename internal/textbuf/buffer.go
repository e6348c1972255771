// Package textbuf implements the buffer collaborator the command core
// operates on: a rune-addressed text with line index, cursor offset and
// literal search. The core packages depend on small interfaces satisfied
// by *Buffer; nothing here knows about motions or tags.
package textbuf

import (
	"os"
	"sort"
)

// Buffer holds file text as runes plus an index of line start offsets.
// All positions are rune offsets into the text.
type Buffer struct {
	path   string
	text   []rune
	starts []int
	pos    int
}

// New creates a buffer from content. path is reported by Path and may be empty.
func New(content, path string) *Buffer {
	b := &Buffer{path: path, text: []rune(content)}
	b.reindex()
	return b
}

// Load reads path into a new buffer.
func Load(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(string(data), path), nil
}

// Save writes the buffer text back to its path.
func (b *Buffer) Save() error {
	return os.WriteFile(b.path, []byte(string(b.text)), 0o644)
}

func (b *Buffer) reindex() {
	b.starts = b.starts[:0]
	b.starts = append(b.starts, 0)
	for i, r := range b.text {
		if r == '\n' && i+1 < len(b.text) {
			b.starts = append(b.starts, i+1)
		}
	}
}

func (b *Buffer) Path() string { return b.path }

func (b *Buffer) Len() int { return len(b.text) }

func (b *Buffer) String() string { return string(b.text) }

// Pos returns the cursor offset.
func (b *Buffer) Pos() int { return b.pos }

// SetPos moves the cursor, clamping to the text bounds.
func (b *Buffer) SetPos(n int) {
	if n < 0 {
		n = 0
	}
	if max := len(b.text); n > max {
		n = max
	}
	b.pos = n
}

func (b *Buffer) RuneAt(n int) rune {
	if n < 0 || n >= len(b.text) {
		return 0
	}
	return b.text[n]
}

func (b *Buffer) LineCount() int { return len(b.starts) }

// LineOf returns the 0-based line containing offset n.
func (b *Buffer) LineOf(n int) int {
	if n < 0 {
		return 0
	}
	// First start greater than n, minus one.
	i := sort.Search(len(b.starts), func(i int) bool { return b.starts[i] > n })
	return i - 1
}

// ColOf returns the 0-based column of offset n within its line.
func (b *Buffer) ColOf(n int) int {
	return n - b.starts[b.LineOf(n)]
}

// LineStart returns the offset of the first rune of line i, clamped to
// the valid line range.
func (b *Buffer) LineStart(i int) int {
	if i < 0 {
		i = 0
	}
	if i >= len(b.starts) {
		i = len(b.starts) - 1
	}
	return b.starts[i]
}

// LineEnd returns the offset one past the last rune of line i, not
// counting the trailing newline.
func (b *Buffer) LineEnd(i int) int {
	if i < 0 {
		i = 0
	}
	if i+1 < len(b.starts) {
		return b.starts[i+1] - 1
	}
	end := len(b.text)
	if end > 0 && b.text[end-1] == '\n' {
		end--
	}
	return end
}

// LineText returns line i without its trailing newline.
func (b *Buffer) LineText(i int) string {
	return string(b.text[b.LineStart(i):b.LineEnd(i)])
}

// GotoLine moves the cursor to the start of 0-based line i.
func (b *Buffer) GotoLine(i int) {
	b.pos = b.LineStart(i)
}

// SearchForward finds the first occurrence of lit at or after from.
func (b *Buffer) SearchForward(lit string, from int) (int, bool) {
	needle := []rune(lit)
	if len(needle) == 0 {
		return 0, false
	}
	if from < 0 {
		from = 0
	}
	for i := from; i+len(needle) <= len(b.text); i++ {
		if runesEqual(b.text[i:i+len(needle)], needle) {
			return i, true
		}
	}
	return 0, false
}

// SearchBackward finds the last occurrence of lit strictly before from.
func (b *Buffer) SearchBackward(lit string, from int) (int, bool) {
	needle := []rune(lit)
	if len(needle) == 0 {
		return 0, false
	}
	if from > len(b.text) {
		from = len(b.text)
	}
	for i := from - 1; i >= 0; i-- {
		if i+len(needle) <= len(b.text) && runesEqual(b.text[i:i+len(needle)], needle) {
			return i, true
		}
	}
	return 0, false
}

func runesEqual(a, b []rune) bool {
	for i := range b {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Delete removes the runes in [start, end) and keeps the cursor inside
// the remaining text.
func (b *Buffer) Delete(start, end int) {
	if start < 0 {
		start = 0
	}
	if end > len(b.text) {
		end = len(b.text)
	}
	if start >= end {
		return
	}
	b.text = append(b.text[:start], b.text[end:]...)
	b.reindex()
	b.SetPos(start)
}

// Insert places s at offset n and moves the cursor past it.
func (b *Buffer) Insert(n int, s string) {
	if n < 0 {
		n = 0
	}
	if n > len(b.text) {
		n = len(b.text)
	}
	ins := []rune(s)
	b.text = append(b.text[:n], append(ins, b.text[n:]...)...)
	b.reindex()
	b.SetPos(n + len(ins))
}

// Slice returns the text in [start, end) as a string.
func (b *Buffer) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(b.text) {
		end = len(b.text)
	}
	if start >= end {
		return ""
	}
	return string(b.text[start:end])
}
