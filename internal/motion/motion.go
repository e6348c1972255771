// Package motion turns key tokens into executable cursor movements and
// editing ranges.
//
// The grammar handled here is the vi normal-mode core:
//
//	[count][motion]                  5w, 12j, 0
//	[count][operator][motion|object] d3w, 2caw, dd
//	[deferred motion][argument]      /term<CR>, ?term<CR>
//
// A Dispatcher accumulates the count prefix and resolves single keys
// against a Table of Motion descriptors. A SelTable derives a
// range-producing counterpart for every simple motion and adds the text
// objects; a Binder composes it with operator-specific entries into a
// dispatch surface that yields zero-argument actions.
package motion

// Buffer is the cursor surface motions act on. Motions only ever move
// the cursor; they never mutate text.
type Buffer interface {
	Pos() int
	SetPos(int)
	Len() int
	RuneAt(int) rune
	LineOf(int) int
	LineStart(int) int
	LineEnd(int) int
	LineCount() int
	SearchForward(lit string, from int) (int, bool)
	SearchBackward(lit string, from int) (int, bool)
}

// Class categorizes how a motion's endpoint combines with an operator.
type Class uint8

const (
	// ClassExclusive excludes the end position from an operated range.
	ClassExclusive Class = iota

	// ClassInclusive includes the character at the end position.
	ClassInclusive

	// ClassLinewise operates on whole lines.
	ClassLinewise

	// ClassDeferred marks a motion that needs a caller-supplied argument
	// (incremental search) before it can run.
	ClassDeferred
)

func (c Class) String() string {
	switch c {
	case ClassExclusive:
		return "exclusive"
	case ClassInclusive:
		return "inclusive"
	case ClassLinewise:
		return "linewise"
	case ClassDeferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// Motion is an immutable movement descriptor. The dispatcher substitutes
// a typed count into a copy; the template itself is never mutated.
type Motion struct {
	// Name identifies the motion (e.g. "word-forward").
	Name string

	// Class determines downstream range semantics. Opaque to the
	// dispatcher, which only carries it through.
	Class Class

	// Count is the repeat count (0 means no explicit count, treated as 1).
	Count int

	// Move performs the movement on b. count is the raw typed count,
	// 0 when none was typed; motions that repeat treat 0 as 1, motions
	// like G give 0 its own meaning (last line).
	Move func(b Buffer, count int)
}

// Run executes the motion with its own count.
func (m Motion) Run(b Buffer) {
	if m.Move != nil {
		m.Move(b, m.Count)
	}
}

func atLeastOne(count int) int {
	if count <= 0 {
		return 1
	}
	return count
}

// Table is the static registry mapping single keys to motion
// descriptors, with sub-tables for namespaced keys (marks under ') and
// a deferred class for motions awaiting further input.
type Table struct {
	simple   map[rune]Motion
	subs     map[rune]map[rune]Motion
	deferred map[rune]DeferredKind
	byName   map[string]rune
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		simple:   make(map[rune]Motion),
		subs:     make(map[rune]map[rune]Motion),
		deferred: make(map[rune]DeferredKind),
		byName:   make(map[string]rune),
	}
}

// Bind registers a simple motion under key.
func (t *Table) Bind(key rune, m Motion) {
	t.simple[key] = m
	if m.Name != "" {
		t.byName[m.Name] = key
	}
}

// BindSub registers a motion under a two-key sequence prefix+key.
func (t *Table) BindSub(prefix, key rune, m Motion) {
	sub := t.subs[prefix]
	if sub == nil {
		sub = make(map[rune]Motion)
		t.subs[prefix] = sub
	}
	sub[key] = m
}

// BindDeferred registers key as a deferred motion of the given kind.
func (t *Table) BindDeferred(key rune, kind DeferredKind) {
	t.deferred[key] = kind
}

// Lookup returns the simple motion bound to key.
func (t *Table) Lookup(key rune) (Motion, bool) {
	m, ok := t.simple[key]
	return m, ok
}

// Rebind moves the motion registered under name to key. Used for
// config keymap overrides; returns false if name is unknown.
func (t *Table) Rebind(key rune, name string) bool {
	old, ok := t.byName[name]
	if !ok {
		return false
	}
	m := t.simple[old]
	delete(t.simple, old)
	t.simple[key] = m
	t.byName[name] = key
	return true
}

// DefaultTable builds the standard motion registry.
func DefaultTable() *Table {
	t := NewTable()

	t.Bind('h', Motion{Name: "left", Class: ClassExclusive, Move: moveLeft})
	t.Bind('l', Motion{Name: "right", Class: ClassExclusive, Move: moveRight})
	t.Bind(' ', Motion{Name: "right", Class: ClassExclusive, Move: moveRight})
	t.Bind('j', Motion{Name: "down", Class: ClassLinewise, Move: moveDown})
	t.Bind('k', Motion{Name: "up", Class: ClassLinewise, Move: moveUp})
	t.Bind('w', Motion{Name: "word-forward", Class: ClassExclusive, Move: moveWordForward})
	t.Bind('b', Motion{Name: "word-backward", Class: ClassExclusive, Move: moveWordBackward})
	t.Bind('e', Motion{Name: "word-end", Class: ClassInclusive, Move: moveWordEnd})
	t.Bind('0', Motion{Name: "line-start", Class: ClassExclusive, Move: moveLineStart})
	t.Bind('^', Motion{Name: "first-non-blank", Class: ClassExclusive, Move: moveFirstNonBlank})
	t.Bind('$', Motion{Name: "line-end", Class: ClassInclusive, Move: moveLineEnd})
	t.Bind('G', Motion{Name: "goto-line", Class: ClassLinewise, Move: moveGotoLine})
	t.Bind('{', Motion{Name: "paragraph-backward", Class: ClassExclusive, Move: moveParagraphBackward})
	t.Bind('}', Motion{Name: "paragraph-forward", Class: ClassExclusive, Move: moveParagraphForward})

	t.BindSub('g', 'g', Motion{Name: "goto-first-line", Class: ClassLinewise, Move: moveGotoFirstLine})

	t.BindDeferred('/', SearchForward)
	t.BindDeferred('?', SearchBackward)

	return t
}

// Movement implementations. All operate on absolute offsets and clamp at
// buffer and line boundaries; h and l do not cross lines.

func moveLeft(b Buffer, count int) {
	count = atLeastOne(count)
	pos := b.Pos()
	start := b.LineStart(b.LineOf(pos))
	pos -= count
	if pos < start {
		pos = start
	}
	b.SetPos(pos)
}

func moveRight(b Buffer, count int) {
	count = atLeastOne(count)
	pos := b.Pos()
	line := b.LineOf(pos)
	end := b.LineEnd(line)
	pos += count
	if pos > end {
		pos = end
	}
	// Keep the cursor on a character, not past the last one.
	if pos == end && end > b.LineStart(line) {
		pos = end - 1
	}
	b.SetPos(pos)
}

func moveDown(b Buffer, count int) {
	moveVertical(b, atLeastOne(count))
}

func moveUp(b Buffer, count int) {
	moveVertical(b, -atLeastOne(count))
}

func moveVertical(b Buffer, delta int) {
	pos := b.Pos()
	line := b.LineOf(pos)
	col := pos - b.LineStart(line)
	line += delta
	if line < 0 {
		line = 0
	}
	if max := b.LineCount() - 1; line > max {
		line = max
	}
	start := b.LineStart(line)
	end := b.LineEnd(line)
	if start+col > end {
		col = end - start
	}
	b.SetPos(start + col)
}

func moveLineStart(b Buffer, count int) {
	b.SetPos(b.LineStart(b.LineOf(b.Pos())))
}

func moveFirstNonBlank(b Buffer, count int) {
	line := b.LineOf(b.Pos())
	pos := b.LineStart(line)
	end := b.LineEnd(line)
	for pos < end {
		r := b.RuneAt(pos)
		if r != ' ' && r != '\t' {
			break
		}
		pos++
	}
	b.SetPos(pos)
}

func moveLineEnd(b Buffer, count int) {
	line := b.LineOf(b.Pos())
	end := b.LineEnd(line)
	if end > b.LineStart(line) {
		end--
	}
	b.SetPos(end)
}

// moveGotoLine interprets its count as a 1-based target line; with no
// count G goes to the last line.
func moveGotoLine(b Buffer, count int) {
	line := b.LineCount() - 1
	if count > 0 {
		line = count - 1
		if max := b.LineCount() - 1; line > max {
			line = max
		}
	}
	b.SetPos(b.LineStart(line))
	moveFirstNonBlank(b, 1)
}

func moveGotoFirstLine(b Buffer, count int) {
	line := 0
	if count > 0 {
		line = count - 1
		if max := b.LineCount() - 1; line > max {
			line = max
		}
	}
	b.SetPos(b.LineStart(line))
	moveFirstNonBlank(b, 1)
}

func moveParagraphForward(b Buffer, count int) {
	count = atLeastOne(count)
	line := b.LineOf(b.Pos())
	for ; count > 0; count-- {
		line++
		for line < b.LineCount() && !blankLine(b, line) {
			line++
		}
		if line >= b.LineCount() {
			line = b.LineCount() - 1
			break
		}
	}
	b.SetPos(b.LineStart(line))
}

func moveParagraphBackward(b Buffer, count int) {
	count = atLeastOne(count)
	line := b.LineOf(b.Pos())
	for ; count > 0; count-- {
		line--
		for line > 0 && !blankLine(b, line) {
			line--
		}
		if line <= 0 {
			line = 0
			break
		}
	}
	b.SetPos(b.LineStart(line))
}

func blankLine(b Buffer, line int) bool {
	return b.LineStart(line) >= b.LineEnd(line)
}

// Word motions use the vi word classes: keyword runes, punctuation runs
// and whitespace.

type runeClass uint8

const (
	classSpace runeClass = iota
	classWord
	classPunct
)

func classOf(r rune) runeClass {
	switch {
	case r == ' ' || r == '\t' || r == '\n' || r == 0:
		return classSpace
	case r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r > 127:
		return classWord
	default:
		return classPunct
	}
}

func moveWordForward(b Buffer, count int) {
	count = atLeastOne(count)
	pos := b.Pos()
	for ; count > 0; count-- {
		if pos >= b.Len() {
			break
		}
		cls := classOf(b.RuneAt(pos))
		for pos < b.Len() && classOf(b.RuneAt(pos)) == cls && cls != classSpace {
			pos++
		}
		for pos < b.Len() && classOf(b.RuneAt(pos)) == classSpace {
			pos++
		}
	}
	b.SetPos(pos)
}

func moveWordBackward(b Buffer, count int) {
	count = atLeastOne(count)
	pos := b.Pos()
	for ; count > 0; count-- {
		if pos == 0 {
			break
		}
		pos--
		for pos > 0 && classOf(b.RuneAt(pos)) == classSpace {
			pos--
		}
		cls := classOf(b.RuneAt(pos))
		for pos > 0 && classOf(b.RuneAt(pos-1)) == cls {
			pos--
		}
	}
	b.SetPos(pos)
}

func moveWordEnd(b Buffer, count int) {
	count = atLeastOne(count)
	pos := b.Pos()
	for ; count > 0; count-- {
		if pos >= b.Len()-1 {
			break
		}
		pos++
		for pos < b.Len() && classOf(b.RuneAt(pos)) == classSpace {
			pos++
		}
		cls := classOf(b.RuneAt(pos))
		for pos+1 < b.Len() && classOf(b.RuneAt(pos+1)) == cls {
			pos++
		}
	}
	b.SetPos(pos)
}
