package motion

// RangeMotion is a selection-producing motion: it yields the pair of
// positions an operator acts on instead of moving the cursor for its
// own sake. Start and end come back in ascending order regardless of
// the movement direction.
type RangeMotion struct {
	Name  string
	Class Class
	Count int

	// Span computes the affected range. ok is false when the motion
	// produced nothing to act on.
	Span func(b Buffer, count int) (start, end int, ok bool)
}

// SelTable is the dispatch surface for range-taking commands: every
// simple motion from a Table gets a derived range counterpart, built
// eagerly at construction, plus the explicitly range-producing text
// objects under the a/i prefixes. Explicit entries win over derived
// ones for the same key.
type SelTable struct {
	simple   map[rune]RangeMotion
	subs     map[rune]map[rune]RangeMotion
	deferred map[rune]DeferredKind
}

// NewSelTable derives the selection table from t.
func NewSelTable(t *Table) *SelTable {
	s := &SelTable{
		simple:   make(map[rune]RangeMotion, len(t.simple)),
		subs:     make(map[rune]map[rune]RangeMotion, len(t.subs)+2),
		deferred: make(map[rune]DeferredKind, len(t.deferred)),
	}
	for key, m := range t.simple {
		s.simple[key] = deriveRange(m)
	}
	for prefix, sub := range t.subs {
		dst := make(map[rune]RangeMotion, len(sub))
		for key, m := range sub {
			dst[key] = deriveRange(m)
		}
		s.subs[prefix] = dst
	}
	for key, kind := range t.deferred {
		s.deferred[key] = kind
	}

	s.subs['a'] = map[rune]RangeMotion{
		'w': {Name: "a-word", Class: ClassExclusive, Span: spanAroundWord},
	}
	s.subs['i'] = map[rune]RangeMotion{
		'w': {Name: "inner-word", Class: ClassExclusive, Span: spanInnerWord},
	}
	return s
}

// Lookup returns the range motion bound to key.
func (s *SelTable) Lookup(key rune) (RangeMotion, bool) {
	m, ok := s.simple[key]
	return m, ok
}

// deriveRange wraps a simple motion: record the position, run the
// movement, record again, order the pair.
func deriveRange(m Motion) RangeMotion {
	return RangeMotion{
		Name:  m.Name,
		Class: m.Class,
		Count: m.Count,
		Span: func(b Buffer, count int) (int, int, bool) {
			from := b.Pos()
			m.Move(b, count)
			to := b.Pos()
			if to < from {
				from, to = to, from
			}
			if m.Class == ClassInclusive && to < b.Len() {
				to++
			}
			return from, to, true
		},
	}
}

// DeriveRange exposes the simple-to-range derivation for callers that
// build their own entries from ad hoc motions.
func DeriveRange(m Motion) RangeMotion {
	return deriveRange(m)
}

// spanInnerWord selects the word (or whitespace run) under the cursor.
func spanInnerWord(b Buffer, count int) (int, int, bool) {
	pos := b.Pos()
	if b.Len() == 0 {
		return 0, 0, false
	}
	if pos >= b.Len() {
		pos = b.Len() - 1
	}
	cls := classOf(b.RuneAt(pos))
	start := pos
	for start > 0 && classOf(b.RuneAt(start-1)) == cls && b.RuneAt(start-1) != '\n' {
		start--
	}
	end := pos
	for end < b.Len() && classOf(b.RuneAt(end)) == cls && b.RuneAt(end) != '\n' {
		end++
	}
	return start, end, start < end
}

// spanAroundWord is the inner word plus trailing whitespace; with no
// trailing whitespace the leading run is taken instead.
func spanAroundWord(b Buffer, count int) (int, int, bool) {
	start, end, ok := spanInnerWord(b, count)
	if !ok {
		return 0, 0, false
	}
	grown := end
	for grown < b.Len() && classOf(b.RuneAt(grown)) == classSpace && b.RuneAt(grown) != '\n' {
		grown++
	}
	if grown > end {
		return start, grown, true
	}
	for start > 0 && classOf(b.RuneAt(start-1)) == classSpace && b.RuneAt(start-1) != '\n' {
		start--
	}
	return start, end, true
}
