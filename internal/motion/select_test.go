package motion

import (
	"testing"

	"github.com/ryabkov/vicmd/internal/textbuf"
)

func TestDerivedRangeOrdersPositions(t *testing.T) {
	sel := NewSelTable(DefaultTable())
	left, ok := sel.Lookup('h')
	if !ok {
		t.Fatalf("no derived motion for h")
	}
	b := textbuf.New("abcdefghijklmnop", "")
	b.SetPos(10)
	start, end, ok := left.Span(b, 3)
	if !ok {
		t.Fatalf("span not ok")
	}
	if start != 7 || end != 10 {
		t.Fatalf("span = (%d, %d), want (7, 10)", start, end)
	}
}

func TestDerivedInclusiveExtendsEnd(t *testing.T) {
	sel := NewSelTable(DefaultTable())
	wordEnd, _ := sel.Lookup('e')
	b := textbuf.New("foo bar", "")
	start, end, _ := wordEnd.Span(b, 0)
	if start != 0 || end != 3 {
		t.Fatalf("span = (%d, %d), want (0, 3)", start, end)
	}
}

func TestDerivedRangeCarriesClass(t *testing.T) {
	sel := NewSelTable(DefaultTable())
	down, _ := sel.Lookup('j')
	if down.Class != ClassLinewise {
		t.Fatalf("class = %v, want linewise", down.Class)
	}
	right, _ := sel.Lookup('l')
	if right.Class != ClassExclusive {
		t.Fatalf("class = %v, want exclusive", right.Class)
	}
}

func TestInnerWord(t *testing.T) {
	sel := NewSelTable(DefaultTable())
	iw := sel.subs['i']['w']
	b := textbuf.New("foo bar baz", "")
	b.SetPos(5)
	start, end, ok := iw.Span(b, 0)
	if !ok || start != 4 || end != 7 {
		t.Fatalf("iw span = (%d, %d, %v), want (4, 7, true)", start, end, ok)
	}
}

func TestAroundWordTakesTrailingSpace(t *testing.T) {
	sel := NewSelTable(DefaultTable())
	aw := sel.subs['a']['w']
	b := textbuf.New("foo bar baz", "")
	b.SetPos(5)
	start, end, ok := aw.Span(b, 0)
	if !ok || start != 4 || end != 8 {
		t.Fatalf("aw span = (%d, %d, %v), want (4, 8, true)", start, end, ok)
	}
}

func TestAroundWordFallsBackToLeadingSpace(t *testing.T) {
	sel := NewSelTable(DefaultTable())
	aw := sel.subs['a']['w']
	b := textbuf.New("foo bar", "")
	b.SetPos(5)
	start, end, ok := aw.Span(b, 0)
	if !ok || start != 3 || end != 7 {
		t.Fatalf("aw span = (%d, %d, %v), want (3, 7, true)", start, end, ok)
	}
}

func TestExplicitObjectsShadowDerived(t *testing.T) {
	// 'i' has no simple motion in the default table, but if one is
	// bound the text-object prefix must still win.
	table := DefaultTable()
	table.Bind('i', Motion{Name: "insert-ish", Class: ClassExclusive, Move: func(b Buffer, count int) {}})
	sel := NewSelTable(table)
	if _, ok := sel.subs['i']['w']; !ok {
		t.Fatalf("inner-word object missing")
	}
}
