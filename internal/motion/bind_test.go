package motion

import (
	"testing"

	"github.com/ryabkov/vicmd/internal/textbuf"
)

// bindFor returns a bound surface whose resolver deletes the resolved
// span from b, mimicking a delete operator.
func bindFor(b *textbuf.Buffer, extra map[rune]RangeMotion) *Bound {
	binder := NewBinder(NewSelTable(DefaultTable()))
	return binder.Bind(extra, func(rm RangeMotion) func() {
		return func() {
			start, end, ok := rm.Span(b, rm.Count)
			if ok {
				b.Delete(start, end)
			}
		}
	})
}

func feedBound(bd *Bound, s string) BindResult {
	var res BindResult
	for _, r := range s {
		res = bd.Feed(r)
	}
	return res
}

func TestBindMotionFallback(t *testing.T) {
	b := textbuf.New("foo bar baz", "")
	bd := bindFor(b, nil)
	res := bd.Feed('w')
	if res.Status != StatusResolved {
		t.Fatalf("status = %v, want resolved", res.Status)
	}
	res.Action()
	if got := b.String(); got != "bar baz" {
		t.Fatalf("text = %q, want %q", got, "bar baz")
	}
}

func TestBindCountedMotion(t *testing.T) {
	b := textbuf.New("a b c d", "")
	bd := bindFor(b, nil)
	res := feedBound(bd, "2w")
	if res.Status != StatusResolved {
		t.Fatalf("status = %v, want resolved", res.Status)
	}
	res.Action()
	if got := b.String(); got != "c d" {
		t.Fatalf("text = %q, want %q", got, "c d")
	}
}

func TestBindExtraWinsOverMotion(t *testing.T) {
	b := textbuf.New("whole line", "")
	called := false
	extra := map[rune]RangeMotion{
		'd': {Name: "line", Class: ClassLinewise, Span: func(b Buffer, count int) (int, int, bool) {
			called = true
			return 0, b.Len(), true
		}},
	}
	bd := bindFor(b, extra)
	res := bd.Feed('d')
	if res.Status != StatusResolved {
		t.Fatalf("status = %v, want resolved", res.Status)
	}
	res.Action()
	if !called {
		t.Fatalf("extra span not used")
	}
	if b.Len() != 0 {
		t.Fatalf("len = %d, want 0", b.Len())
	}
}

func TestBindTextObject(t *testing.T) {
	b := textbuf.New("foo bar baz", "")
	b.SetPos(5)
	bd := bindFor(b, nil)
	if res := bd.Feed('i'); res.Status != StatusPending {
		t.Fatalf("prefix status = %v, want pending", res.Status)
	}
	res := bd.Feed('w')
	if res.Status != StatusResolved {
		t.Fatalf("status = %v, want resolved", res.Status)
	}
	res.Action()
	if got := b.String(); got != "foo  baz" {
		t.Fatalf("text = %q, want %q", got, "foo  baz")
	}
}

func TestBindUnknownKey(t *testing.T) {
	b := textbuf.New("text", "")
	bd := bindFor(b, nil)
	if res := bd.Feed('q'); res.Status != StatusUnknown {
		t.Fatalf("status = %v, want unknown", res.Status)
	}
	// Surface stays usable after a failed sequence.
	if res := bd.Feed('w'); res.Status != StatusResolved {
		t.Fatalf("status = %v, want resolved", res.Status)
	}
}

func TestBindDeferredSearchRange(t *testing.T) {
	b := textbuf.New("abc STOP def", "")
	bd := bindFor(b, nil)
	res := bd.Feed('/')
	if res.Status != StatusNeedsInput {
		t.Fatalf("status = %v, want needs-input", res.Status)
	}
	done := bd.Complete(res.Pending, "STOP")
	if done.Status != StatusResolved {
		t.Fatalf("complete status = %v, want resolved", done.Status)
	}
	done.Action()
	if got := b.String(); got != "STOP def" {
		t.Fatalf("text = %q, want %q", got, "STOP def")
	}
}

func TestEachBindIsIndependent(t *testing.T) {
	binder := NewBinder(NewSelTable(DefaultTable()))
	noop := func(rm RangeMotion) func() { return func() {} }
	first := binder.Bind(nil, noop)
	first.Feed('3') // leave first mid-count
	second := binder.Bind(nil, noop)
	res := second.Feed('w')
	if res.Status != StatusResolved {
		t.Fatalf("status = %v, want resolved", res.Status)
	}
}
