package tags

import (
	"errors"
	"testing"

	"github.com/ryabkov/vicmd/internal/textbuf"
)

func TestResolveLineNumber(t *testing.T) {
	b := textbuf.New("one\ntwo\nthree\n", "")
	pos, err := Resolve(Record{Expr: "2"}, b)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if pos != 4 {
		t.Fatalf("pos = %d, want 4", pos)
	}
}

func TestResolveLineNumberClamped(t *testing.T) {
	b := textbuf.New("one\ntwo\n", "")
	pos, err := Resolve(Record{Expr: "99"}, b)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if pos != 4 {
		t.Fatalf("pos = %d, want 4", pos)
	}
}

func TestResolveAnchoredPattern(t *testing.T) {
	b := textbuf.New("prefix foo\nfoo\nfoo suffix\n", "")
	pos, err := Resolve(Record{Expr: "/^foo$/"}, b)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if pos != 11 {
		t.Fatalf("pos = %d, want 11", pos)
	}
}

func TestResolvePatternMiss(t *testing.T) {
	b := textbuf.New("nothing relevant\n", "")
	b.SetPos(7)
	_, err := Resolve(Record{Expr: "/^foo$/"}, b)
	if !errors.Is(err, ErrPatternNotFound) {
		t.Fatalf("err = %v, want ErrPatternNotFound", err)
	}
	if b.Pos() != 7 {
		t.Fatalf("cursor moved to %d on a miss", b.Pos())
	}
}

func TestResolveUnanchoredPattern(t *testing.T) {
	b := textbuf.New("int main(void) {\n\tcall_site();\n}\n", "")
	pos, err := Resolve(Record{Expr: "/call_site/"}, b)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if pos != 18 {
		t.Fatalf("pos = %d, want 18", pos)
	}
}

func TestResolveBackwardDelimiter(t *testing.T) {
	b := textbuf.New("alpha\nbeta\n", "")
	pos, err := Resolve(Record{Expr: "?beta?"}, b)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if pos != 6 {
		t.Fatalf("pos = %d, want 6", pos)
	}
}

func TestResolveEndAnchor(t *testing.T) {
	b := textbuf.New("say hello world\n", "")
	pos, err := Resolve(Record{Expr: "/world$/"}, b)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if pos != 10 {
		t.Fatalf("pos = %d, want 10", pos)
	}
}

func TestResolveBadExpression(t *testing.T) {
	b := textbuf.New("text\n", "")
	_, err := Resolve(Record{Expr: "@weird@"}, b)
	if !errors.Is(err, ErrBadExpression) {
		t.Fatalf("err = %v, want ErrBadExpression", err)
	}
}
