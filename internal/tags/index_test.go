package tags

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTagFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tags")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestParseTolerance(t *testing.T) {
	path := writeTagFile(t, "foo\tfoo.c\t10;\"\tf\nbroken line without tabs\n")
	ix := NewIndex(path)
	recs := ix.Lookup("foo")
	if len(recs) != 1 {
		t.Fatalf("candidates = %d, want 1", len(recs))
	}
	if recs[0].File != "foo.c" || recs[0].Expr != "10" || recs[0].Flags != "f" {
		t.Fatalf("record = %+v", recs[0])
	}
	if ix.Len() != 1 {
		t.Fatalf("Len = %d, want 1", ix.Len())
	}
}

func TestMissingFileYieldsEmptyIndex(t *testing.T) {
	ix := NewIndex(filepath.Join(t.TempDir(), "no-such-tags"))
	if recs := ix.Lookup("anything"); recs != nil {
		t.Fatalf("Lookup = %v, want nil", recs)
	}
	if ix.Len() != 0 {
		t.Fatalf("Len = %d, want 0", ix.Len())
	}
}

func TestDuplicateSymbolsKeepFileOrder(t *testing.T) {
	path := writeTagFile(t, "dup\ta.c\t1\ndup\tb.c\t2\ndup\tc.c\t3\n")
	ix := NewIndex(path)
	recs := ix.Lookup("dup")
	if len(recs) != 3 {
		t.Fatalf("candidates = %d, want 3", len(recs))
	}
	for i, want := range []string{"a.c", "b.c", "c.c"} {
		if recs[i].File != want {
			t.Fatalf("candidate %d file = %q, want %q", i, recs[i].File, want)
		}
	}
}

func TestHeaderLinesSkipped(t *testing.T) {
	path := writeTagFile(t, "!_TAG_FILE_SORTED\t1\t/sorted/\nreal\tr.c\t5\n")
	ix := NewIndex(path)
	if ix.Len() != 1 {
		t.Fatalf("Len = %d, want 1", ix.Len())
	}
}

func TestPatternExpressionParsed(t *testing.T) {
	path := writeTagFile(t, "f\tf.c\t/^int f(void)$/;\"\tf\n")
	ix := NewIndex(path)
	recs := ix.Lookup("f")
	if len(recs) != 1 {
		t.Fatalf("candidates = %d, want 1", len(recs))
	}
	if recs[0].Expr != "/^int f(void)$/" {
		t.Fatalf("expr = %q", recs[0].Expr)
	}
}

func TestReload(t *testing.T) {
	path := writeTagFile(t, "one\ta.c\t1\n")
	ix := NewIndex(path)
	if ix.Len() != 1 {
		t.Fatalf("Len = %d, want 1", ix.Len())
	}
	if err := os.WriteFile(path, []byte("one\ta.c\t1\ntwo\tb.c\t2\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	// Still the stale table until an explicit reload.
	if ix.Len() != 1 {
		t.Fatalf("Len before reload = %d, want 1", ix.Len())
	}
	ix.Reload()
	if ix.Len() != 2 {
		t.Fatalf("Len after reload = %d, want 2", ix.Len())
	}
}

func TestMatch(t *testing.T) {
	path := writeTagFile(t, "alpha\ta.c\t1\nbeta\tb.c\t2\nalbum\tc.c\t3\n")
	ix := NewIndex(path)
	tests := []struct {
		pattern string
		want    []string
	}{
		{"al", []string{"album", "alpha"}},
		{"^al", []string{"album", "alpha"}},
		{"^beta$", []string{"beta"}},
		{"a$", []string{"alpha", "beta"}},
		{"[ab]l", []string{"album", "alpha"}},
		{"^[^a]", []string{"beta"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		got := ix.Match(tt.pattern)
		if len(got) != len(tt.want) {
			t.Fatalf("Match(%q) = %v, want %v", tt.pattern, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("Match(%q) = %v, want %v", tt.pattern, got, tt.want)
			}
		}
	}
}
