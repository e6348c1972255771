package tags

import (
	"os"
	"path/filepath"
	"testing"
)

const generateFixture = `package fixture

const answer = 42

var counter int

type widget struct{}

func (w widget) Spin() {}

func build() widget { return widget{} }
`

func TestGenerate(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "fixture.go"), []byte(generateFixture), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	// Hidden and underscore directories must be skipped.
	skipped := filepath.Join(root, "_vendor")
	if err := os.MkdirAll(skipped, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(skipped, "x.go"), []byte("package x\n\nfunc Hidden() {}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	recs, err := Generate(root)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	byLine := make(map[string]string)
	for _, r := range recs {
		byLine[r.Symbol] = r.Expr
	}
	want := map[string]string{
		"answer":  "3",
		"counter": "5",
		"widget":  "7",
		"Spin":    "9",
		"build":   "11",
	}
	for sym, line := range want {
		if byLine[sym] != line {
			t.Fatalf("symbol %q on line %q, want %q (records %v)", sym, byLine[sym], line, recs)
		}
	}
	if _, ok := byLine["Hidden"]; ok {
		t.Fatalf("underscore directory was not skipped")
	}
	ix := FromRecords(recs)
	if got := ix.Lookup("build"); len(got) != 1 || got[0].File != filepath.Join(root, "fixture.go") {
		t.Fatalf("Lookup(build) = %v", got)
	}
}
