// Package tags implements symbol-tag navigation: a lazily loaded index
// over a ctags-style tag table, a bounded stack of navigation frames and
// the executor for a tag's locate-expression.
package tags

import (
	"os"
	"sort"
	"strings"

	"github.com/ryabkov/vicmd/internal/logger"
)

// Record is one tag definition. Immutable once parsed; many records may
// share a symbol (duplicate definitions across files).
type Record struct {
	Symbol string
	File   string
	Expr   string
	Flags  string
}

// Index maps symbol names to their candidate definitions in file order.
// It populates itself from the tag table on first lookup and is only
// rebuilt by an explicit Reload.
type Index struct {
	path   string
	loaded bool
	byName map[string][]Record
}

// NewIndex creates an index over the tag table at path. The file is not
// read until the first lookup; a missing file yields an empty index,
// not an error.
func NewIndex(path string) *Index {
	return &Index{path: path}
}

// FromRecords builds an already-loaded index, used with generated tags.
func FromRecords(recs []Record) *Index {
	ix := &Index{loaded: true, byName: make(map[string][]Record)}
	for _, r := range recs {
		ix.byName[r.Symbol] = append(ix.byName[r.Symbol], r)
	}
	return ix
}

// Reload drops the parsed table so the next lookup re-reads the file.
func (ix *Index) Reload() {
	if ix.path != "" {
		ix.loaded = false
		ix.byName = nil
	}
}

// Lookup returns the candidate records for name in file order, or nil
// if the symbol is absent.
func (ix *Index) Lookup(name string) []Record {
	ix.load()
	return ix.byName[name]
}

// Match returns the symbol names matching pattern, sorted, or nil if
// none do. Patterns support ^/$ anchors and [] character classes;
// everything else matches literally.
func (ix *Index) Match(pattern string) []string {
	ix.load()
	var names []string
	for name := range ix.byName {
		if matchName(pattern, name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Len returns the number of distinct symbols in the index.
func (ix *Index) Len() int {
	ix.load()
	return len(ix.byName)
}

func (ix *Index) load() {
	if ix.loaded {
		return
	}
	ix.loaded = true
	ix.byName = make(map[string][]Record)
	data, err := os.ReadFile(ix.path)
	if err != nil {
		logger.Debug("tag table unavailable", "path", ix.path, "err", err)
		return
	}
	total, kept := 0, 0
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" || strings.HasPrefix(line, "!") {
			continue
		}
		total++
		rec, ok := parseLine(line)
		if !ok {
			logger.Debug("skipping malformed tag line", "line", line)
			continue
		}
		kept++
		ix.byName[rec.Symbol] = append(ix.byName[rec.Symbol], rec)
	}
	logger.Info("tag table loaded", "path", ix.path, "lines", total, "tags", kept)
}

// parseLine parses symbol\tfile\texcommand, where excommand may end in
// `;"` followed by tab-separated flags. Anything else is malformed and
// skipped by the caller.
func parseLine(line string) (Record, bool) {
	fields := strings.Split(strings.TrimRight(line, "\r"), "\t")
	if len(fields) < 3 || fields[0] == "" || fields[1] == "" || fields[2] == "" {
		return Record{}, false
	}
	rec := Record{
		Symbol: fields[0],
		File:   fields[1],
		Expr:   strings.TrimSuffix(fields[2], `;"`),
	}
	if len(fields) > 3 {
		rec.Flags = strings.Join(fields[3:], "\t")
	}
	if rec.Expr == "" {
		return Record{}, false
	}
	return rec, true
}

// matchName matches the simple tag-search dialect: optional ^ and $
// anchors, [...] character classes (with ^ negation and a-z ranges),
// literal runes otherwise. Unanchored patterns match anywhere in name.
func matchName(pattern, name string) bool {
	p := []rune(pattern)
	anchorStart := len(p) > 0 && p[0] == '^'
	if anchorStart {
		p = p[1:]
	}
	anchorEnd := len(p) > 0 && p[len(p)-1] == '$'
	if anchorEnd {
		p = p[:len(p)-1]
	}
	toks, ok := tokenize(p)
	if !ok {
		return false
	}
	n := []rune(name)
	for start := 0; start+len(toks) <= len(n); start++ {
		if anchorStart && start > 0 {
			break
		}
		if anchorEnd && start+len(toks) != len(n) {
			continue
		}
		hit := true
		for i, tok := range toks {
			if !tok(n[start+i]) {
				hit = false
				break
			}
		}
		if hit {
			return true
		}
	}
	return false
}

type runeMatcher func(rune) bool

func tokenize(p []rune) ([]runeMatcher, bool) {
	var toks []runeMatcher
	for i := 0; i < len(p); i++ {
		if p[i] != '[' {
			lit := p[i]
			toks = append(toks, func(r rune) bool { return r == lit })
			continue
		}
		end := i + 1
		for end < len(p) && p[end] != ']' {
			end++
		}
		if end == len(p) {
			return nil, false // unterminated class
		}
		cls := p[i+1 : end]
		negate := len(cls) > 0 && cls[0] == '^'
		if negate {
			cls = cls[1:]
		}
		toks = append(toks, classMatcher(cls, negate))
		i = end
	}
	return toks, true
}

func classMatcher(cls []rune, negate bool) runeMatcher {
	return func(r rune) bool {
		hit := false
		for i := 0; i < len(cls); i++ {
			if i+2 < len(cls) && cls[i+1] == '-' {
				if r >= cls[i] && r <= cls[i+2] {
					hit = true
				}
				i += 2
				continue
			}
			if r == cls[i] {
				hit = true
			}
		}
		return hit != negate
	}
}
