package tags

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrPatternNotFound reports a locate pattern with no matching line.
	ErrPatternNotFound = errors.New("not found")

	// ErrBadExpression reports a locate-expression the executor does
	// not recognize.
	ErrBadExpression = errors.New("unrecognized locate expression")
)

// Buffer is the slice of the buffer contract the locate executor needs.
type Buffer interface {
	LineCount() int
	LineStart(line int) int
	LineText(line int) string
}

// Resolve interprets a record's locate-expression against b and returns
// the target position. A decimal expression is a 1-based line number;
// /pat/ and ?pat? are anchored literal searches (delimiters and ^/$
// stripped, the rest matched verbatim — deliberately not a regex
// engine). A miss never moves anything; the caller's position stays
// valid.
func Resolve(rec Record, b Buffer) (int, error) {
	expr := rec.Expr
	if n, err := strconv.Atoi(expr); err == nil {
		if n < 1 {
			n = 1
		}
		if max := b.LineCount(); n > max {
			n = max
		}
		return b.LineStart(n - 1), nil
	}
	if len(expr) >= 2 && (expr[0] == '/' || expr[0] == '?') {
		pat := strings.TrimSuffix(expr[1:], string(expr[0]))
		return findPattern(pat, b)
	}
	return 0, fmt.Errorf("%w: %s", ErrBadExpression, expr)
}

func findPattern(pat string, b Buffer) (int, error) {
	orig := pat
	anchorStart := strings.HasPrefix(pat, "^")
	if anchorStart {
		pat = pat[1:]
	}
	anchorEnd := strings.HasSuffix(pat, "$")
	if anchorEnd {
		pat = pat[:len(pat)-1]
	}
	for line := 0; line < b.LineCount(); line++ {
		text := b.LineText(line)
		var col int
		switch {
		case anchorStart && anchorEnd:
			if text != pat {
				continue
			}
		case anchorStart:
			if !strings.HasPrefix(text, pat) {
				continue
			}
		case anchorEnd:
			if !strings.HasSuffix(text, pat) {
				continue
			}
			col = len([]rune(text)) - len([]rune(pat))
		default:
			idx := strings.Index(text, pat)
			if idx < 0 {
				continue
			}
			col = len([]rune(text[:idx]))
		}
		return b.LineStart(line) + col, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrPatternNotFound, orig)
}
