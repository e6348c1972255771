package tags

import (
	"errors"
	"fmt"

	"github.com/ryabkov/vicmd/internal/logger"
)

var (
	// ErrTagNotFound reports a symbol absent from the index.
	ErrTagNotFound = errors.New("tag not found")

	// ErrEmptyStack reports a pop with no active frame.
	ErrEmptyStack = errors.New("top of stack")

	// ErrStackFull reports a jump past the configured depth bound.
	ErrStackFull = errors.New("tag stack full")
)

// Frame is one level of the jump history: the candidate definitions of
// the jump, which one is selected (1-based cursor) and where to return
// on pop.
type Frame struct {
	Candidates []Record
	Cur        int
	ReturnFile string
	ReturnPos  int
}

// Stack is a bounded navigation history over tag jumps. Frames above
// the current depth are invalidated history and get truncated by the
// next push, like a redo chain. All operations validate their
// preconditions before mutating anything.
type Stack struct {
	index  *Index
	frames []Frame
	depth  int
	limit  int
}

// NewStack creates a navigation stack over ix. A limit of 0 means
// unbounded.
func NewStack(ix *Index, limit int) *Stack {
	return &Stack{index: ix, limit: limit}
}

// Depth returns the number of active frames.
func (s *Stack) Depth() int { return s.depth }

// Jump looks up name and, on a hit, pushes a frame remembering the
// caller's position and returns the first candidate. On a miss the
// stack is untouched.
func (s *Stack) Jump(name, file string, pos int) (Record, error) {
	recs := s.index.Lookup(name)
	if len(recs) == 0 {
		return Record{}, fmt.Errorf("%w: %s", ErrTagNotFound, name)
	}
	if s.limit > 0 && s.depth >= s.limit {
		return Record{}, ErrStackFull
	}
	s.frames = s.frames[:s.depth]
	s.frames = append(s.frames, Frame{
		Candidates: recs,
		Cur:        1,
		ReturnFile: file,
		ReturnPos:  pos,
	})
	s.depth++
	logger.Debug("tag jump", "symbol", name, "candidates", len(recs), "depth", s.depth)
	return recs[0], nil
}

// Pop returns the top frame's origin and decrements the depth. The
// frame stays in place, unreachable, until a later push truncates it.
func (s *Stack) Pop() (string, int, error) {
	if s.depth == 0 {
		return "", 0, ErrEmptyStack
	}
	f := s.frames[s.depth-1]
	s.depth--
	return f.ReturnFile, f.ReturnPos, nil
}

// Current returns the active frame, or nil when the stack is empty.
func (s *Stack) Current() *Frame {
	if s.depth == 0 {
		return nil
	}
	return &s.frames[s.depth-1]
}

// Next advances the active frame's cursor and returns the newly
// selected candidate. At the end (or with no frame) it reports false
// and leaves the cursor unchanged.
func (s *Stack) Next() (Record, bool) {
	f := s.Current()
	if f == nil || f.Cur >= len(f.Candidates) {
		return Record{}, false
	}
	f.Cur++
	return f.Candidates[f.Cur-1], true
}

// Prev is the symmetric step toward the first candidate.
func (s *Stack) Prev() (Record, bool) {
	f := s.Current()
	if f == nil || f.Cur <= 1 {
		return Record{}, false
	}
	f.Cur--
	return f.Candidates[f.Cur-1], true
}
