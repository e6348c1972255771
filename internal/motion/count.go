package motion

import "math"

// Status reports the outcome of feeding one key to a dispatcher.
type Status uint8

const (
	// StatusPending means more input is needed.
	StatusPending Status = iota

	// StatusResolved means a complete motion was produced.
	StatusResolved

	// StatusNeedsInput means a deferred motion wants an argument.
	StatusNeedsInput

	// StatusUnknown means the key resolves to nothing; callers treat
	// this as a no-op.
	StatusUnknown
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusResolved:
		return "resolved"
	case StatusNeedsInput:
		return "needs-input"
	case StatusUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// Result is what one fed key produced.
type Result struct {
	Status  Status
	Motion  Motion         // valid when Status == StatusResolved
	Pending *PendingMotion // valid when Status == StatusNeedsInput
}

type dispatchState uint8

const (
	stateIdle dispatchState = iota
	stateCount
	stateSub
)

// Dispatcher accumulates a count prefix and resolves keys against a
// Table. The table is shared and read-only; the accumulated count lives
// here and is substituted into a copy of the matched descriptor, so
// concurrent or repeated parses never interfere.
type Dispatcher struct {
	table *Table
	state dispatchState
	count int
	sub   rune
}

// NewDispatcher creates a dispatcher over table.
func NewDispatcher(table *Table) *Dispatcher {
	return &Dispatcher{table: table}
}

// Reset aborts any in-progress sequence.
func (d *Dispatcher) Reset() {
	d.state = stateIdle
	d.count = 0
	d.sub = 0
}

// Count returns the count accumulated so far (0 if none).
func (d *Dispatcher) Count() int { return d.count }

// Feed processes one key token. Every non-Pending result leaves the
// dispatcher reset and ready for the next sequence.
func (d *Dispatcher) Feed(r rune) Result {
	switch d.state {
	case stateSub:
		sub := d.table.subs[d.sub]
		m, ok := sub[r]
		if !ok {
			d.Reset()
			return Result{Status: StatusUnknown}
		}
		return d.resolve(m)

	case stateCount:
		if r >= '0' && r <= '9' {
			d.accumulate(r)
			return Result{Status: StatusPending}
		}
		return d.lookup(r)

	default: // stateIdle
		// A bare 0 is the line-start motion, not a leading zero.
		if r >= '1' && r <= '9' {
			d.state = stateCount
			d.accumulate(r)
			return Result{Status: StatusPending}
		}
		return d.lookup(r)
	}
}

func (d *Dispatcher) accumulate(r rune) {
	digit := int(r - '0')
	if d.count > (math.MaxInt-digit)/10 {
		d.count = math.MaxInt / 10
		return
	}
	d.count = d.count*10 + digit
}

func (d *Dispatcher) lookup(r rune) Result {
	if _, ok := d.table.subs[r]; ok {
		d.sub = r
		d.state = stateSub
		return Result{Status: StatusPending}
	}
	if kind, ok := d.table.deferred[r]; ok {
		p := &PendingMotion{Kind: kind, Count: d.count}
		d.Reset()
		return Result{Status: StatusNeedsInput, Pending: p}
	}
	if m, ok := d.table.simple[r]; ok {
		return d.resolve(m)
	}
	d.Reset()
	return Result{Status: StatusUnknown}
}

// resolve produces a copy of the template with the typed count
// substituted; the template keeps its own default.
func (d *Dispatcher) resolve(m Motion) Result {
	if d.count > 0 {
		m.Count = d.count
	}
	d.Reset()
	return Result{Status: StatusResolved, Motion: m}
}
