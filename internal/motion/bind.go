package motion

// Resolver turns a resolved range motion into the zero-argument action
// the caller will invoke. It is supplied per bind, so the same selection
// table serves delete, change and any other range-taking command.
type Resolver func(RangeMotion) func()

// Binder composes an action-specific key table with a selection table.
// The binder itself holds no state; every Bind call produces an
// independent dispatch surface.
type Binder struct {
	sel *SelTable
}

// NewBinder creates a binder over sel.
func NewBinder(sel *SelTable) *Binder {
	return &Binder{sel: sel}
}

// Bind produces a dispatch surface that resolves key sequences
// (count, optional subcommand, motion or text object) through extra
// first and the selection table as fallback.
func (b *Binder) Bind(extra map[rune]RangeMotion, resolve Resolver) *Bound {
	return &Bound{sel: b.sel, extra: extra, resolve: resolve}
}

// BindResult is what one fed key produced on a bound surface.
type BindResult struct {
	Status  Status
	Action  func()         // valid when Status == StatusResolved
	Pending *PendingMotion // valid when Status == StatusNeedsInput
}

// Bound is one in-progress key-sequence resolution.
type Bound struct {
	sel     *SelTable
	extra   map[rune]RangeMotion
	resolve Resolver

	state dispatchState
	count int
	sub   rune
}

// Reset aborts the in-progress sequence.
func (bd *Bound) Reset() {
	bd.state = stateIdle
	bd.count = 0
	bd.sub = 0
}

// Feed processes one key token.
func (bd *Bound) Feed(r rune) BindResult {
	switch bd.state {
	case stateSub:
		sub := bd.sel.subs[bd.sub]
		rm, ok := sub[r]
		if !ok {
			bd.Reset()
			return BindResult{Status: StatusUnknown}
		}
		return bd.finish(rm)

	case stateCount:
		if r >= '0' && r <= '9' {
			bd.count = bd.count*10 + int(r-'0')
			return BindResult{Status: StatusPending}
		}
		return bd.lookup(r)

	default:
		if r >= '1' && r <= '9' {
			bd.state = stateCount
			bd.count = int(r - '0')
			return BindResult{Status: StatusPending}
		}
		return bd.lookup(r)
	}
}

func (bd *Bound) lookup(r rune) BindResult {
	if rm, ok := bd.extra[r]; ok {
		return bd.finish(rm)
	}
	if _, ok := bd.sel.subs[r]; ok {
		bd.sub = r
		bd.state = stateSub
		return BindResult{Status: StatusPending}
	}
	if kind, ok := bd.sel.deferred[r]; ok {
		p := &PendingMotion{Kind: kind, Count: bd.count}
		bd.Reset()
		return BindResult{Status: StatusNeedsInput, Pending: p}
	}
	if rm, ok := bd.sel.simple[r]; ok {
		return bd.finish(rm)
	}
	bd.Reset()
	return BindResult{Status: StatusUnknown}
}

// Complete finishes a deferred motion started on this surface: the
// completed search becomes the range the action operates on.
func (bd *Bound) Complete(p *PendingMotion, term string) BindResult {
	return bd.finish(deriveRange(p.Complete(term)))
}

func (bd *Bound) finish(rm RangeMotion) BindResult {
	if bd.count > 0 {
		rm.Count = bd.count
	}
	bd.Reset()
	return BindResult{Status: StatusResolved, Action: bd.resolve(rm)}
}
