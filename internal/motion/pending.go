package motion

// DeferredKind identifies what argument a pending motion is waiting for.
type DeferredKind uint8

const (
	// SearchForward is the / incremental search motion.
	SearchForward DeferredKind = iota

	// SearchBackward is the ? incremental search motion.
	SearchBackward
)

// PendingMotion is the suspended half of a deferred motion: the
// dispatcher has seen the trigger key and is waiting for the caller to
// supply the argument. Discarding a PendingMotion without completing it
// cancels the motion; there is nothing to undo.
type PendingMotion struct {
	Kind  DeferredKind
	Count int
}

// Complete turns the pending motion plus its argument into a runnable
// descriptor. The search is a literal substring match, repeated count
// times; a miss leaves the cursor where the last hit put it.
func (p *PendingMotion) Complete(term string) Motion {
	kind := p.Kind
	name := "search-forward"
	if kind == SearchBackward {
		name = "search-backward"
	}
	return Motion{
		Name:  name,
		Class: ClassExclusive,
		Count: p.Count,
		Move: func(b Buffer, count int) {
			count = atLeastOne(count)
			pos := b.Pos()
			for ; count > 0; count-- {
				var next int
				var ok bool
				if kind == SearchForward {
					next, ok = b.SearchForward(term, pos+1)
				} else {
					next, ok = b.SearchBackward(term, pos)
				}
				if !ok {
					break
				}
				pos = next
			}
			b.SetPos(pos)
		},
	}
}
