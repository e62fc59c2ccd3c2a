package raid

// RecDataOnly recovers the data blocks named in id using exactly the
// caller-chosen parity rows named in ip. Unlike Rec, the caller picks
// which surviving parities feed the reconstruction, no parity
// regeneration is performed, and parity blocks not named in ip are
// never read.
//
// If a waste buffer is bound via SetWaste, it is used as the scratch
// area for intermediate syndrome computation and no parity block in v
// is modified. Without a waste buffer, RecDataOnly borrows as scratch
// the lowest parity slot up to ip[nr-1] that is not named in ip, so its
// contents are destroyed; if every parity slot up to ip[nr-1] is named
// in ip, the slot currently being consumed is reused in place once its
// value has been folded into the syndrome, since no further read of it
// is needed.
//
// len(id) must equal len(ip) and must not exceed np. Both must be
// sorted ascending; id indexes [0,nd) and ip indexes [0,np). Unlike
// Rec's full nd+np vector, v need only hold blocks [0, nd+ip[nr-1]+1):
// parity slots past the highest index named in ip are never read.
//
// A zero buffer must be bound via SetZero before calling RecDataOnly
// whenever id is non-empty, for the same reason Rec requires it: the
// syndrome computation below treats named data blocks as contributing
// zero.
func (e *Engine) RecDataOnly(id, ip []int, size int, v [][]byte) error {
	if err := validateSize(size); err != nil {
		return err
	}
	if len(id) != len(ip) {
		return ErrLengthMismatch
	}
	nr := len(id)
	if nr == 0 {
		return nil
	}
	if nr > e.np {
		return ErrTooManyFailures
	}
	if !isSortedAscending(id) || !isSortedAscending(ip) {
		return ErrUnsorted
	}
	for _, d := range id {
		if d < 0 || d >= e.nd {
			return ErrIndexRange
		}
	}
	for _, p := range ip {
		if p < 0 || p >= e.np {
			return ErrIndexRange
		}
	}
	if e.zero == nil {
		return ErrNoZeroBuffer
	}

	bound := e.nd + ip[nr-1] + 1
	if len(v) < bound {
		return ErrShortVector
	}
	for i := 0; i < bound; i++ {
		if len(v[i]) < size {
			return ErrShortBlock
		}
	}

	inv, err := e.decodeMatrix(ip, id)
	if err != nil {
		return err
	}

	idSet := make(map[int]bool, len(id))
	for _, d := range id {
		idSet[d] = true
	}
	ipSet := make(map[int]bool, len(ip))
	for _, p := range ip {
		ipSet[p] = true
	}

	for _, d := range id {
		out := ensureBlock(v, d, size)
		for b := range out {
			out[b] = 0
		}
	}

	maxP := ip[nr-1]
	for j, p := range ip {
		scratch := e.scratchBlock(v, ipSet, p, maxP, size)
		copy(scratch, v[e.nd+p][:size])
		for d := 0; d < e.nd; d++ {
			if idSet[d] {
				continue
			}
			if c := e.m[p][d]; c != 0 {
				e.dispatch.MulAdd(scratch, v[d][:size], c)
			}
		}
		for i, d := range id {
			if c := inv[i][j]; c != 0 {
				e.dispatch.MulAdd(v[d][:size], scratch, c)
			}
		}
	}
	return nil
}

// scratchBlock returns the working buffer used to accumulate the
// syndrome for parity row p. If a waste buffer is bound, that buffer
// is always used, leaving every parity block in v untouched. Otherwise
// it prefers a parity slot not named in ip, searching only up to maxP
// (the highest index named in ip) since v is never required to hold
// slots beyond that; it falls back to p's own slot if every parity up
// to maxP is in use.
func (e *Engine) scratchBlock(v [][]byte, ip map[int]bool, p, maxP, size int) []byte {
	if e.waste != nil {
		return e.waste[:size]
	}
	for q := 0; q <= maxP; q++ {
		if !ip[q] {
			return v[e.nd+q][:size]
		}
	}
	return v[e.nd+p][:size]
}
