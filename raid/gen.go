package raid

import "sync"

// Fan-out tuning for Gen: minSplitSize/maxGoroutines bound how many
// byte-range workers a single call spawns.
const (
	minSplitSize  = 1024
	maxGoroutines = 32
)

// Gen computes the np parity blocks from the nd data blocks in v: for
// each parity row, the output is the field-weighted sum of all data
// blocks under the active code matrix. Row 0 (P) collapses to a pure
// XOR since its coefficients are all 1.
//
// v must have at least nd+np elements, data blocks in v[0:nd) are only
// read, and parity blocks in v[nd:nd+np) are overwritten. Every block
// in use must have at least size bytes, and size must be a positive
// multiple of 64.
func (e *Engine) Gen(size int, v [][]byte) error {
	if err := e.validateVector(size, v); err != nil {
		return err
	}
	e.genRange(v, size)
	return nil
}

// genRange shards [0,size) into goroutine-sized byte ranges and runs
// genBlockRange over each concurrently, returning once every shard is
// done. This fan-out is purely an implementation detail of a single
// synchronous Gen call: no goroutine outlives this function.
func (e *Engine) genRange(v [][]byte, size int) {
	do := size / maxGoroutines
	if do < minSplitSize {
		do = size
	}
	do = (do + 63) &^ 63
	if do <= 0 {
		do = size
	}

	if do >= size {
		e.genBlockRange(v, 0, size)
		return
	}

	var wg sync.WaitGroup
	for start := 0; start < size; start += do {
		stop := start + do
		if stop > size {
			stop = size
		}
		wg.Add(1)
		go func(start, stop int) {
			defer wg.Done()
			e.genBlockRange(v, start, stop)
		}(start, stop)
	}
	wg.Wait()
}

// genBlockRange computes v[nd+p][start:stop] for every parity row p,
// reading each data block exactly once regardless of np by iterating
// data blocks in the outer loop and interleaving rows to share those
// reads across parities.
func (e *Engine) genBlockRange(v [][]byte, start, stop int) {
	e.genRows(allRows(e.np), v, start, stop)
}

// genRows computes only the named parity rows over [start,stop),
// reading every data block once. Used both by genBlockRange (all rows)
// and by Rec/RecDataOnly to regenerate a subset of parity rows after
// data recovery.
func (e *Engine) genRows(rows []int, v [][]byte, start, stop int) {
	for d := 0; d < e.nd; d++ {
		data := v[d][start:stop]
		for _, p := range rows {
			c := e.m[p][d]
			out := v[e.nd+p][start:stop]
			if d == 0 {
				e.dispatch.Mul(out, data, c)
			} else if c != 0 {
				e.dispatch.MulAdd(out, data, c)
			}
		}
	}
}

func allRows(np int) []int {
	rows := make([]int, np)
	for i := range rows {
		rows[i] = i
	}
	return rows
}
