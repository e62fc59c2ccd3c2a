package raid

import "lukechampine.com/raid/matrix"

// Rec recovers the blocks named in ir — a sorted list of indices into
// the nd+np buffer vector:
//
//  1. Partition failures into failed-data and failed-parity indices.
//  2. Select the nr-|failedParity| lowest-indexed surviving parity rows.
//  3. Build and invert the square submatrix those rows form over the
//     failed-data columns.
//  4. Compute syndromes by subtracting surviving data's contribution
//     from the corresponding stored parity.
//  5. Recover each failed data block from the syndromes via the
//     inverse matrix.
//  6. Regenerate any failed parity blocks now that all data is intact.
//
// A zero buffer must be bound via SetZero before calling Rec whenever
// nr includes a failed data index, since step 4's subtraction treats
// failed data blocks as contributing zero.
func (e *Engine) Rec(ir []int, size int, v [][]byte) error {
	if err := e.validateVector(size, v); err != nil {
		return err
	}
	nr := len(ir)
	if nr == 0 {
		return nil
	}
	if nr > e.np {
		return ErrTooManyFailures
	}
	if !isSortedAscending(ir) {
		return ErrUnsorted
	}
	for _, idx := range ir {
		if idx < 0 || idx >= e.nd+e.np {
			return ErrIndexRange
		}
	}

	var failedData, failedParity []int
	for _, idx := range ir {
		if idx < e.nd {
			failedData = append(failedData, idx)
		} else {
			failedParity = append(failedParity, idx-e.nd)
		}
	}

	if len(failedData) == 0 {
		e.genRows(failedParity, v, 0, size)
		return nil
	}
	if e.zero == nil {
		return ErrNoZeroBuffer
	}

	k := len(failedData)
	failedParitySet := make(map[int]bool, len(failedParity))
	for _, p := range failedParity {
		failedParitySet[p] = true
	}
	chosenParities := make([]int, 0, k)
	for p := 0; p < e.np && len(chosenParities) < k; p++ {
		if !failedParitySet[p] {
			chosenParities = append(chosenParities, p)
		}
	}
	if len(chosenParities) < k {
		return ErrTooManyFailures
	}

	inv, err := e.decodeMatrix(chosenParities, failedData)
	if err != nil {
		return err
	}

	failedDataSet := make(map[int]bool, k)
	for _, d := range failedData {
		failedDataSet[d] = true
	}

	syn := make([][]byte, k)
	for i, p := range chosenParities {
		s := make([]byte, size)
		copy(s, v[e.nd+p][:size])
		for d := 0; d < e.nd; d++ {
			if failedDataSet[d] {
				continue
			}
			if c := e.m[p][d]; c != 0 {
				e.dispatch.MulAdd(s, v[d][:size], c)
			}
		}
		syn[i] = s
	}

	for i, d := range failedData {
		out := ensureBlock(v, d, size)
		for b := range out {
			out[b] = 0
		}
		for j := 0; j < k; j++ {
			if c := inv[i][j]; c != 0 {
				e.dispatch.MulAdd(out, syn[j], c)
			}
		}
	}

	e.genRows(failedParity, v, 0, size)
	return nil
}

func ensureBlock(v [][]byte, idx, size int) []byte {
	if cap(v[idx]) >= size {
		v[idx] = v[idx][:size]
	} else {
		v[idx] = make([]byte, size)
	}
	return v[idx]
}

// decodeMatrix returns (from cache, if present) the inverse of the
// square submatrix formed by rows `parities` and columns `cols` of the
// active code matrix.
func (e *Engine) decodeMatrix(parities, cols []int) (matrix.Matrix, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if inv, ok := e.cache.get(parities, cols); ok {
		return inv, nil
	}

	k := len(parities)
	a, err := matrix.New(k, k)
	if err != nil {
		return nil, err
	}
	for i, p := range parities {
		for j, d := range cols {
			a[i][j] = e.m[p][d]
		}
	}
	inv, err := a.Invert()
	if err != nil {
		return nil, err
	}
	e.cache.put(parities, cols, inv)
	return inv, nil
}
