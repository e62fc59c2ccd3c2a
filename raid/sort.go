package raid

// SortIndices sorts a small slice of block-vector indices in place
// using insertion sort. Callers with unordered failure lists use this
// before calling Rec, which requires ir to already be in ascending
// order. Insertion sort is appropriate here because n is bounded by
// the maximum parity count.
func SortIndices(v []int) {
	for i := 1; i < len(v); i++ {
		for j := i; j > 0 && v[j-1] > v[j]; j-- {
			v[j-1], v[j] = v[j], v[j-1]
		}
	}
}

func isSortedAscending(v []int) bool {
	for i := 1; i < len(v); i++ {
		if v[i-1] >= v[i] {
			return false
		}
	}
	return true
}

func containsInt(v []int, x int) bool {
	for _, y := range v {
		if y == x {
			return true
		}
	}
	return false
}
