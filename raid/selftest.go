package raid

import (
	"bytes"

	"github.com/pkg/errors"
)

// selfTestDataShards and selfTestBlockSize keep the self-test's
// combinatorial sweep (every subset of up to np positions) cheap while
// still exercising every parity row for both code families.
const (
	selfTestDataShards = 5
	selfTestBlockSize  = 64
)

// SelfTest builds engines for both code families, generates parity
// over a fixed deterministic pattern, and for every subset of up to np
// positions among nd+np, zeroes those positions and verifies Rec
// restores the original contents exactly. It returns the first
// mismatch found, wrapped with enough context (mode, failure subset)
// for an outer program to log a useful diagnostic, or nil if every
// combination round-trips.
func SelfTest() error {
	if err := SelfTestMode(ModeCauchy); err != nil {
		return err
	}
	return SelfTestMode(ModeVandermonde)
}

// SelfTestMode runs the self-test sweep for a single code family, over
// every parity count that family supports.
func SelfTestMode(mode Mode) error {
	maxNP := 6
	if mode == ModeVandermonde {
		maxNP = 3
	}
	for np := 1; np <= maxNP; np++ {
		if err := selfTestOne(mode, selfTestDataShards, np); err != nil {
			return errors.Wrapf(err, "selftest: mode=%s np=%d", mode, np)
		}
	}
	return nil
}

func selfTestOne(mode Mode, nd, np int) error {
	e, err := NewEngine(nd, np, WithMode(mode))
	if err != nil {
		return err
	}
	zero := make([]byte, selfTestBlockSize)
	e.SetZero(zero)

	total := nd + np
	original := make([][]byte, total)
	for i := 0; i < total; i++ {
		original[i] = make([]byte, selfTestBlockSize)
	}
	for d := 0; d < nd; d++ {
		fill := byte(0x11 * (d + 1))
		for i := range original[d] {
			original[d][i] = fill
		}
	}

	v := cloneBlocks(original)
	if err := e.Gen(selfTestBlockSize, v); err != nil {
		return errors.Wrap(err, "selftest: Gen failed")
	}
	copy(original[nd:], v[nd:])

	for size := 1; size <= np; size++ {
		for _, subset := range combinations(total, size) {
			trial := cloneBlocks(original)
			for _, idx := range subset {
				trial[idx] = make([]byte, selfTestBlockSize)
			}
			if err := e.Rec(subset, selfTestBlockSize, trial); err != nil {
				return errors.Wrapf(err, "selftest: Rec failed for subset %v", subset)
			}
			for _, idx := range subset {
				if !bytes.Equal(trial[idx], original[idx]) {
					return errors.Errorf("selftest: subset %v did not restore block %d", subset, idx)
				}
			}
		}
	}
	return nil
}

func cloneBlocks(src [][]byte) [][]byte {
	dst := make([][]byte, len(src))
	for i, b := range src {
		dst[i] = append([]byte(nil), b...)
	}
	return dst
}

// combinations returns every size-element subset of {0,...,n-1}, in
// ascending order within each subset — exactly the ordering Rec
// requires of its failure-index argument.
func combinations(n, size int) [][]int {
	var out [][]int
	cur := make([]int, 0, size)
	var rec func(start int)
	rec = func(start int) {
		if len(cur) == size {
			out = append(out, append([]int(nil), cur...))
			return
		}
		for i := start; i < n; i++ {
			cur = append(cur, i)
			rec(i + 1)
			cur = cur[:len(cur)-1]
		}
	}
	rec(0)
	return out
}
