package raid

import (
	"bytes"
	"testing"

	"lukechampine.com/frand"
)

func fullBlocks(fill []byte, n, size int) [][]byte {
	v := make([][]byte, n)
	for i := range v {
		v[i] = make([]byte, size)
	}
	for i, b := range fill {
		for j := range v[i] {
			v[i][j] = b
		}
	}
	return v
}

// S1 — Single-parity XOR.
func TestScenarioS1(t *testing.T) {
	e, err := NewEngine(3, 1)
	if err != nil {
		t.Fatal(err)
	}
	zero := make([]byte, 64)
	e.SetZero(zero)

	v := fullBlocks([]byte{0x01, 0x02, 0x04}, 4, 64)
	if err := e.Gen(64, v); err != nil {
		t.Fatal(err)
	}
	for _, b := range v[3] {
		if b != 0x07 {
			t.Fatalf("parity byte = %#x, want 0x07", b)
		}
	}

	v[1] = make([]byte, 64)
	if err := e.Rec([]int{1}, 64, v); err != nil {
		t.Fatal(err)
	}
	for _, b := range v[1] {
		if b != 0x02 {
			t.Fatalf("recovered byte = %#x, want 0x02", b)
		}
	}
}

// S2 — Dual parity.
func TestScenarioS2(t *testing.T) {
	e, err := NewEngine(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	zero := make([]byte, 64)
	e.SetZero(zero)

	v := fullBlocks([]byte{0xAA, 0x55}, 4, 64)
	if err := e.Gen(64, v); err != nil {
		t.Fatal(err)
	}
	for _, b := range v[2] {
		if b != 0xFF {
			t.Fatalf("P parity byte = %#x, want 0xFF", b)
		}
	}
	for _, b := range v[3] {
		if b != 0x00 {
			t.Fatalf("Q parity byte = %#x, want 0x00", b)
		}
	}

	original := cloneBlocks(v)
	v[0] = make([]byte, 64)
	v[1] = make([]byte, 64)
	if err := e.Rec([]int{0, 1}, 64, v); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(v[0], original[0]) || !bytes.Equal(v[1], original[1]) {
		t.Fatal("dual-parity recovery did not restore both data blocks")
	}
}

// S3 — Triple parity, Cauchy, round-trip over several failure subsets.
func TestScenarioS3(t *testing.T) {
	nd, np := 5, 3
	e, err := NewEngine(nd, np, WithMode(ModeCauchy))
	if err != nil {
		t.Fatal(err)
	}
	zero := make([]byte, 64)
	e.SetZero(zero)

	fill := make([]byte, nd)
	for d := range fill {
		fill[d] = byte(0x11 * (d + 1))
	}
	v := fullBlocks(fill, nd+np, 64)
	if err := e.Gen(64, v); err != nil {
		t.Fatal(err)
	}
	original := cloneBlocks(v)

	for _, subset := range combinations(nd+np, 3) {
		trial := cloneBlocks(original)
		for _, idx := range subset {
			trial[idx] = make([]byte, 64)
		}
		if err := e.Rec(subset, 64, trial); err != nil {
			t.Fatalf("subset %v: %v", subset, err)
		}
		for _, idx := range subset {
			if !bytes.Equal(trial[idx], original[idx]) {
				t.Fatalf("subset %v: block %d not restored", subset, idx)
			}
		}
	}
}

// S4 — Data-only recovery with a waste buffer: chosen parities are
// untouched, failed data blocks are restored exactly.
func TestScenarioS4(t *testing.T) {
	nd, np := 4, 3
	e, err := NewEngine(nd, np)
	if err != nil {
		t.Fatal(err)
	}
	waste := make([]byte, 64)
	e.SetWaste(waste)
	e.SetZero(make([]byte, 64))

	v := make([][]byte, nd+np)
	for i := range v {
		v[i] = frand.Bytes(64)
	}
	if err := e.Gen(64, v); err != nil {
		t.Fatal(err)
	}
	original := cloneBlocks(v)

	trial := cloneBlocks(original)
	trial[0] = make([]byte, 64)
	trial[2] = make([]byte, 64)
	if err := e.RecDataOnly([]int{0, 2}, []int{0, 1}, 64, trial); err != nil {
		t.Fatal(err)
	}
	for _, idx := range []int{0, 2} {
		if !bytes.Equal(trial[idx], original[idx]) {
			t.Fatalf("data block %d not restored", idx)
		}
	}
	for p := 0; p < np; p++ {
		if !bytes.Equal(trial[nd+p], original[nd+p]) {
			t.Fatalf("parity block %d was modified despite waste buffer", p)
		}
	}
}

// S5 — Mode incompatibility: Vandermonde rejects np=4; Cauchy accepts it.
func TestScenarioS5(t *testing.T) {
	if _, err := NewEngine(5, 4, WithMode(ModeVandermonde)); err == nil {
		t.Fatal("expected Vandermonde np=4 to fail")
	}
	e, err := NewEngine(5, 4, WithMode(ModeCauchy))
	if err != nil {
		t.Fatal(err)
	}
	if err := e.SetMode(ModeVandermonde); err == nil {
		t.Fatal("expected SetMode(Vandermonde) to fail for np=4")
	}
	if err := e.SetMode(ModeCauchy); err != nil {
		t.Fatal(err)
	}
}

// S6 — Self-test passes for both modes.
func TestScenarioS6(t *testing.T) {
	if err := SelfTest(); err != nil {
		t.Fatal(err)
	}
}

// Universal invariant 1: Gen is deterministic.
func TestGenDeterministic(t *testing.T) {
	e, err := NewEngine(6, 3)
	if err != nil {
		t.Fatal(err)
	}
	data := make([][]byte, 9)
	for i := 0; i < 6; i++ {
		data[i] = frand.Bytes(128)
	}
	for i := 6; i < 9; i++ {
		data[i] = make([]byte, 128)
	}

	v1 := cloneBlocks(data)
	v2 := cloneBlocks(data)
	if err := e.Gen(128, v1); err != nil {
		t.Fatal(err)
	}
	if err := e.Gen(128, v2); err != nil {
		t.Fatal(err)
	}
	for i := 6; i < 9; i++ {
		if !bytes.Equal(v1[i], v2[i]) {
			t.Fatalf("parity %d differs between identical Gen calls", i)
		}
	}
}

// Universal invariant 5: P-parity equals the XOR of all data blocks.
func TestPParityIsXOR(t *testing.T) {
	e, err := NewEngine(4, 2)
	if err != nil {
		t.Fatal(err)
	}
	v := make([][]byte, 6)
	for i := 0; i < 4; i++ {
		v[i] = frand.Bytes(64)
	}
	v[4] = make([]byte, 64)
	v[5] = make([]byte, 64)
	if err := e.Gen(64, v); err != nil {
		t.Fatal(err)
	}
	want := make([]byte, 64)
	for i := 0; i < 4; i++ {
		for b := range want {
			want[b] ^= v[i][b]
		}
	}
	if !bytes.Equal(v[4], want) {
		t.Fatal("P parity is not the XOR of all data blocks")
	}
}

// Universal invariant 3: RecDataOnly's result is independent of which
// valid parity subset is chosen.
func TestRecDataOnlyIndependentOfParityChoice(t *testing.T) {
	nd, np := 6, 4
	e, err := NewEngine(nd, np)
	if err != nil {
		t.Fatal(err)
	}
	e.SetZero(make([]byte, 64))
	v := make([][]byte, nd+np)
	for i := 0; i < nd; i++ {
		v[i] = frand.Bytes(64)
	}
	for i := nd; i < nd+np; i++ {
		v[i] = make([]byte, 64)
	}
	if err := e.Gen(64, v); err != nil {
		t.Fatal(err)
	}
	original := cloneBlocks(v)

	id := []int{1, 3}
	for _, ip := range [][]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}} {
		trial := cloneBlocks(original)
		trial[1] = make([]byte, 64)
		trial[3] = make([]byte, 64)
		if err := e.RecDataOnly(id, ip, 64, trial); err != nil {
			t.Fatalf("ip=%v: %v", ip, err)
		}
		if !bytes.Equal(trial[1], original[1]) || !bytes.Equal(trial[3], original[3]) {
			t.Fatalf("ip=%v: recovered data differs from original", ip)
		}
	}
}

func TestRecRejectsTooManyFailures(t *testing.T) {
	e, err := NewEngine(5, 2)
	if err != nil {
		t.Fatal(err)
	}
	v := make([][]byte, 7)
	for i := range v {
		v[i] = make([]byte, 64)
	}
	if err := e.Rec([]int{0, 1, 2}, 64, v); err != ErrTooManyFailures {
		t.Fatalf("err = %v, want ErrTooManyFailures", err)
	}
}

func TestRecRejectsUnsortedIndices(t *testing.T) {
	e, err := NewEngine(5, 2)
	if err != nil {
		t.Fatal(err)
	}
	e.SetZero(make([]byte, 64))
	v := make([][]byte, 7)
	for i := range v {
		v[i] = make([]byte, 64)
	}
	if err := e.Rec([]int{2, 1}, 64, v); err != ErrUnsorted {
		t.Fatalf("err = %v, want ErrUnsorted", err)
	}
}

func TestRecDataOnlyRequiresZeroBuffer(t *testing.T) {
	e, err := NewEngine(5, 3)
	if err != nil {
		t.Fatal(err)
	}
	v := make([][]byte, 7)
	for i := range v {
		v[i] = make([]byte, 64)
	}
	if err := e.RecDataOnly([]int{0}, []int{0}, 64, v); err != ErrNoZeroBuffer {
		t.Fatalf("err = %v, want ErrNoZeroBuffer", err)
	}
}

// RecDataOnly only needs blocks up to the highest index named in ip,
// not the full nd+np vector Rec requires.
func TestRecDataOnlyAcceptsTightVector(t *testing.T) {
	nd, np := 5, 4
	e, err := NewEngine(nd, np)
	if err != nil {
		t.Fatal(err)
	}
	e.SetZero(make([]byte, 64))
	v := make([][]byte, nd+np)
	for i := range v {
		v[i] = frand.Bytes(64)
	}
	if err := e.Gen(64, v); err != nil {
		t.Fatal(err)
	}
	original := cloneBlocks(v)

	id, ip := []int{0}, []int{1}
	short := make([][]byte, nd+ip[0]+1)
	copy(short, v[:len(short)])
	short[0] = make([]byte, 64)
	if err := e.RecDataOnly(id, ip, 64, short); err != nil {
		t.Fatalf("RecDataOnly with tight vector: %v", err)
	}
	if !bytes.Equal(short[0], original[0]) {
		t.Fatal("data block 0 not restored")
	}

	tooShort := short[:len(short)-1]
	if err := e.RecDataOnly(id, ip, 64, tooShort); err != ErrShortVector {
		t.Fatalf("err = %v, want ErrShortVector", err)
	}
}

func TestSortIndices(t *testing.T) {
	v := []int{5, 1, 4, 2, 0, 3}
	SortIndices(v)
	for i := 1; i < len(v); i++ {
		if v[i-1] >= v[i] {
			t.Fatalf("not sorted: %v", v)
		}
	}
}
