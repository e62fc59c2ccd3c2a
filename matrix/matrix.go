// Package matrix implements small dense matrices over GF(2^8): the
// code-matrix builders for the raid engine's two code families
// (Cauchy and Vandermonde), and Gauss-Jordan inversion used during
// recovery.
package matrix

import (
	"github.com/pkg/errors"

	"lukechampine.com/raid/galois"
)

// Matrix is a dense row-major matrix of GF(2^8) elements.
type Matrix [][]byte

// ErrInvalidDimensions is returned when a requested matrix shape is
// non-positive.
var ErrInvalidDimensions = errors.New("matrix: rows and cols must be positive")

// New returns a new, zeroed rows x cols matrix.
func New(rows, cols int) (Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	m := make(Matrix, rows)
	data := make([]byte, rows*cols)
	for i := range m {
		m[i] = data[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return m, nil
}

// Rows returns the number of rows in m.
func (m Matrix) Rows() int { return len(m) }

// Cols returns the number of columns in m.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// ErrInvalidRowRange and ErrInvalidColRange are returned by SubMatrix
// when the requested range falls outside m.
var (
	ErrInvalidRowRange = errors.New("matrix: row range out of bounds")
	ErrInvalidColRange = errors.New("matrix: column range out of bounds")
)

// SubMatrix returns the submatrix of m spanning rows [rmin,rmax) and
// columns [cmin,cmax), as a fresh copy.
func (m Matrix) SubMatrix(rmin, cmin, rmax, cmax int) (Matrix, error) {
	if rmin < 0 || rmax > m.Rows() || rmin >= rmax {
		return nil, ErrInvalidRowRange
	}
	if cmin < 0 || cmax > m.Cols() || cmin >= cmax {
		return nil, ErrInvalidColRange
	}
	sub, err := New(rmax-rmin, cmax-cmin)
	if err != nil {
		return nil, err
	}
	for r := rmin; r < rmax; r++ {
		copy(sub[r-rmin], m[r][cmin:cmax])
	}
	return sub, nil
}

// ErrDimensionMismatch is returned by Multiply when the operand shapes
// are incompatible.
var ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

// Multiply returns m * other.
func (m Matrix) Multiply(other Matrix) (Matrix, error) {
	if m.Cols() != other.Rows() {
		return nil, ErrDimensionMismatch
	}
	result, err := New(m.Rows(), other.Cols())
	if err != nil {
		return nil, err
	}
	for r := 0; r < m.Rows(); r++ {
		for c := 0; c < other.Cols(); c++ {
			var v byte
			for i := 0; i < m.Cols(); i++ {
				v ^= galois.Mul(m[r][i], other[i][c])
			}
			result[r][c] = v
		}
	}
	return result, nil
}

// ErrNotSquare is returned by Invert when m is not square.
var ErrNotSquare = errors.New("matrix: not square")

// ErrSingular is returned by Invert when m has no inverse over
// GF(2^8) — no pivot can be found for some column during Gauss-Jordan
// elimination. This cannot arise for a well-formed Cauchy submatrix,
// but can for a Vandermonde submatrix requested with np > 3.
var ErrSingular = errors.New("matrix: singular, cannot invert")

// Invert returns the inverse of m via Gauss-Jordan elimination with
// partial pivoting (pivot on the first non-zero entry at or below the
// current row in the current column), operating entirely over
// GF(2^8).
func (m Matrix) Invert() (Matrix, error) {
	n := m.Rows()
	if n != m.Cols() {
		return nil, ErrNotSquare
	}

	// Augment [m | I] and row-reduce the left half to I; the right half
	// becomes the inverse.
	aug, err := New(n, 2*n)
	if err != nil {
		return nil, err
	}
	for r := 0; r < n; r++ {
		copy(aug[r][:n], m[r])
		aug[r][n+r] = 1
	}

	for col := 0; col < n; col++ {
		pivot := -1
		for row := col; row < n; row++ {
			if aug[row][col] != 0 {
				pivot = row
				break
			}
		}
		if pivot == -1 {
			return nil, ErrSingular
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]

		inv, err := galois.Inv(aug[col][col])
		if err != nil {
			return nil, ErrSingular
		}
		if inv != 1 {
			for c := 0; c < 2*n; c++ {
				aug[col][c] = galois.Mul(aug[col][c], inv)
			}
		}

		for row := 0; row < n; row++ {
			if row == col {
				continue
			}
			factor := aug[row][col]
			if factor == 0 {
				continue
			}
			for c := 0; c < 2*n; c++ {
				aug[row][c] ^= galois.Mul(factor, aug[col][c])
			}
		}
	}

	result, err := New(n, n)
	if err != nil {
		return nil, err
	}
	for r := 0; r < n; r++ {
		copy(result[r], aug[r][n:])
	}
	return result, nil
}
