// Package galois implements GF(2^8) arithmetic over the irreducible
// polynomial 0x11D, the field used throughout the raid erasure-coding
// engine for parity generation and recovery.
package galois

import "github.com/pkg/errors"

// generator is the primitive element used to build the log/antilog
// tables and the Q-parity row (g^d) of the code matrix.
const generator = 0x02

// poly is the irreducible polynomial modulus for GF(2^8): x^8 + x^4 +
// x^3 + x^2 + 1.
const poly = 0x11D

var (
	expTable [510]byte // expTable[i] = generator^i, doubled up to avoid modular wraparound in Mul
	logTable [256]byte // logTable[expTable[i]] = i, for i in [0,255)
)

func init() {
	x := byte(1)
	for i := 0; i < 255; i++ {
		expTable[i] = x
		logTable[x] = byte(i)
		hi := x & 0x80
		x <<= 1
		if hi != 0 {
			x ^= byte(poly)
		}
	}
	// logTable[0] is left at its zero value; it is never consulted because
	// Mul special-cases zero operands and Inv rejects a zero input.
	for i := 255; i < 510; i++ {
		expTable[i] = expTable[i-255]
	}
}

// ErrZeroInverse is returned by Inv when asked to invert zero, which has
// no multiplicative inverse in any field.
var ErrZeroInverse = errors.New("galois: zero has no multiplicative inverse")

// Add returns a+b in GF(2^8), i.e. a XOR b.
func Add(a, b byte) byte {
	return a ^ b
}

// Mul returns a*b in GF(2^8).
func Mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[int(logTable[a])+int(logTable[b])]
}

// Exp returns a^n in GF(2^8), for n >= 0.
func Exp(a byte, n int) byte {
	if n == 0 {
		return 1
	}
	if a == 0 {
		return 0
	}
	e := (int(logTable[a]) * n) % 255
	if e < 0 {
		e += 255
	}
	return expTable[e]
}

// Inv returns the multiplicative inverse of a in GF(2^8). It returns
// ErrZeroInverse if a is zero.
func Inv(a byte) (byte, error) {
	if a == 0 {
		return 0, ErrZeroInverse
	}
	return Exp(a, 254), nil
}

// MulTable returns the 256-entry multiplication table T_c such that
// T_c[x] = c*x, used by block kernels to translate a byte stream
// through multiplication by the field constant c without repeating
// log/antilog lookups per byte.
func MulTable(c byte) *[256]byte {
	var t [256]byte
	if c != 0 {
		logC := int(logTable[c])
		for x := 1; x < 256; x++ {
			t[x] = expTable[logC+int(logTable[byte(x)])]
		}
	}
	return &t
}
