package raid

import "github.com/pkg/errors"

// Usage-violation errors: the caller asked for something structurally
// invalid. All are returned explicitly rather than aborting the
// process.
var (
	ErrParityRange     = errors.New("raid: parity count out of range [1,6]")
	ErrDataRange       = errors.New("raid: data block count out of range [1,251]")
	ErrBlockSize       = errors.New("raid: block size must be a positive multiple of 64")
	ErrShortVector     = errors.New("raid: buffer vector too short for nd+np")
	ErrShortBlock      = errors.New("raid: a block is shorter than size")
	ErrTooManyFailures = errors.New("raid: more failures than available parity")
	ErrUnsorted        = errors.New("raid: failure indices must be strictly ascending")
	ErrIndexRange      = errors.New("raid: failure index out of range")
	ErrLengthMismatch  = errors.New("raid: id and ip must have the same length")
	ErrNoZeroBuffer    = errors.New("raid: zero buffer not bound; call SetZero before recovering data failures")
)
