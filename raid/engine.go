// Package raid implements the core erasure-coding engine: parity
// generation and recovery over GF(2^8) for up to 251 data blocks and
// six parity blocks, using either a Cauchy or a Vandermonde code
// matrix. See galois for the field arithmetic and matrix for the code
// matrix builders and inverter this package drives.
package raid

import (
	"sync"

	"lukechampine.com/raid/galois/kernel"
	"lukechampine.com/raid/matrix"
)

// Engine holds everything a running code needs — active mode, built
// matrix and cached decode tables, zero/waste buffer bindings, and
// kernel dispatch — as an explicit handle rather than package globals,
// so a process can run more than one (nd,np) configuration at once.
type Engine struct {
	nd, np int
	mode   Mode
	m      matrix.Matrix

	zero  []byte
	waste []byte

	dispatch *kernel.Dispatcher
	logger   logger

	mu    sync.Mutex
	cache *decodeCache
}

// logger is the minimal surface Engine needs from gitlab.com/NebulousLabs/log's
// *log.Logger, satisfied by either a real logger or the no-op used when
// WithLogger is not supplied.
type logger interface {
	Printf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}

// NewEngine builds the parity matrix for nd data blocks and np parity
// blocks, and returns a ready-to-use Engine scoped to that (nd,np)
// pair. Multiplication tables are not precomputed or cached: the block
// kernels build the table for their constant on every call.
func NewEngine(nd, np int, opts ...Option) (*Engine, error) {
	if np < 1 || np > matrix.ParityMax {
		return nil, ErrParityRange
	}
	if nd < 1 || nd > matrix.DataMax {
		return nil, ErrDataRange
	}

	o := defaultOptions
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{
		nd:       nd,
		np:       np,
		dispatch: o.dispatch,
		cache:    newDecodeCache(32),
	}
	if e.dispatch == nil {
		e.dispatch = kernel.NewDispatcher()
	}
	if o.logger != nil {
		e.logger = o.logger
	} else {
		e.logger = nopLogger{}
	}

	if err := e.setMode(o.mode); err != nil {
		return nil, err
	}
	e.logger.Printf("raid: engine initialized nd=%d np=%d mode=%s accel=%v", nd, np, e.mode, e.dispatch.HasAccel())
	return e, nil
}

// DataShards returns the number of data blocks this Engine was built
// for.
func (e *Engine) DataShards() int { return e.nd }

// ParityShards returns the number of parity blocks this Engine was
// built for.
func (e *Engine) ParityShards() int { return e.np }

// Mode returns the active code family.
func (e *Engine) Mode() Mode { return e.mode }

// SetMode switches the active code family, rebuilding the parity
// matrix and invalidating the cached decode matrices. Takes effect on
// the next call to Gen, Rec, or RecDataOnly.
func (e *Engine) SetMode(m Mode) error {
	return e.setMode(m)
}

func (e *Engine) setMode(m Mode) error {
	var built matrix.Matrix
	var err error
	switch m {
	case ModeCauchy:
		built, err = matrix.BuildCauchy(e.nd, e.np)
	case ModeVandermonde:
		built, err = matrix.BuildVandermonde(e.nd, e.np)
	default:
		return ErrParityRange
	}
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.mode = m
	e.m = built
	e.cache.reset()
	e.mu.Unlock()
	return nil
}

// SetZero binds the zero buffer. Rec and RecDataOnly return
// ErrNoZeroBuffer when asked to recover a failed data block while none
// is bound; their syndrome computation skips failed data blocks rather
// than reading this buffer. The supplied buffer is never written by
// Engine.
func (e *Engine) SetZero(zero []byte) {
	e.zero = zero
}

// SetWaste binds the auxiliary buffer RecDataOnly uses to redirect
// intermediate parity-slot writes so stored parity blocks are left
// untouched. Pass nil to unbind it.
func (e *Engine) SetWaste(waste []byte) {
	e.waste = waste
}

func validateSize(size int) error {
	if size <= 0 || size%64 != 0 {
		return ErrBlockSize
	}
	return nil
}

func (e *Engine) validateVector(size int, v [][]byte) error {
	if err := validateSize(size); err != nil {
		return err
	}
	if len(v) < e.nd+e.np {
		return ErrShortVector
	}
	for i := 0; i < e.nd+e.np; i++ {
		if len(v[i]) < size {
			return ErrShortBlock
		}
	}
	return nil
}
