package raid

import (
	"gitlab.com/NebulousLabs/log"

	"lukechampine.com/raid/galois/kernel"
)

// Mode selects the code family used to build the parity matrix: Cauchy
// (supports up to six parities) or Vandermonde (supports up to three,
// but is cheap on CPUs without SSSE3).
type Mode int

// The two code families an Engine can be built with.
const (
	ModeCauchy Mode = iota
	ModeVandermonde
)

func (m Mode) String() string {
	switch m {
	case ModeCauchy:
		return "cauchy"
	case ModeVandermonde:
		return "vandermonde"
	default:
		return "unknown"
	}
}

type engineOptions struct {
	mode     Mode
	logger   *log.Logger
	dispatch *kernel.Dispatcher
}

var defaultOptions = engineOptions{
	mode: ModeCauchy,
}

// Option configures an Engine at construction time.
type Option func(*engineOptions)

// WithMode sets the initial code family. Defaults to ModeCauchy.
func WithMode(m Mode) Option {
	return func(o *engineOptions) { o.mode = m }
}

// WithLogger attaches a structured logger used for the construction
// diagnostic only; it is never consulted on the Gen/Rec hot path, and
// the engines SelfTest builds internally carry no logger.
func WithLogger(l *log.Logger) Option {
	return func(o *engineOptions) { o.logger = l }
}

// WithDispatcher overrides the block-kernel dispatcher, primarily so
// tests can force the scalar path independent of the host CPU's
// detected capability.
func WithDispatcher(d *kernel.Dispatcher) Option {
	return func(o *engineOptions) { o.dispatch = d }
}
