// option.go defines functional options for configuring the threaded engine.

package processor

import (
	"time"
)

type config struct {
	Name           string
	BusyBackoff    time.Duration
	PropagateFatal bool
	ErrorQueue     uint
}

type Option interface {
	apply(*config)
}

type Options []Option

func (s Options) apply(cfg *config) {
	for _, opt := range s {
		opt.apply(cfg)
	}
}

func (s Options) config() config {
	cfg := config{
		ErrorQueue: 2,
	}
	s.apply(&cfg)
	return cfg
}

// OptionName sets the prefix used to label the engine and its loops
// in the logs.
type OptionName string

func (opt OptionName) apply(cfg *config) {
	cfg.Name = string(opt)
}

// OptionBusyBackoff sets the delay before retrying after a busy result;
// zero (the default) retries immediately.
type OptionBusyBackoff time.Duration

func (opt OptionBusyBackoff) apply(cfg *config) {
	cfg.BusyBackoff = time.Duration(opt)
}

// OptionPropagateFatal makes a fatal failure of either loop stop the other
// loop too. By default the loops fail independently: a failed input loop
// does not stop the output loop from draining what the transform already
// has, and vice versa.
type OptionPropagateFatal bool

func (opt OptionPropagateFatal) apply(cfg *config) {
	cfg.PropagateFatal = bool(opt)
}

// OptionErrorQueueSize sets the capacity of the channel returned by
// ErrorChan.
type OptionErrorQueueSize uint

func (opt OptionErrorQueueSize) apply(cfg *config) {
	cfg.ErrorQueue = uint(opt)
}
