package wordstore

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Observer receives storage events from an instrumented allocator.
// Implementations must be safe for concurrent use.
type Observer interface {
	// Grew reports a successful growth from one capacity to another.
	Grew(from, to int)
	// Failed reports a request that could not be served.
	Failed(requested int, err error)
	// Released reports storage handed back by its owner.
	Released(words int)
}

type instrumented struct {
	next Allocator
	obs  Observer
}

// Instrument wraps a so that every growth, failure, and release is
// reported to obs.
func Instrument(a Allocator, obs Observer) Allocator {
	return &instrumented{next: a, obs: obs}
}

func (i *instrumented) Grow(old []Word, n int) ([]Word, error) {
	words, err := i.next.Grow(old, n)
	if err != nil {
		i.obs.Failed(n, err)
		return old, err
	}
	if len(words) != len(old) {
		i.obs.Grew(len(old), len(words))
	}
	return words, nil
}

func (i *instrumented) Release(words []Word) {
	if len(words) > 0 {
		i.obs.Released(len(words))
	}
	i.next.Release(words)
}

// Multi fans events out to several observers.
func Multi(observers ...Observer) Observer {
	return multiObserver(observers)
}

type multiObserver []Observer

func (m multiObserver) Grew(from, to int) {
	for _, o := range m {
		o.Grew(from, to)
	}
}

func (m multiObserver) Failed(requested int, err error) {
	for _, o := range m {
		o.Failed(requested, err)
	}
}

func (m multiObserver) Released(words int) {
	for _, o := range m {
		o.Released(words)
	}
}

// Stats counts storage events with atomic counters.
type Stats struct {
	Grows         atomic.Int64
	GrownWords    atomic.Int64
	Failures      atomic.Int64
	ReleasedWords atomic.Int64
}

// Grew implements Observer.
func (s *Stats) Grew(from, to int) {
	s.Grows.Add(1)
	s.GrownWords.Add(int64(to - from))
}

// Failed implements Observer.
func (s *Stats) Failed(int, error) { s.Failures.Add(1) }

// Released implements Observer.
func (s *Stats) Released(words int) { s.ReleasedWords.Add(int64(words)) }

// LogObserver writes storage events to a zerolog logger: growth and
// release at debug level, failures at warn level.
type LogObserver struct {
	logger zerolog.Logger
}

// NewLogObserver creates a LogObserver tagged with component=wordstore.
func NewLogObserver(logger zerolog.Logger) *LogObserver {
	return &LogObserver{logger: logger.With().Str("component", "wordstore").Logger()}
}

// Grew implements Observer.
func (l *LogObserver) Grew(from, to int) {
	l.logger.Debug().Int("from_words", from).Int("to_words", to).Msg("storage grown")
}

// Failed implements Observer.
func (l *LogObserver) Failed(requested int, err error) {
	l.logger.Warn().Err(err).Int("requested_words", requested).Msg("storage growth failed")
}

// Released implements Observer.
func (l *LogObserver) Released(words int) {
	l.logger.Debug().Int("words", words).Msg("storage released")
}
