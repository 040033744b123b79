package trace

import "errors"

// MultiTracer fans events out to several tracers.
type MultiTracer struct {
	tracers []Tracer
	level   Level
}

// NewMultiTracer creates a tracer forwarding to every tracer in ts.
func NewMultiTracer(level Level, ts ...Tracer) *MultiTracer {
	return &MultiTracer{tracers: ts, level: level}
}

func (m *MultiTracer) Emit(ev *Event) {
	for _, t := range m.tracers {
		t.Emit(ev)
	}
}

func (m *MultiTracer) Flush() error {
	var errs []error
	for _, t := range m.tracers {
		if err := t.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiTracer) Close() error {
	var errs []error
	for _, t := range m.tracers {
		if err := t.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiTracer) Level() Level  { return m.level }
func (m *MultiTracer) Enabled() bool { return m.level > LevelOff }

// Ring returns the first RingTracer among the fanned-out tracers, if any.
func (m *MultiTracer) Ring() *RingTracer {
	for _, t := range m.tracers {
		if r, ok := t.(*RingTracer); ok {
			return r
		}
	}
	return nil
}
