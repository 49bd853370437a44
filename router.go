package logging

import (
	stderrs "errors"

	"go.uber.org/atomic"
)

// Router fans records out to its sinks. The sink set can grow while records
// are being routed.
type Router struct {
	sinks atomic.Pointer[[]Sink]
}

// NewRouter returns a router over sinks. Nil sinks are ignored.
func NewRouter(sinks ...Sink) *Router {
	r := &Router{}
	set := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			set = append(set, s)
		}
	}
	r.sinks.Store(&set)
	return r
}

// Add appends a sink to the set.
func (r *Router) Add(s Sink) {
	if r == nil || s == nil {
		return
	}
	for {
		old := r.sinks.Load()
		var set []Sink
		if old != nil {
			set = make([]Sink, 0, len(*old)+1)
			set = append(set, *old...)
		}
		set = append(set, s)
		if r.sinks.CompareAndSwap(old, &set) {
			return
		}
	}
}

// Sinks returns a snapshot of the active sinks.
func (r *Router) Sinks() []Sink {
	if r == nil {
		return nil
	}
	set := r.sinks.Load()
	if set == nil {
		return nil
	}
	out := make([]Sink, len(*set))
	copy(out, *set)
	return out
}

// Enabled reports whether any sink accepts records at level.
func (r *Router) Enabled(level Level) bool {
	if r == nil {
		return false
	}
	set := r.sinks.Load()
	if set == nil {
		return false
	}
	for _, s := range *set {
		if level.Enabled(s.Level()) {
			return true
		}
	}
	return false
}

// Route delivers rec to every sink accepting its level.
func (r *Router) Route(rec *Record) error {
	if r == nil {
		return nil
	}
	set := r.sinks.Load()
	if set == nil {
		return nil
	}
	return Route(rec, *set)
}

// Close closes every sink and empties the set.
func (r *Router) Close() error {
	if r == nil {
		return nil
	}
	empty := make([]Sink, 0)
	set := r.sinks.Swap(&empty)
	if set == nil {
		return nil
	}
	var errs []error
	for _, s := range *set {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrs.Join(errs...)
}

// Route delivers rec to each sink whose level is at or below the record's
// severity: a record at level L reaches a sink at level M iff L <= M.
// Sink failures are joined; delivery to the remaining sinks continues.
func Route(rec *Record, sinks []Sink) error {
	if rec == nil {
		return nil
	}
	var errs []error
	for _, s := range sinks {
		if s == nil || !rec.Level.Enabled(s.Level()) {
			continue
		}
		if err := s.Write(rec); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrs.Join(errs...)
}
