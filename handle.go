package logging

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// Handle is a named logger: a label list and a threshold in front of a
// router. Children share the router, the threshold and the construction
// state of their root.
type Handle struct {
	name   string
	level  Level
	router *Router
	labels atomic.Pointer[[]string]
	fields map[string]any
	now    func() time.Time
	state  *handleState
}

// handleState tracks the asynchronous part of construction for a root
// handle and everything derived from it.
type handleState struct {
	ready chan struct{}

	mu          sync.Mutex
	diagnostics []error
}

func newHandleState() *handleState {
	return &handleState{ready: make(chan struct{})}
}

func newHandle(name string, level Level, router *Router, labels []string, now func() time.Time) *Handle {
	if now == nil {
		now = time.Now
	}
	h := &Handle{
		name:   name,
		level:  level,
		router: router,
		now:    now,
		state:  newHandleState(),
	}
	set := cloneLabels(labels, 0)
	h.labels.Store(&set)
	return h
}

// Nop returns a handle that discards everything.
func Nop() *Handle {
	h := newHandle(emptyString, LevelSilent, NewRouter(), nil, nil)
	close(h.state.ready)
	return h
}

// Name returns the registry name of the handle.
func (h *Handle) Name() string {
	if h == nil {
		return emptyString
	}
	return h.name
}

// Level returns the threshold applied before any sink.
func (h *Handle) Level() Level {
	if h == nil {
		return LevelSilent
	}
	return h.level
}

// Router exposes the sink set of the handle.
func (h *Handle) Router() *Router {
	if h == nil {
		return nil
	}
	return h.router
}

// Labels returns a copy of the current labels, outermost first.
func (h *Handle) Labels() []string {
	if h == nil {
		return nil
	}
	set := h.labels.Load()
	if set == nil {
		return nil
	}
	return cloneLabels(*set, 0)
}

// AddLabel appends label to this handle only. Children created earlier and
// the parent keep their labels.
func (h *Handle) AddLabel(label string) {
	if h == nil {
		return
	}
	for {
		old := h.labels.Load()
		var set []string
		if old != nil {
			set = cloneLabels(*old, 1)
		}
		set = append(set, label)
		if h.labels.CompareAndSwap(old, &set) {
			return
		}
	}
}

// Child returns a handle labelled with the labels of h followed by labels.
func (h *Handle) Child(labels ...string) *Handle {
	if h == nil {
		return nil
	}
	current := h.Labels()
	set := cloneLabels(current, len(labels))
	set = append(set, labels...)
	return h.derive(set, h.fields)
}

func (h *Handle) derive(labels []string, fields map[string]any) *Handle {
	c := &Handle{
		name:   h.name,
		level:  h.level,
		router: h.router,
		fields: fields,
		now:    h.now,
		state:  h.state,
	}
	c.labels.Store(&labels)
	return c
}

// Ready is closed once every sink has been constructed and the construction
// diagnostics have been written.
func (h *Handle) Ready() <-chan struct{} {
	return h.state.ready
}

// WaitReady blocks until Ready is closed or ctx is done.
func (h *Handle) WaitReady(ctx context.Context) error {
	select {
	case <-h.state.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Diagnostics returns the problems met while the handle was constructed:
// invalid configuration and dropped sinks. It is complete once Ready is closed.
func (h *Handle) Diagnostics() []error {
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	out := make([]error, len(h.state.diagnostics))
	copy(out, h.state.diagnostics)
	return out
}

func (h *Handle) ErrorWith() LogEvent   { return h.Log(LevelError) }
func (h *Handle) WarnWith() LogEvent    { return h.Log(LevelWarn) }
func (h *Handle) InfoWith() LogEvent    { return h.Log(LevelInfo) }
func (h *Handle) HTTPWith() LogEvent    { return h.Log(LevelHTTP) }
func (h *Handle) VerboseWith() LogEvent { return h.Log(LevelVerbose) }
func (h *Handle) DebugWith() LogEvent   { return h.Log(LevelDebug) }
func (h *Handle) SillyWith() LogEvent   { return h.Log(LevelSilly) }

// Log returns an event at level, or a no-op event when neither the handle
// nor any of its sinks accepts the level.
func (h *Handle) Log(level Level) LogEvent {
	if h == nil || h.router == nil {
		return newLogEvent(nil, nil)
	}
	if !level.Enabled(h.level) || !h.router.Enabled(level) {
		return newLogEvent(nil, nil)
	}
	rec := &Record{
		Level:  level,
		Labels: h.Labels(),
		Fields: cloneFields(h.fields, 4),
	}
	return newLogEvent(h, rec)
}

// With starts a derived logger that carries extra fields on every record.
func (h *Handle) With() LogContext {
	if h == nil || h.router == nil {
		return &noopLogContext{}
	}
	return &logContext{handle: h, fields: cloneFields(h.fields, 4)}
}

// emit timestamps and routes a finished record. Sink failures stay inside
// the logging path.
func (h *Handle) emit(rec *Record) {
	rec.Time = h.now()
	rec.finalize()
	_ = h.router.Route(rec)
}

// flush writes the queued construction diagnostics through the handle and
// marks it ready. It runs once per root handle.
func (h *Handle) flush(diags []diagnostic) {
	for _, d := range diags {
		d.write(h)
	}
	h.state.mu.Lock()
	for _, d := range diags {
		h.state.diagnostics = append(h.state.diagnostics, d.err)
	}
	h.state.mu.Unlock()
	close(h.state.ready)
}
