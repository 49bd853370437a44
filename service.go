package logging

import (
	stderrs "errors"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// Registry owns the named loggers of a process. Asking twice for the same
// name returns the same handle; the configuration of the second call is
// ignored.
type Registry struct {
	mu      sync.Mutex
	loggers map[string]*Handle

	env     Environment
	envSet  bool
	envErr  error
	console io.Writer
	color   *bool
	now     func() time.Time

	closed  atomic.Bool
	pending sync.WaitGroup
}

// Option configures a Registry.
type Option func(*Registry)

// WithConsole sets the console destination. Defaults to os.Stdout.
func WithConsole(w io.Writer) Option {
	return func(r *Registry) {
		if w != nil {
			r.console = w
		}
	}
}

// WithColor forces colour on or off instead of detecting a terminal.
func WithColor(enabled bool) Option {
	return func(r *Registry) {
		r.color = &enabled
	}
}

// WithEnvironment replaces the environment read from CONFIG_DIR and LOG_LEVEL.
func WithEnvironment(e Environment) Option {
	return func(r *Registry) {
		r.env = e
		r.envSet = true
	}
}

// WithClock sets the time source used for timestamps and file rotation.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		loggers: make(map[string]*Handle),
		console: os.Stdout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if !r.envSet {
		r.env, r.envErr = LoadEnvironment()
	}
	if r.env.WorkingDir == emptyString {
		r.env.WorkingDir = workingDir()
	}
	return r
}

// Logger returns the handle registered under name, building it from cfg on
// first use. A nil cfg means defaults.
//
// The console sink is available immediately. The file sink is built in the
// background and joins the handle once its directory has been verified;
// Ready reports when that has happened. Problems found on the way never
// fail the call: they are written through the handle once it is complete.
func (r *Registry) Logger(name string, cfg *Config) *Handle {
	if name == emptyString {
		name = DefaultName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed.Load() {
		return Nop()
	}
	if h, ok := r.loggers[name]; ok {
		return h
	}

	var c Config
	if cfg != nil {
		c = *cfg
	}
	settings, err := c.Resolve(r.env)

	var diags []diagnostic
	if r.envErr != nil {
		diags = append(diags, diagnostic{level: LevelError, err: r.envErr})
	}
	diags = append(diags, splitDiagnostics(LevelError, err)...)

	console := newConsoleSink(r.console, settings.Console, r.color, r.env.WorkingDir)
	router := NewRouter(console)
	h := newHandle(name, settings.Level, router, []string{capitalize(name)}, r.now)
	r.loggers[name] = h

	if !settings.FileEnabled || settings.File == LevelSilent {
		h.flush(diags)
		return h
	}

	r.pending.Add(1)
	go func() {
		defer r.pending.Done()
		sink, err := openFileSink(settings, r.env.WorkingDir, r.now)
		if err != nil {
			diags = append(diags, diagnostic{
				level: LevelWarn,
				msg:   errMsgFileSinkDropped,
				cause: underlyingCause(err),
				err:   err,
			})
		} else {
			router.Add(sink)
		}
		h.flush(diags)
	}()
	return h
}

// Lookup returns the handle registered under name, if any.
func (r *Registry) Lookup(name string) (*Handle, bool) {
	if name == emptyString {
		name = DefaultName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.loggers[name]
	return h, ok
}

// Close waits for sinks still being built, then closes every sink. Loggers
// requested afterwards discard their records. It is safe to call Close
// multiple times.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed.Swap(true) {
		r.mu.Unlock()
		return nil
	}
	handles := make([]*Handle, 0, len(r.loggers))
	for _, h := range r.loggers {
		handles = append(handles, h)
	}
	r.mu.Unlock()

	r.pending.Wait()

	var errs []error
	for _, h := range handles {
		if err := h.router.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrs.Join(errs...)
}

// diagnostic is a construction problem waiting to be written through the
// handle it concerns.
type diagnostic struct {
	level Level
	msg   string
	cause error
	err   error
}

func (d diagnostic) write(h *Handle) {
	ev := h.Log(d.level)
	if d.msg == emptyString {
		ev.Err(d.err).Send()
		return
	}
	if d.cause != nil {
		ev = ev.Str(causeFieldName, d.cause.Error())
	}
	ev.Msg(d.msg)
}

// splitDiagnostics turns each error joined into err into its own diagnostic.
func splitDiagnostics(level Level, err error) []diagnostic {
	if err == nil {
		return nil
	}
	var errs []error
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		errs = multi.Unwrap()
	} else {
		errs = []error{err}
	}
	out := make([]diagnostic, 0, len(errs))
	for _, e := range errs {
		if e != nil {
			out = append(out, diagnostic{level: level, err: e})
		}
	}
	return out
}

// underlyingCause returns the first error in the chain of err that is not a
// Station-Manager DetailedError: the failure the library messages describe.
func underlyingCause(err error) error {
	for i := 0; err != nil && i < maxChainDepth; i++ {
		_, cause, ok := ownDetailedError(err)
		if !ok || cause == nil {
			break
		}
		err = cause
	}
	return err
}
