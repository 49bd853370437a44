package logging

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

var testTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func fixedClock() time.Time { return testTime }

// stepClock is a settable clock for rotation tests.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Add(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// syncBuffer is a bytes.Buffer safe for the background sink goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Lines() []string {
	s := strings.TrimRight(b.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// recordingSink keeps every record it accepts.
type recordingSink struct {
	mu    sync.Mutex
	kind  SinkKind
	level Level
	recs  []*Record
	fail  error
}

func (s *recordingSink) Kind() SinkKind { return s.kind }
func (s *recordingSink) Level() Level   { return s.level }
func (s *recordingSink) Close() error   { return s.fail }

func (s *recordingSink) Write(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	return s.fail
}

func (s *recordingSink) Levels() []Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Level, 0, len(s.recs))
	for _, r := range s.recs {
		out = append(out, r.Level)
	}
	return out
}

// newTestHandle returns a ready handle writing plain lines to a buffer.
func newTestHandle(t testing.TB, level Level) (*Handle, *syncBuffer) {
	t.Helper()
	buf := &syncBuffer{}
	sink := newTextSink(SinkWriter, buf, level, lineFormat{cwd: "/work"}, nil)
	h := newHandle("app", level, NewRouter(sink), []string{"App"}, fixedClock)
	close(h.state.ready)
	return h, buf
}

// stackErr is an error carrying its own stack and cause.
type stackErr struct {
	msg   string
	stack string
	cause error
}

func (e *stackErr) Error() string { return e.msg }
func (e *stackErr) Stack() string { return e.stack }
func (e *stackErr) Cause() error  { return e.cause }

// panicErr fails while being inspected.
type panicErr struct{}

func (panicErr) Error() string { panic("boom") }

var errPlain = errors.New("plain failure")
