package logging

import (
	"io"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// SinkKind identifies the destination of a sink.
type SinkKind string

const (
	SinkConsole SinkKind = "console"
	SinkFile    SinkKind = "file"
	SinkWriter  SinkKind = "writer"
)

// Sink accepts leveled records. Level is the least severe level the sink
// accepts; it is fixed when the sink is built.
type Sink interface {
	Kind() SinkKind
	Level() Level
	Write(rec *Record) error
	Close() error
}

// zerologSink encodes records as zerolog events over its writer. Text sinks
// put a ConsoleWriter in front of the destination; JSON sinks write the
// encoded events as they are.
type zerologSink struct {
	kind   SinkKind
	level  Level
	cwd    string
	logger zerolog.Logger
	out    *trackingWriter
	closer io.Closer
}

// trackingWriter keeps the last write error so it can be reported by Write.
type trackingWriter struct {
	w       io.Writer
	lastErr atomic.Error
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err != nil {
		t.lastErr.Store(err)
	}
	return n, err
}

// NewWriterSink returns a plain text sink over w accepting records at level
// or above.
func NewWriterSink(w io.Writer, level Level) Sink {
	return newTextSink(SinkWriter, w, level, lineFormat{cwd: workingDir()}, nil)
}

// NewJSONWriterSink returns a sink that writes one JSON object per record.
func NewJSONWriterSink(w io.Writer, level Level) Sink {
	return newJSONSink(SinkWriter, w, level, workingDir(), nil)
}

func newTextSink(kind SinkKind, w io.Writer, level Level, f lineFormat, closer io.Closer) *zerologSink {
	// The line writer redacts the stack itself, below its summary line.
	return newZerologSink(kind, newLineWriter(zerolog.SyncWriter(w), f), level, emptyString, closer)
}

func newJSONSink(kind SinkKind, w io.Writer, level Level, cwd string, closer io.Closer) *zerologSink {
	return newZerologSink(kind, zerolog.SyncWriter(w), level, cwd, closer)
}

func newZerologSink(kind SinkKind, w io.Writer, level Level, cwd string, closer io.Closer) *zerologSink {
	tw := &trackingWriter{w: w}
	return &zerologSink{
		kind:   kind,
		level:  level,
		cwd:    cwd,
		logger: zerolog.New(tw),
		out:    tw,
		closer: closer,
	}
}

func (s *zerologSink) Kind() SinkKind { return s.kind }

func (s *zerologSink) Level() Level { return s.level }

func (s *zerologSink) Write(rec *Record) error {
	if rec == nil {
		return nil
	}
	ev := s.logger.Log().
		Time(zerolog.TimestampFieldName, rec.Time).
		Str(zerolog.LevelFieldName, rec.Level.String())
	if len(rec.Labels) > 0 {
		ev.Strs(labelsFieldName, rec.Labels)
	}
	if rec.Leaf != emptyString {
		ev.Str(leafFieldName, rec.Leaf)
	}
	if len(rec.Fields) > 0 {
		ev.Fields(userFields(rec.Fields))
	}
	if rec.Stack != emptyString {
		ev.Str(stackFieldName, redactPath(rec.Stack, s.cwd))
	}
	ev.Msg(rec.Message)

	if err := s.out.lastErr.Load(); err != nil {
		s.out.lastErr.Store(nil)
		return err
	}
	return nil
}

// userFields returns fields with every key that collides with a field the
// sink writes itself moved under "fields.". fields is never modified.
func userFields(fields map[string]any) map[string]any {
	clash := false
	for k := range fields {
		if isReservedField(k) {
			clash = true
			break
		}
	}
	if !clash {
		return fields
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if isReservedField(k) {
			k = userFieldPrefix + k
		}
		out[k] = v
	}
	return out
}

func isReservedField(key string) bool {
	switch key {
	case zerolog.TimestampFieldName, zerolog.LevelFieldName, zerolog.MessageFieldName,
		labelsFieldName, leafFieldName, stackFieldName:
		return true
	default:
		return false
	}
}

func (s *zerologSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
