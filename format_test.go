package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestTextSink_LineFormat(t *testing.T) {
	var buf bytes.Buffer
	sink := newTextSink(SinkWriter, &buf, LevelSilly, lineFormat{cwd: "/work"}, nil)

	require.NoError(t, sink.Write(&Record{
		Time:    testTime,
		Level:   LevelWarn,
		Message: "hello",
		Labels:  []string{"App"},
		Fields:  map[string]any{"port": 8080},
	}))

	assert.Equal(t, "2026-01-02T03:04:05Z warn    : [App] hello {\"port\":8080}\n", buf.String())
}

func TestTextSink_LeafNotDuplicated(t *testing.T) {
	var buf bytes.Buffer
	sink := newTextSink(SinkWriter, &buf, LevelSilly, lineFormat{}, nil)

	require.NoError(t, sink.Write(&Record{
		Time:    testTime,
		Level:   LevelInfo,
		Message: "working",
		Labels:  []string{"App", "Worker"},
		Leaf:    "Worker",
	}))

	assert.Equal(t, "2026-01-02T03:04:05Z info    : [App] [Worker] working\n", buf.String())
}

func TestTextSink_StackBelowLine(t *testing.T) {
	var buf bytes.Buffer
	sink := newTextSink(SinkWriter, &buf, LevelSilly, lineFormat{cwd: "/work"}, nil)

	ne, ok := Normalize(&stackErr{msg: "boom", stack: "StackErr: boom\n    at handler (/work/h.go:3)"})
	require.True(t, ok)
	rec := &Record{Time: testTime, Level: LevelError, Message: "request failed", Labels: []string{"App"}, Err: ne}
	rec.finalize()

	require.NoError(t, sink.Write(rec))
	assert.Equal(t,
		"2026-01-02T03:04:05Z error   : [App] request failed\nStackErr: boom\n    at handler (CWD/h.go:3)\n",
		buf.String(),
	)
}

func TestTextSink_Color(t *testing.T) {
	var buf bytes.Buffer
	sink := newTextSink(SinkConsole, &buf, LevelSilly, lineFormat{color: true}, nil)

	require.NoError(t, sink.Write(&Record{Time: testTime, Level: LevelWarn, Message: "hot", Labels: []string{"App"}}))

	assert.Contains(t, buf.String(), "\x1b[33mwarn    \x1b[0m:")
	assert.Contains(t, buf.String(), "\x1b[90m[App]\x1b[0m hot")
}

func TestJSONSink(t *testing.T) {
	var buf bytes.Buffer
	sink := newJSONSink(SinkFile, &buf, LevelInfo, "/work", nil)

	require.NoError(t, sink.Write(&Record{
		Time:    testTime,
		Level:   LevelError,
		Message: "request failed",
		Labels:  []string{"App", "Worker"},
		Leaf:    "Job",
		Fields:  map[string]any{"attempt": 3},
		Stack:   "StackErr: boom\n    at handler (/work/h.go:3)",
	}))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "request failed", entry["message"])
	assert.Equal(t, "2026-01-02T03:04:05Z", entry["time"])
	assert.Equal(t, []any{"App", "Worker"}, entry["labels"])
	assert.Equal(t, "Job", entry["leaf"])
	assert.Equal(t, float64(3), entry["attempt"])
	assert.Equal(t, "StackErr: boom\n    at handler (CWD/h.go:3)", entry["stack"])
}

func TestJSONSink_ReservedFieldsMoved(t *testing.T) {
	var buf bytes.Buffer
	sink := newJSONSink(SinkFile, &buf, LevelInfo, "/work", nil)

	fields := map[string]any{"level": "error", "message": "spoofed", "attempt": 3}
	require.NoError(t, sink.Write(&Record{
		Time:    testTime,
		Level:   LevelInfo,
		Message: "request handled",
		Fields:  fields,
	}))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "request handled", entry["message"])
	assert.Equal(t, "error", entry["fields.level"])
	assert.Equal(t, "spoofed", entry["fields.message"])
	assert.Equal(t, float64(3), entry["attempt"])
	assert.Equal(t, map[string]any{"level": "error", "message": "spoofed", "attempt": 3}, fields)
}

func TestSink_WriteErrorReported(t *testing.T) {
	sink := NewWriterSink(failingWriter{}, LevelInfo)
	err := sink.Write(&Record{Time: testTime, Level: LevelInfo, Message: "lost"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	assert.Equal(t, SinkWriter, sink.Kind())
	assert.Equal(t, LevelInfo, sink.Level())
	assert.NoError(t, sink.Close())
}
