package logging

import (
	"encoding/hex"
	"fmt"
	"net"
	"time"
)

// LogContext provides a fluent interface for building a context logger with pre-populated fields.
// Fields added through LogContext will be included in all subsequent log messages.
type LogContext interface {
	Str(key, val string) LogContext
	Strs(key string, vals []string) LogContext
	Int(key string, val int) LogContext
	Int64(key string, val int64) LogContext
	Uint(key string, val uint) LogContext
	Uint64(key string, val uint64) LogContext
	Float64(key string, val float64) LogContext
	Bool(key string, val bool) LogContext
	Time(key string, val time.Time) LogContext
	Err(err error) LogContext
	Interface(key string, val interface{}) LogContext
	// Labels appends labels to the derived logger.
	Labels(labels ...string) LogContext
	// Logger creates and returns the new context logger
	Logger() Logger
}

// LogEvent provides a fluent interface for structured logging with type-safe field methods.
// An event is a no-op when its level was disabled at creation.
type LogEvent interface {
	Str(key, val string) LogEvent
	Strs(key string, vals []string) LogEvent
	Stringer(key string, val interface{ String() string }) LogEvent
	Int(key string, val int) LogEvent
	Int8(key string, val int8) LogEvent
	Int16(key string, val int16) LogEvent
	Int32(key string, val int32) LogEvent
	Int64(key string, val int64) LogEvent
	Uint(key string, val uint) LogEvent
	Uint8(key string, val uint8) LogEvent
	Uint16(key string, val uint16) LogEvent
	Uint32(key string, val uint32) LogEvent
	Uint64(key string, val uint64) LogEvent
	Float32(key string, val float32) LogEvent
	Float64(key string, val float64) LogEvent
	Bool(key string, val bool) LogEvent
	Bools(key string, vals []bool) LogEvent
	Time(key string, val time.Time) LogEvent
	Dur(key string, val time.Duration) LogEvent
	// Err attaches err as the record error. Its causal chain is printed
	// below the line.
	Err(err error) LogEvent
	AnErr(key string, err error) LogEvent
	Bytes(key string, val []byte) LogEvent
	Hex(key string, val []byte) LogEvent
	IPAddr(key string, val net.IP) LogEvent
	MACAddr(key string, val net.HardwareAddr) LogEvent
	Interface(key string, val interface{}) LogEvent
	Dict(key string, dict func(LogEvent)) LogEvent
	Fields(fields map[string]any) LogEvent
	// Leaf names the innermost subsystem; it is rendered after the labels
	// unless it is already the last one.
	Leaf(name string) LogEvent
	Msg(msg string)
	Msgf(format string, v ...interface{})
	Send()
}

// logEvent builds a Record for its handle. A nil record makes every method a no-op.
type logEvent struct {
	handle *Handle
	rec    *Record
}

func newLogEvent(h *Handle, rec *Record) *logEvent {
	if h == nil || rec == nil {
		return &logEvent{}
	}
	if rec.Fields == nil {
		rec.Fields = make(map[string]any)
	}
	return &logEvent{handle: h, rec: rec}
}

func (e *logEvent) set(key string, val any) LogEvent {
	if e.rec != nil {
		e.rec.Fields[key] = val
	}
	return e
}

func (e *logEvent) Str(key, val string) LogEvent                   { return e.set(key, val) }
func (e *logEvent) Strs(key string, vals []string) LogEvent        { return e.set(key, vals) }
func (e *logEvent) Int(key string, val int) LogEvent               { return e.set(key, val) }
func (e *logEvent) Int8(key string, val int8) LogEvent             { return e.set(key, val) }
func (e *logEvent) Int16(key string, val int16) LogEvent           { return e.set(key, val) }
func (e *logEvent) Int32(key string, val int32) LogEvent           { return e.set(key, val) }
func (e *logEvent) Int64(key string, val int64) LogEvent           { return e.set(key, val) }
func (e *logEvent) Uint(key string, val uint) LogEvent             { return e.set(key, val) }
func (e *logEvent) Uint8(key string, val uint8) LogEvent           { return e.set(key, val) }
func (e *logEvent) Uint16(key string, val uint16) LogEvent         { return e.set(key, val) }
func (e *logEvent) Uint32(key string, val uint32) LogEvent         { return e.set(key, val) }
func (e *logEvent) Uint64(key string, val uint64) LogEvent         { return e.set(key, val) }
func (e *logEvent) Float32(key string, val float32) LogEvent       { return e.set(key, val) }
func (e *logEvent) Float64(key string, val float64) LogEvent       { return e.set(key, val) }
func (e *logEvent) Bool(key string, val bool) LogEvent             { return e.set(key, val) }
func (e *logEvent) Bools(key string, vals []bool) LogEvent         { return e.set(key, vals) }
func (e *logEvent) Time(key string, val time.Time) LogEvent        { return e.set(key, val) }
func (e *logEvent) Dur(key string, val time.Duration) LogEvent     { return e.set(key, val) }
func (e *logEvent) Interface(key string, val interface{}) LogEvent { return e.set(key, val) }

func (e *logEvent) Stringer(key string, val interface{ String() string }) LogEvent {
	if val == nil {
		return e.set(key, nil)
	}
	return e.set(key, val.String())
}

func (e *logEvent) Bytes(key string, val []byte) LogEvent {
	return e.set(key, string(val))
}

func (e *logEvent) Hex(key string, val []byte) LogEvent {
	return e.set(key, hex.EncodeToString(val))
}

func (e *logEvent) IPAddr(key string, val net.IP) LogEvent {
	return e.set(key, val.String())
}

func (e *logEvent) MACAddr(key string, val net.HardwareAddr) LogEvent {
	return e.set(key, val.String())
}

func (e *logEvent) Err(err error) LogEvent {
	if e.rec == nil || err == nil {
		return e
	}
	if ne, ok := Normalize(err); ok {
		e.rec.Err = ne
		return e
	}
	return e.set(errorFieldName, err.Error())
}

// AnErr records a secondary error as its printable chain.
func (e *logEvent) AnErr(key string, err error) LogEvent {
	if e.rec == nil || err == nil {
		return e
	}
	return e.set(key, PrintableStack(NormalizeError(err)))
}

// Dict for nested objects
func (e *logEvent) Dict(key string, dict func(LogEvent)) LogEvent {
	if e.rec == nil || dict == nil {
		return e
	}
	fields := make(map[string]any)
	dict(newLogEvent(e.handle, &Record{Fields: fields}))
	return e.set(key, fields)
}

func (e *logEvent) Fields(fields map[string]any) LogEvent {
	if e.rec == nil {
		return e
	}
	for k, v := range fields {
		e.rec.Fields[k] = v
	}
	return e
}

func (e *logEvent) Leaf(name string) LogEvent {
	if e.rec != nil {
		e.rec.Leaf = name
	}
	return e
}

func (e *logEvent) Msg(msg string) {
	if e.rec == nil {
		return
	}
	e.rec.Message = msg
	e.handle.emit(e.rec)
	e.rec = nil
}

func (e *logEvent) Msgf(format string, v ...interface{}) {
	if e.rec == nil {
		return
	}
	e.Msg(fmt.Sprintf(format, v...))
}

func (e *logEvent) Send() {
	if e.rec == nil {
		return
	}
	e.Msg(e.rec.Message)
}

// logContext collects fields for a derived handle.
type logContext struct {
	handle *Handle
	fields map[string]any
	labels []string
}

func (c *logContext) put(key string, val any) LogContext {
	c.fields[key] = val
	return c
}

func (c *logContext) Str(key, val string) LogContext                   { return c.put(key, val) }
func (c *logContext) Strs(key string, vals []string) LogContext        { return c.put(key, vals) }
func (c *logContext) Int(key string, val int) LogContext               { return c.put(key, val) }
func (c *logContext) Int64(key string, val int64) LogContext           { return c.put(key, val) }
func (c *logContext) Uint(key string, val uint) LogContext             { return c.put(key, val) }
func (c *logContext) Uint64(key string, val uint64) LogContext         { return c.put(key, val) }
func (c *logContext) Float64(key string, val float64) LogContext       { return c.put(key, val) }
func (c *logContext) Bool(key string, val bool) LogContext             { return c.put(key, val) }
func (c *logContext) Time(key string, val time.Time) LogContext        { return c.put(key, val) }
func (c *logContext) Interface(key string, val interface{}) LogContext { return c.put(key, val) }

func (c *logContext) Err(err error) LogContext {
	if err == nil {
		return c
	}
	return c.put(errorFieldName, err.Error())
}

func (c *logContext) Labels(labels ...string) LogContext {
	c.labels = append(c.labels, labels...)
	return c
}

func (c *logContext) Logger() Logger {
	set := c.handle.Labels()
	set = append(set, c.labels...)
	return c.handle.derive(set, cloneFields(c.fields, 0))
}

// noopLogContext is a no-op implementation of LogContext
type noopLogContext struct{}

func (n *noopLogContext) Str(key, val string) LogContext                   { return n }
func (n *noopLogContext) Strs(key string, vals []string) LogContext        { return n }
func (n *noopLogContext) Int(key string, val int) LogContext               { return n }
func (n *noopLogContext) Int64(key string, val int64) LogContext           { return n }
func (n *noopLogContext) Uint(key string, val uint) LogContext             { return n }
func (n *noopLogContext) Uint64(key string, val uint64) LogContext         { return n }
func (n *noopLogContext) Float64(key string, val float64) LogContext       { return n }
func (n *noopLogContext) Bool(key string, val bool) LogContext             { return n }
func (n *noopLogContext) Time(key string, val time.Time) LogContext        { return n }
func (n *noopLogContext) Err(err error) LogContext                         { return n }
func (n *noopLogContext) Interface(key string, val interface{}) LogContext { return n }
func (n *noopLogContext) Labels(labels ...string) LogContext               { return n }
func (n *noopLogContext) Logger() Logger                                   { return Nop() }
