package logging

// Logger is the structured logging surface of a Handle. Every level has a
// builder; records are only assembled when the level is enabled.
//
// Example: logger.WarnWith().Str("station", id).Msg("clock drift")
type Logger interface {
	ErrorWith() LogEvent
	WarnWith() LogEvent
	InfoWith() LogEvent
	HTTPWith() LogEvent
	VerboseWith() LogEvent
	DebugWith() LogEvent
	SillyWith() LogEvent
	Log(level Level) LogEvent

	// With creates a derived logger carrying pre-populated fields.
	// Example: reqLogger := logger.With().Str("request_id", id).Logger()
	With() LogContext

	// AddLabel appends a label in place, e.g. once a request ID is known.
	AddLabel(label string)
	Labels() []string
}

var _ Logger = (*Handle)(nil)

// CreateChild derives a logger whose labels are the parent's followed by
// labels. Loggers that are not handles are returned unchanged.
func CreateChild(parent Logger, labels ...string) Logger {
	h, ok := parent.(*Handle)
	if !ok || h == nil {
		return parent
	}
	return h.Child(labels...)
}
