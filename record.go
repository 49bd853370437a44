package logging

import (
	"strings"
	"time"
)

// Record is a single leveled log entry on its way to the sinks.
type Record struct {
	Time    time.Time
	Level   Level
	Message string
	// Labels are in display order, outermost first.
	Labels []string
	// Leaf is appended to the rendered labels unless it is already last.
	Leaf   string
	Fields map[string]any
	Err    *NormalizedError
	// Stack is the printable cause chain, already stripped of Message.
	Stack string
}

// RenderLabels renders labels as "[a] [b]", appending leaf to a render-only
// copy when it is not already the last label.
func RenderLabels(labels []string, leaf string) string {
	nodes := labels
	if leaf != emptyString && (len(labels) == 0 || labels[len(labels)-1] != leaf) {
		nodes = make([]string, 0, len(labels)+1)
		nodes = append(nodes, labels...)
		nodes = append(nodes, leaf)
	}
	if len(nodes) == 0 {
		return emptyString
	}

	var b strings.Builder
	for i, n := range nodes {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('[')
		b.WriteString(n)
		b.WriteByte(']')
	}
	return b.String()
}

// finalize attaches the printable cause chain. Simple errors, and errors with
// nothing beyond the message already shown, carry no stack.
func (r *Record) finalize() {
	if r.Err == nil {
		return
	}
	if r.Message == emptyString {
		r.Message = r.Err.Message
	}
	if IsProbablyError(r.Err, simpleErrorHint) {
		return
	}
	if r.Err.Cause == nil && r.Err.StackTrace == emptyString && r.Err.Message == r.Message {
		return
	}
	r.Stack = suppressMessage(PrintableStack(r.Err), r.Message)
}
