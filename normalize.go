package logging

import (
	stderrs "errors"
	"reflect"
	"strings"

	smerrors "github.com/Station-Manager/errors"
)

const (
	// maxChainDepth bounds causal chain traversal.
	maxChainDepth = 50

	causedByMarker  = "caused by:"
	circularMarker  = "<circular>"
	cwdPlaceholder  = "CWD"
	simpleErrorHint = "simpleerror"
)

// NormalizedError is the printable form of an error and its causal chain.
//
// Cause is normally another *NormalizedError. When the chain loops back on an
// error that was already visited, Cause holds that original error unmodified.
type NormalizedError struct {
	Name       string
	Message    string
	Op         string
	StackTrace string
	Cause      error

	// source is the error this node was built from, when comparable.
	source any
}

func (e *NormalizedError) Error() string { return e.Message }

func (e *NormalizedError) Unwrap() error { return e.Cause }

// ErrorName returns the name of the error the record was built from.
func (e *NormalizedError) ErrorName() string { return e.Name }

// Stack returns the stack trace captured by the original error, if any.
func (e *NormalizedError) Stack() string { return e.StackTrace }

// Depth returns the number of normalized nodes in the chain.
func (e *NormalizedError) Depth() int {
	n := 0
	for cur := e; cur != nil; {
		n++
		next, ok := cur.Cause.(*NormalizedError)
		if !ok {
			break
		}
		cur = next
	}
	return n
}

// SimpleError is an error that is logged with its message only, never with a
// stack or cause chain.
type SimpleError struct {
	msg string
}

// NewSimpleError returns a SimpleError carrying msg.
func NewSimpleError(msg string) *SimpleError { return &SimpleError{msg: msg} }

func (e *SimpleError) Error() string { return e.msg }

type stackCarrier interface{ Stack() string }

type namedError interface{ ErrorName() string }

type causer interface{ Cause() error }

type messenger interface{ Message() string }

// IsProbablyError reports whether v looks like an error.
//
// With a hint, v is an error only if its name contains the hint or its stack
// starts with it (both case-insensitive). Without a hint, a non-empty stack, a
// name containing "error", or an implementation of the error interface is
// enough. Plain values (strings, numbers, nil) are never errors.
func IsProbablyError(v any, hint string) (probably bool) {
	defer func() {
		if r := recover(); r != nil {
			probably = false
		}
	}()

	if !isErrorShaped(v) {
		return false
	}

	name := strings.ToLower(errorName(v))
	stack := errorStack(v)

	if hint != emptyString {
		h := strings.ToLower(hint)
		if name != emptyString && strings.Contains(name, h) {
			return true
		}
		if stack != emptyString && strings.HasPrefix(strings.ToLower(strings.TrimSpace(stack)), h) {
			return true
		}
		return false
	}

	if stack != emptyString {
		return true
	}
	if strings.Contains(name, "error") {
		return true
	}
	_, isErr := v.(error)
	return isErr
}

// Normalize converts an error-shaped value into a NormalizedError, walking
// and normalizing its causal chain. It never panics: when v is not an error,
// or its shape cannot be read, ok is false and the caller keeps the original.
func Normalize(v any) (ne *NormalizedError, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ne, ok = nil, false
		}
	}()

	if !IsProbablyError(v, emptyString) {
		return nil, false
	}
	ne = normalize(v, make(map[any]struct{}), 0)
	return ne, ne != nil
}

// NormalizeError is Normalize for call sites that want an error back: the
// normalized form when err is error-shaped, err itself otherwise.
func NormalizeError(err error) error {
	if ne, ok := Normalize(err); ok {
		return ne
	}
	return err
}

func normalize(v any, seen map[any]struct{}, depth int) *NormalizedError {
	ne := &NormalizedError{
		Name:       errorName(v),
		Message:    errorMessage(v),
		Op:         errorOp(v),
		StackTrace: errorStack(v),
	}
	if key, ok := identity(v); ok {
		seen[key] = struct{}{}
		ne.source = key
	}

	cause := causeOf(v)
	if cause == nil {
		return ne
	}
	if key, ok := identity(cause); ok {
		if _, visited := seen[key]; visited {
			ne.Cause = cause
			return ne
		}
	}
	if depth+1 >= maxChainDepth || !IsProbablyError(cause, emptyString) {
		ne.Cause = cause
		return ne
	}
	ne.Cause = normalize(cause, seen, depth+1)
	return ne
}

func isErrorShaped(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return false
		}
	default:
	}
	switch v.(type) {
	case error, stackCarrier, namedError:
		return true
	default:
		return false
	}
}

func errorName(v any) string {
	if n, ok := v.(namedError); ok {
		if name := n.ErrorName(); name != emptyString {
			return name
		}
	}
	t := reflect.TypeOf(v)
	if t == nil {
		return emptyString
	}
	return strings.TrimPrefix(t.String(), "*")
}

func errorMessage(v any) string {
	switch e := v.(type) {
	case error:
		return e.Error()
	case messenger:
		return e.Message()
	default:
		return emptyString
	}
}

func errorStack(v any) string {
	if s, ok := v.(stackCarrier); ok {
		return s.Stack()
	}
	return emptyString
}

func errorOp(v any) string {
	if ne, ok := v.(*NormalizedError); ok {
		return ne.Op
	}
	err, ok := v.(error)
	if !ok {
		return emptyString
	}
	if op, _, ok := ownDetailedError(err); ok {
		return op
	}
	return emptyString
}

// causeOf prefers Station-Manager DetailedError.Cause, then any Cause()
// method, then the stdlib unwrap forms (first branch of a joined error).
// A typed nil cause counts as no cause.
func causeOf(v any) error {
	cause := rawCause(v)
	if cause == nil {
		return nil
	}
	if rv := reflect.ValueOf(cause); rv.Kind() == reflect.Ptr && rv.IsNil() {
		return nil
	}
	return cause
}

func rawCause(v any) error {
	err, isErr := v.(error)
	if isErr {
		if _, cause, ok := ownDetailedError(err); ok {
			return cause
		}
	}
	if c, ok := v.(causer); ok {
		return c.Cause()
	}
	if !isErr {
		return nil
	}
	if cause := stderrs.Unwrap(err); cause != nil {
		return cause
	}
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		for _, cause := range multi.Unwrap() {
			if cause != nil {
				return cause
			}
		}
	}
	return nil
}

// ownDetailedError reads the op and cause of err when err itself is a
// DetailedError; one found deeper in the chain does not count.
func ownDetailedError(err error) (op string, cause error, ok bool) {
	dErr, found := smerrors.AsDetailedError(err)
	if !found || dErr == nil {
		return emptyString, nil, false
	}
	if any(dErr) != any(err) {
		return emptyString, nil, false
	}
	return string(dErr.Op()), dErr.Cause(), true
}

func identity(v any) (any, bool) {
	t := reflect.TypeOf(v)
	if t == nil || !t.Comparable() {
		return nil, false
	}
	return v, true
}

// PrintableStack renders err and its causes, one node per block, joined by
// "caused by:" lines. Nodes without a stack trace render as "Name: message".
// A cause that loops back to an error already printed renders as <circular>.
func PrintableStack(err error) (out string) {
	if err == nil {
		return emptyString
	}
	var b strings.Builder
	defer func() {
		if r := recover(); r != nil {
			out = b.String()
		}
	}()
	seen := make(map[any]struct{})
	cur := err
	for i := 0; cur != nil && i < maxChainDepth; i++ {
		if i > 0 {
			b.WriteString("\n" + causedByMarker + " ")
		}
		if key, ok := identity(cur); ok {
			if _, visited := seen[key]; visited {
				b.WriteString(circularMarker)
				break
			}
			seen[key] = struct{}{}
		}

		ne, ok := cur.(*NormalizedError)
		if ok && ne.source != nil {
			seen[ne.source] = struct{}{}
		}
		if !ok {
			// A cause left unnormalized by cycle detection or the depth limit.
			b.WriteString(nodeHeader(errorName(cur), emptyString, errorMessage(cur)))
			break
		}
		if ne.StackTrace != emptyString {
			b.WriteString(ne.StackTrace)
		} else {
			b.WriteString(nodeHeader(ne.Name, ne.Op, ne.Message))
		}
		cur = ne.Cause
	}
	return b.String()
}

func nodeHeader(name, op, msg string) string {
	if op != emptyString {
		name += " [" + op + "]"
	}
	if msg == emptyString {
		return name
	}
	return name + ": " + msg
}

// suppressMessage strips the first copy of msg from stack and starts every
// "caused by:" on its own line.
func suppressMessage(stack, msg string) string {
	if msg != emptyString {
		if i := strings.Index(stack, msg); i >= 0 {
			stack = strings.TrimSuffix(stack[:i], ": ") + stack[i+len(msg):]
		}
	}

	var b strings.Builder
	rest := stack
	for {
		i := strings.Index(rest, causedByMarker)
		if i < 0 {
			b.WriteString(rest)
			break
		}
		seg := rest[:i]
		if trimmed := strings.TrimRight(seg, " \t"); b.Len()+len(trimmed) > 0 && !strings.HasSuffix(trimmed, "\n") {
			seg = trimmed + "\n"
		}
		b.WriteString(seg)
		b.WriteString(causedByMarker)
		rest = rest[i+len(causedByMarker):]
	}
	return b.String()
}

// CleanStack splits a printable stack into the message to display and the
// text that follows it. The first stack line is the summary: it becomes the
// message when msg is empty, otherwise it leads the trailing text. Every
// occurrence of cwd in the remaining lines is replaced by "CWD".
func CleanStack(stack, msg, cwd string) (string, string) {
	if stack == emptyString {
		return msg, emptyString
	}
	lines := strings.Split(stack, "\n")
	top := lines[0]
	rest := lines[1:]
	for i, line := range rest {
		rest[i] = redactPath(line, cwd)
	}

	var tail []string
	if msg == emptyString {
		msg = top
	} else {
		tail = append(tail, top)
	}
	tail = append(tail, rest...)
	if len(tail) == 0 {
		return msg, emptyString
	}
	return msg, "\n" + strings.Join(tail, "\n")
}

func redactPath(s, cwd string) string {
	if cwd == emptyString {
		return s
	}
	return strings.ReplaceAll(s, cwd, cwdPlaceholder)
}
