package logging

import (
	"fmt"
	"regexp"
	"strings"

	smerrors "github.com/Station-Manager/errors"
)

// Level is a record severity. Lower values are more severe.
type Level int8

const (
	LevelSilent Level = iota - 1
	LevelError
	LevelWarn
	LevelInfo
	LevelHTTP
	LevelVerbose
	LevelDebug
	LevelSilly
)

// Aliases kept from the level table: "safety" sits with info, "trace" with debug.
const (
	LevelSafety = LevelInfo
	LevelTrace  = LevelDebug
)

var levelNames = map[string]Level{
	"silent":  LevelSilent,
	"error":   LevelError,
	"warn":    LevelWarn,
	"safety":  LevelSafety,
	"info":    LevelInfo,
	"http":    LevelHTTP,
	"verbose": LevelVerbose,
	"debug":   LevelDebug,
	"trace":   LevelTrace,
	"silly":   LevelSilly,
}

// String returns the canonical name of the level.
func (l Level) String() string {
	switch l {
	case LevelSilent:
		return "silent"
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelHTTP:
		return "http"
	case LevelVerbose:
		return "verbose"
	case LevelDebug:
		return "debug"
	case LevelSilly:
		return "silly"
	default:
		return fmt.Sprintf("level(%d)", int8(l))
	}
}

// Enabled reports whether a record at level l passes the threshold.
func (l Level) Enabled(threshold Level) bool {
	return l >= LevelError && l <= threshold
}

// ParseLevel parses a level name, case-insensitively, including the
// "safety" and "trace" aliases.
func ParseLevel(name string) (Level, error) {
	const op smerrors.Op = "logging.ParseLevel"
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return LevelSilent, smerrors.New(op).Msg(errMsgUnknownLevel)
	}
	return l, nil
}

// logLineLevelRegex finds the level keyword of a rendered line.
var logLineLevelRegex = regexp.MustCompile(`(?i)\b(error|warn|info|http|verbose|debug|silly)\s*:`)

// IsLogLineMinLevel reports whether a rendered log line is at least as severe
// as minLevel. Lines without a recognisable level never match.
func IsLogLineMinLevel(line string, minLevel Level) bool {
	m := logLineLevelRegex.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	l, err := ParseLevel(m[1])
	if err != nil {
		return false
	}
	return l <= minLevel
}

// IsRecordMinLevel is IsLogLineMinLevel for records that have not been rendered.
func IsRecordMinLevel(rec *Record, minLevel Level) bool {
	if rec == nil {
		return false
	}
	return rec.Level <= minLevel
}
