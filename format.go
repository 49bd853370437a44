package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

const (
	colorRed     = 31
	colorGreen   = 32
	colorYellow  = 33
	colorBlue    = 34
	colorMagenta = 35
	colorCyan    = 36
	colorGray    = 90
)

var levelColors = map[string]int{
	"error":   colorRed,
	"warn":    colorYellow,
	"info":    colorGreen,
	"http":    colorCyan,
	"verbose": colorMagenta,
	"debug":   colorBlue,
	"silly":   colorGray,
}

// lineFormat controls how a sink renders a record as a text line.
type lineFormat struct {
	color bool
	cwd   string
}

// newLineWriter returns a zerolog ConsoleWriter that renders
//
//	<timestamp> <level padded to 8>: [l1] [l2] <message> <extra JSON>
//	<stack>
func newLineWriter(out io.Writer, f lineFormat) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    !f.color,
		PartsOrder: []string{zerolog.TimestampFieldName, zerolog.LevelFieldName, zerolog.MessageFieldName},
		FormatTimestamp: func(i interface{}) string {
			if i == nil {
				return emptyString
			}
			return fmt.Sprint(i)
		},
		FormatLevel: func(i interface{}) string {
			name := fmt.Sprint(i)
			padded := fmt.Sprintf("%-8s", name)
			if f.color {
				if c, ok := levelColors[name]; ok {
					padded = colorize(padded, c)
				}
			}
			return padded + ":"
		},
		FormatMessage: func(i interface{}) string {
			if i == nil {
				return emptyString
			}
			return fmt.Sprint(i)
		},
		FormatPrepare: func(evt map[string]interface{}) error {
			prepareLine(evt, f)
			return nil
		},
	}
}

// prepareLine folds labels, extra fields and the stack into the message part
// so the ConsoleWriter prints no trailing key=value pairs.
func prepareLine(evt map[string]interface{}, f lineFormat) {
	labels := toStrings(evt[labelsFieldName])
	leaf, _ := evt[leafFieldName].(string)
	msg, _ := evt[zerolog.MessageFieldName].(string)
	stack, _ := evt[stackFieldName].(string)

	extras := make(map[string]interface{})
	for k, v := range evt {
		switch k {
		case zerolog.TimestampFieldName, zerolog.LevelFieldName, zerolog.MessageFieldName:
			continue
		case labelsFieldName, leafFieldName, stackFieldName:
		default:
			extras[k] = v
		}
		delete(evt, k)
	}

	evt[zerolog.MessageFieldName] = composeLine(labels, leaf, msg, extras, stack, f)
}

func composeLine(labels []string, leaf, msg string, extras map[string]interface{}, stack string, f lineFormat) string {
	msg, stackMsg := CleanStack(stack, msg, f.cwd)

	var b strings.Builder
	if rendered := RenderLabels(labels, leaf); rendered != emptyString {
		if f.color {
			rendered = colorize(rendered, colorGray)
		}
		b.WriteString(rendered)
		b.WriteByte(' ')
	}
	b.WriteString(msg)
	if len(extras) > 0 {
		// encoding/json keeps the json.Number values decoded by ConsoleWriter as literals.
		if data, err := json.Marshal(extras); err == nil {
			b.WriteByte(' ')
			b.Write(data)
		}
	}
	b.WriteString(stackMsg)
	return b.String()
}

func toStrings(v interface{}) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []interface{}:
		out := make([]string, 0, len(vals))
		for _, x := range vals {
			out = append(out, fmt.Sprint(x))
		}
		return out
	case string:
		return []string{vals}
	default:
		return nil
	}
}

func colorize(s string, c int) string {
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", c, s)
}
