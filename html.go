package logging

import (
	"regexp"
	"strings"
)

const breakSymbol = "<br />"

var htmlLevelClasses = map[string]string{
	"error":   "error red",
	"warn":    "warn yellow",
	"info":    "info green",
	"http":    "http cyan",
	"verbose": "verbose purple",
	"debug":   "debug blue",
	"silly":   "silly gray",
}

var htmlLevelRegex = regexp.MustCompile(`(?i)\b(error|warn|info|http|verbose|debug|silly)\s`)

// FormatLogToHTML turns one rendered log line into an HTML fragment for log
// viewers: the level keyword is wrapped in a classed span and newlines become
// <br />. The fragment always ends with <br />.
func FormatLogToHTML(line string) string {
	out := strings.ReplaceAll(line, "\n", breakSymbol)

	if loc := htmlLevelRegex.FindStringSubmatchIndex(out); loc != nil {
		keyword := out[loc[2]:loc[3]]
		span := `<span class="` + htmlLevelClasses[strings.ToLower(keyword)] + `">` + keyword + ` </span>`
		out = out[:loc[0]] + span + out[loc[1]:]
	}

	out = strings.TrimSpace(out)
	if !strings.HasSuffix(out, breakSymbol) {
		out += breakSymbol
	}
	return out
}
