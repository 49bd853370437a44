package logging

import (
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// workingDir returns the process working directory, or "" if unknown.
func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return emptyString
	}
	return wd
}

// capitalize upper-cases the first letter of each word in name.
func capitalize(name string) string {
	name = strings.TrimSpace(name)
	if name == emptyString {
		return emptyString
	}
	// Casers keep state, so each call gets its own.
	return cases.Title(language.Und, cases.NoLower).String(name)
}

func cloneFields(src map[string]any, extra int) map[string]any {
	dst := make(map[string]any, len(src)+extra)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func cloneLabels(src []string, extra int) []string {
	dst := make([]string, 0, len(src)+extra)
	return append(dst, src...)
}
