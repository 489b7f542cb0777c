package template

import (
	"strconv"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	titleCaser := cases.Title(language.English)
	return template.FuncMap{
		// String functions
		"lower":     strings.ToLower,
		"upper":     strings.ToUpper,
		"title":     titleCaser.String,
		"trimSpace": strings.TrimSpace,
		"contains":  strings.Contains,
		"hasPrefix": strings.HasPrefix,
		"hasSuffix": strings.HasSuffix,
		"replace":   strings.ReplaceAll,
		"join":      strings.Join,
		"split":     strings.Split,

		// Formatting functions
		"quote":   strconv.Quote,
		"indent":  indent,
		"default": defaultValue,
	}
}

// indent adds n spaces of indentation to each line.
func indent(n int, s string) string {
	prefix := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// defaultValue returns fallback when value is empty.
// Usage: {{ .Tag | default "none" }}
func defaultValue(fallback, value string) string {
	if value == "" {
		return fallback
	}
	return value
}
