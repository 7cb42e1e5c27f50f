// Package markdown handles the lesson content conventions: the first
// level-3 heading names the lesson, the rest is the body.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/evan-fitzpatrick/dynamicactive-LMS/internal/model"
)

// SplitTitle extracts the lesson title from the first level-3 heading and
// returns it with the remaining body, trimmed. Without a heading the title
// falls back to model.DefaultTitle and the full trimmed content is the body.
func SplitTitle(md string) (title, body string) {
	lines := strings.Split(md, "\n")
	for i, line := range lines {
		if t, ok := headingText(line); ok {
			return t, strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
		}
	}
	return model.DefaultTitle, strings.TrimSpace(md)
}

// StripHeading removes only the first level-3 heading line, leaving
// everything else untouched.
func StripHeading(md string) string {
	lines := strings.Split(md, "\n")
	for i, line := range lines {
		if _, ok := headingText(line); ok {
			return strings.Join(append(lines[:i:i], lines[i+1:]...), "\n")
		}
	}
	return md
}

// RenderPreview converts markdown to an HTML fragment for the edit form's
// live preview, with the title heading stripped first. No persistence.
func RenderPreview(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(StripHeading(md)), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// headingText reports whether a line is a level-3 heading ("### ..." but
// not "#### ...") and returns its text.
func headingText(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "###") {
		return "", false
	}
	rest := trimmed[3:]
	if strings.HasPrefix(rest, "#") {
		return "", false
	}
	text := strings.TrimSpace(rest)
	if text == "" {
		return "", false
	}
	return text, true
}
