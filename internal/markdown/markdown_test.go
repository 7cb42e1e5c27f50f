package markdown

import (
	"strings"
	"testing"

	"github.com/evan-fitzpatrick/dynamicactive-LMS/internal/model"
)

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		name      string
		md        string
		wantTitle string
		wantBody  string
	}{
		{
			"heading first line",
			"### Fractions\n\nA half is written 1/2.",
			"Fractions",
			"A half is written 1/2.",
		},
		{
			"heading after preamble",
			"intro text\n### Fractions\nbody here",
			"Fractions",
			"body here",
		},
		{
			"no heading",
			"just some text\nmore text",
			model.DefaultTitle,
			"just some text\nmore text",
		},
		{
			"level-4 heading ignored",
			"#### Not a title\ncontent",
			model.DefaultTitle,
			"#### Not a title\ncontent",
		},
		{
			"only first heading taken",
			"### First\nbody\n### Second\nmore",
			"First",
			"body\n### Second\nmore",
		},
		{
			"indented heading",
			"  ### Spaced Out  \nbody",
			"Spaced Out",
			"body",
		},
		{
			"empty input",
			"",
			model.DefaultTitle,
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, body := SplitTitle(tt.md)
			if title != tt.wantTitle {
				t.Errorf("title = %q, want %q", title, tt.wantTitle)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestStripHeading(t *testing.T) {
	md := "### First\nbody\n### Second\nmore"
	got := StripHeading(md)
	want := "body\n### Second\nmore"
	if got != want {
		t.Errorf("StripHeading = %q, want %q", got, want)
	}

	// No heading: unchanged.
	plain := "no heading here\njust text"
	if got := StripHeading(plain); got != plain {
		t.Errorf("StripHeading without heading changed input: %q", got)
	}
}

func TestRenderPreview(t *testing.T) {
	html, err := RenderPreview("### Fractions\n\nA **half** is written 1/2.")
	if err != nil {
		t.Fatalf("RenderPreview: %v", err)
	}
	if strings.Contains(html, "Fractions") {
		t.Errorf("preview should not contain the stripped title, got %q", html)
	}
	if !strings.Contains(html, "<strong>half</strong>") {
		t.Errorf("expected bold rendering, got %q", html)
	}
}

func TestRenderPreviewKeepsLaterHeadings(t *testing.T) {
	html, err := RenderPreview("### Title\n\n### Section\ntext")
	if err != nil {
		t.Fatalf("RenderPreview: %v", err)
	}
	if !strings.Contains(html, "<h3>Section</h3>") {
		t.Errorf("second heading should render as h3, got %q", html)
	}
	if strings.Contains(html, "Title") {
		t.Errorf("first heading should be stripped, got %q", html)
	}
}
