package source

import (
	"strings"
	"testing"
)

func TestMarkdownText(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{name: "paragraph", src: "Hello\nworld.\n", want: "Hello world."},
		{name: "inline markup", src: "Click [**here**](https://example.com) now.\n", want: "Click here now."},
		{name: "heading", src: "## Getting started\n\nRun it.\n", want: "Getting started.\n\nRun it."},
		{name: "heading with question", src: "# Why?\n", want: "Why?"},
		{name: "list items", src: "- first item\n- second item!\n", want: "first item.\n\nsecond item!"},
		{name: "code block", src: "Intro.\n\n```go\nfmt.Println(\"x\")\n```\n\nOutro.\n", want: "Intro.\n\nOutro."},
		{name: "indented code", src: "Intro.\n\n    code here\n", want: "Intro."},
		{name: "autolink", src: "See <https://example.com> today.\n", want: "See https://example.com today."},
		{name: "empty", src: "", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MarkdownText([]byte(tc.src)); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestMarkdownTextDropsHTML(t *testing.T) {
	got := MarkdownText([]byte("<div>\nhidden\n</div>\n\nShown <b>bold</b> text.\n"))
	if strings.Contains(got, "hidden") || strings.Contains(got, "<") {
		t.Fatalf("expected html to be dropped, got %q", got)
	}
	if !strings.Contains(got, "Shown bold text.") {
		t.Fatalf("expected prose to survive, got %q", got)
	}
}
