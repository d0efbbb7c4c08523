package models

import (
	"strings"
	"testing"
)

func TestAsHTML(t *testing.T) {
	tests := []struct {
		name string
		text MarkupText
		want string
	}{
		{
			name: "html passes through",
			text: MarkupText{SourceType: SourceHTML, Text: "<p>already rendered</p>"},
			want: "<p>already rendered</p>",
		},
		{
			name: "markdown renders",
			text: MarkupText{SourceType: SourceMarkdown, Text: "a **bold** move"},
			want: "<p>a <strong>bold</strong> move</p>\n",
		},
		{
			name: "markdown keeps raw html",
			text: MarkupText{SourceType: SourceMarkdown, Text: "before <em>kept</em> after"},
			want: "<p>before <em>kept</em> after</p>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.text.AsHTML(); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestAsHTMLRendersGFMTables(t *testing.T) {
	text := MarkupText{
		SourceType: SourceMarkdown,
		Text:       "| a | b |\n|---|---|\n| 1 | 2 |",
	}
	if got := text.AsHTML(); !strings.Contains(got, "<table>") {
		t.Fatalf("expected a rendered table, got %q", got)
	}
}
