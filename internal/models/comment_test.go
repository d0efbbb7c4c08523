package models

import (
	"strings"
	"testing"
)

func TestCommentSanitize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "scripts removed",
			text: `nice post<script>alert("x")</script>`,
			want: "nice post",
		},
		{
			name: "basic formatting kept",
			text: "this is <em>fine</em>",
			want: "this is <em>fine</em>",
		},
		{
			name: "event handlers stripped",
			text: `<a href="https://example.com" onclick="steal()">link</a>`,
			want: `<a href="https://example.com" rel="nofollow">link</a>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Comment{Text: tt.text}
			c.Sanitize()
			if strings.TrimSpace(c.Text) != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, c.Text)
			}
		})
	}
}
