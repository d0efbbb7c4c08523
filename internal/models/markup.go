package models

import (
	"bytes"
	"log"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// markdown is the shared goldmark instance used to render Markdown-sourced
// text. GFM tables/strikethrough and raw HTML passthrough match what themes
// expect from authored content.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// MarkupText is a piece of text tagged with the markup language in which it
// was authored.
type MarkupText struct {
	// SourceType is "HTML" or "Markdown".
	SourceType string `json:"sourceType"`
	// Text is the source text.
	Text string `json:"text"`
}

// Markup source types.
const (
	SourceHTML     = "HTML"
	SourceMarkdown = "Markdown"
)

// AsHTML renders the text to HTML; HTML-sourced text passes through as-is.
func (m MarkupText) AsHTML() string {
	if m.SourceType != SourceMarkdown {
		return m.Text
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(m.Text), &buf); err != nil {
		// goldmark only fails on writer errors, which bytes.Buffer
		// never returns; log and fall back to the raw source.
		log.Printf("markdown render failed: %v", err)
		return m.Text
	}
	return buf.String()
}
