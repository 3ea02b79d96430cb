// Package markdown renders blog post bodies to HTML and reads markdown files
// with front matter for bulk import.
package markdown

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

const (
	EngineRegex    = "regex"
	EngineGoldmark = "goldmark"
)

// Renderer turns markdown source into an HTML fragment that is injected into
// pages as-is.
type Renderer interface {
	Render(src string) string
}

// New returns the renderer for the configured engine name. Unknown names
// fall back to the regex renderer.
func New(engine string) Renderer {
	if engine == EngineGoldmark {
		return NewGoldmarkRenderer()
	}
	return NewRegexRenderer()
}

// GoldmarkRenderer is the full CommonMark alternative with GFM tables,
// strikethrough, autolinks and task lists. Raw HTML is passed through.
type GoldmarkRenderer struct {
	engine goldmark.Markdown
}

func NewGoldmarkRenderer() *GoldmarkRenderer {
	return &GoldmarkRenderer{
		engine: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
}

func (g *GoldmarkRenderer) Render(src string) string {
	var buf bytes.Buffer
	if err := g.engine.Convert([]byte(src), &buf); err != nil {
		return fmt.Sprintf("<pre>%s</pre>", html.EscapeString(src))
	}
	return buf.String()
}
