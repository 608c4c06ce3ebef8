package render

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// markdownCache keeps one glamour renderer per wrap width; creating them is
// expensive.
type markdownCache struct {
	style     string
	renderers sync.Map // map[int]*glamour.TermRenderer
}

func newMarkdownCache(style string) *markdownCache {
	return &markdownCache{style: style}
}

func (c *markdownCache) renderer(width int) (*glamour.TermRenderer, error) {
	if cached, ok := c.renderers.Load(width); ok {
		return cached.(*glamour.TermRenderer), nil
	}

	styleOption := glamour.WithAutoStyle()
	if c.style != "" && c.style != "auto" {
		styleOption = glamour.WithStandardStyle(c.style)
	}
	renderer, err := glamour.NewTermRenderer(styleOption, glamour.WithWordWrap(width))
	if err != nil {
		return nil, err
	}

	c.renderers.Store(width, renderer)
	return renderer, nil
}

// Markdown renders text for the terminal. Rendering failures fall back to
// the raw text.
func (v *View) Markdown(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	renderer, err := v.markdown.renderer(v.width)
	if err != nil {
		return text
	}
	rendered, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(rendered, "\n")
}

// Description renders a card description, or a placeholder when empty.
func (v *View) Description(text string) string {
	if rendered := v.Markdown(text); rendered != "" {
		return rendered
	}
	return v.styles.Subtle.Render("No description")
}
