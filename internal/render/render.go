// Package render formats listings, cards and messages for the terminal.
package render

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/thenoetrevino/trellis/internal/config/colors"
)

// Column widths of the listings.
const (
	boardNameWidth     = 40
	boardActivityWidth = 15
	listNameWidth      = 28
	listCardWidth      = 10
	listCardPreview    = 6
	cardNameWidth      = 37
	cardDescWidth      = 44
	cardDueDescWidth   = 20
	defaultWrapWidth   = 80
)

// Styles holds the lipgloss styles derived from a color scheme.
type Styles struct {
	Accent    lipgloss.Style
	Secondary lipgloss.Style
	Success   lipgloss.Style
	Link      lipgloss.Style
	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Info      lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Command   lipgloss.Style
}

// NewStyles initializes all styles with the given color scheme
func NewStyles(scheme colors.ColorScheme) Styles {
	return Styles{
		Accent:    lipgloss.NewStyle().Foreground(lipgloss.Color(scheme.Accent)),
		Secondary: lipgloss.NewStyle().Foreground(lipgloss.Color(scheme.Secondary)),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color(scheme.Success)),
		Link:      lipgloss.NewStyle().Foreground(lipgloss.Color(scheme.Link)).Underline(true),
		Title:     lipgloss.NewStyle().Foreground(lipgloss.Color(scheme.Title)).Bold(true),
		Subtle:    lipgloss.NewStyle().Foreground(lipgloss.Color(scheme.Subtle)).Italic(true),
		Info:      lipgloss.NewStyle().Foreground(lipgloss.Color(scheme.InfoFg)).Bold(true),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color(scheme.WarningFg)).Bold(true),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color(scheme.ErrorFg)).Bold(true),
		Command:   lipgloss.NewStyle().Underline(true),
	}
}

// View renders everything the REPL prints.
type View struct {
	styles        Styles
	markdownStyle string
	width         int
	now           func() time.Time
	markdown      *markdownCache
}

// Option configures a View.
type Option func(*View)

// WithMarkdownStyle selects a glamour style: "auto" picks one from the
// terminal, "notty" renders plain text.
func WithMarkdownStyle(style string) Option {
	return func(v *View) {
		v.markdownStyle = style
	}
}

// WithWidth sets the word-wrap width of rendered markdown.
func WithWidth(width int) Option {
	return func(v *View) {
		if width > 0 {
			v.width = width
		}
	}
}

// WithClock replaces the clock used for relative dates.
func WithClock(now func() time.Time) Option {
	return func(v *View) {
		v.now = now
	}
}

// New creates a View for the color scheme.
func New(scheme colors.ColorScheme, opts ...Option) *View {
	v := &View{
		styles:        NewStyles(scheme),
		markdownStyle: "auto",
		width:         defaultWrapWidth,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.markdown = newMarkdownCache(v.markdownStyle)
	return v
}

// Styles exposes the view's styles.
func (v *View) Styles() Styles {
	return v.styles
}

// Accent colors text like the prompt.
func (v *View) Accent(text string) string {
	return v.styles.Accent.Render(text)
}

// Command marks a command name in help text.
func (v *View) Command(name string) string {
	return "'" + v.styles.Command.Render(name) + "'"
}

// Prompt builds the REPL prompt for a position label.
func (v *View) Prompt(label string) string {
	return v.styles.Accent.Render(label) + "~$ "
}

// Success renders a confirmation such as "renamed!".
func (v *View) Success(text string) string {
	return v.styles.Info.Render(text)
}

// Error renders a failure message.
func (v *View) Error(err error) string {
	return v.styles.Error.Render("✗ " + err.Error())
}

// Warning renders a recoverable problem.
func (v *View) Warning(text string) string {
	return v.styles.Warning.Render(text)
}

// Subtle renders secondary text.
func (v *View) Subtle(text string) string {
	return v.styles.Subtle.Render(text)
}
