package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"
	"github.com/thenoetrevino/trellis/internal/models"
)

const ellipsis = "…"

// fit truncates text to width and pads it to exactly width cells.
func fit(text string, width int) string {
	return padding.String(cut(text, width), uint(width))
}

// cut truncates text to width cells, ANSI-aware.
func cut(text string, width int) string {
	return truncate.StringWithTail(text, uint(width), ellipsis)
}

// oneLine collapses every run of whitespace to a single space.
func oneLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func (v *View) bullet() string {
	return " " + v.styles.Success.Render("-") + " "
}

func (v *View) relative(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.RelTime(t, v.now(), "ago", "from now")
}

// DueDate formats a due date to the second, in UTC.
func DueDate(due *time.Time) string {
	if due == nil || due.IsZero() {
		return ""
	}
	return due.UTC().Format("2006-01-02T15:04:05")
}

// Slugs maps an entity id to the slug that enters it.
type Slugs func(id string) string

// slugHint renders the slug for id at the end of a listing line.
func (v *View) slugHint(slugs Slugs, id string) string {
	if slugs == nil {
		return ""
	}
	if s := slugs(id); s != "" {
		return " " + v.styles.Secondary.Render("→ "+s)
	}
	return ""
}

// Boards lists boards with last activity, member and list counts.
func (v *View) Boards(boards []*models.Board, slugs Slugs) string {
	var b strings.Builder
	b.WriteString("\nyour boards:\n")
	if len(boards) == 0 {
		b.WriteString(v.Subtle(" (no open boards)"))
		return b.String()
	}
	lines := make([]string, 0, len(boards))
	for _, board := range boards {
		lines = append(lines, fmt.Sprintf("%s%s %s %2d %s %2d %s%s",
			v.bullet(),
			fit(board.Name, boardNameWidth),
			v.styles.Success.Render(fit(v.relative(board.LastActivityTime), boardActivityWidth)),
			len(board.Memberships), v.styles.Secondary.Render("members"),
			len(board.Lists), v.styles.Secondary.Render("lists"),
			v.slugHint(slugs, board.ID),
		))
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

// Lists lists a board's lists with a preview of their first cards.
func (v *View) Lists(lists []*models.List, slugs Slugs) string {
	var b strings.Builder
	b.WriteString("\nlists in this board:\n")
	if len(lists) == 0 {
		b.WriteString(v.Subtle(" (no open lists)"))
		return b.String()
	}
	lines := make([]string, 0, len(lists))
	for _, list := range lists {
		previews := make([]string, 0, listCardPreview)
		for i, card := range list.Cards {
			if i == listCardPreview {
				break
			}
			previews = append(previews, v.styles.Success.Render(cut(card.Name, listCardWidth)))
		}
		lines = append(lines, fmt.Sprintf("%s%s: [%s]%s", v.bullet(), fit(list.Name, listNameWidth), strings.Join(previews, ", "), v.slugHint(slugs, list.ID)))
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

// Cards lists cards with due dates and a description preview.
func (v *View) Cards(cards []*models.Card, slugs Slugs) string {
	var b strings.Builder
	b.WriteString("\ncards in this list:\n")
	if len(cards) == 0 {
		b.WriteString(v.Subtle(" (no open cards)"))
		return b.String()
	}
	lines := make([]string, 0, len(cards))
	for _, card := range cards {
		name := fit(card.Name, cardNameWidth)
		desc := oneLine(card.Description)
		hint := v.slugHint(slugs, card.ID)
		if !card.HasDue() {
			lines = append(lines, fmt.Sprintf("%s%s > %q%s", v.bullet(), name, cut(desc, cardDescWidth), hint))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s%s (due %s) > %q%s", v.bullet(), name, DueDate(card.Due), cut(desc, cardDueDescWidth), hint))
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

// Notifications lists unread notifications.
func (v *View) Notifications(notifications []*models.Notification) string {
	var b strings.Builder
	b.WriteString("\nunread notifications:\n")
	if len(notifications) == 0 {
		b.WriteString(v.Subtle(" (nothing new)"))
		return b.String()
	}
	lines := make([]string, 0, len(notifications))
	for _, n := range notifications {
		subject := n.Data.Text
		if subject == "" && n.Data.Card != nil {
			subject = n.Data.Card.Name
		}
		if subject == "" && n.Data.Board != nil {
			subject = n.Data.Board.Name
		}
		lines = append(lines, fmt.Sprintf("%s%s %s %s: %s",
			v.bullet(),
			v.styles.Success.Render(n.Creator.Username),
			v.styles.Secondary.Render(v.relative(n.Date)),
			n.Type,
			oneLine(subject),
		))
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}
