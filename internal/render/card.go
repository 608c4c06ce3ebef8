package render

import (
	"fmt"
	"strings"

	"github.com/thenoetrevino/trellis/internal/models"
)

// CardInfo renders the header of an entered card: name, due date,
// description and counts of the lazily fetched parts.
func (v *View) CardInfo(detail *models.CardDetail) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(v.styles.Title.Render(detail.Name))
	if due := DueDate(detail.Due); due != "" {
		b.WriteString(" " + v.styles.Secondary.Render("(due "+due+")"))
	}
	b.WriteString("\n\n")
	b.WriteString(v.Description(detail.Description))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%d %s, %d %s, %d %s",
		len(detail.Comments), v.styles.Secondary.Render("comments"),
		len(detail.Checklists), v.styles.Secondary.Render("checklists"),
		len(detail.Attachments), v.styles.Secondary.Render("attachments"),
	)
	return b.String()
}

// Comments lists comments oldest first; the service returns newest first.
func (v *View) Comments(comments []*models.Comment) string {
	var b strings.Builder
	b.WriteString("\nlast comments (top to bottom):\n")
	if len(comments) == 0 {
		b.WriteString(v.Subtle(" (no comments)"))
		return b.String()
	}
	entries := make([]string, 0, len(comments))
	for i := len(comments) - 1; i >= 0; i-- {
		c := comments[i]
		entries = append(entries, fmt.Sprintf("%s @ %s:\n  > %s",
			v.styles.Success.Render(c.Creator.Username),
			v.styles.Secondary.Render(c.Date.UTC().Format("2006-01-02 15:04")),
			v.Markdown(c.Data.Text),
		))
	}
	b.WriteString(strings.Join(entries, "\n"))
	return b.String()
}

// Checklists lists checklists with their items.
func (v *View) Checklists(checklists []*models.Checklist) string {
	var b strings.Builder
	b.WriteString("\nchecklists:\n")
	if len(checklists) == 0 {
		b.WriteString(v.Subtle(" (no checklists)"))
		return b.String()
	}
	blocks := make([]string, 0, len(checklists))
	for _, checklist := range checklists {
		lines := []string{v.bullet() + checklist.Name}
		for _, item := range checklist.CheckItems {
			mark := "[ ]"
			if item.Done() {
				mark = "[x]"
			}
			lines = append(lines, "     "+v.styles.Success.Render(mark)+" "+item.Name)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	b.WriteString(strings.Join(blocks, "\n\n"))
	return b.String()
}

// Attachments lists attachment names and links.
func (v *View) Attachments(attachments []*models.Attachment) string {
	var b strings.Builder
	b.WriteString("\nattachments:\n")
	if len(attachments) == 0 {
		b.WriteString(v.Subtle(" (no attachments)"))
		return b.String()
	}
	lines := make([]string, 0, len(attachments))
	for _, attachment := range attachments {
		lines = append(lines, v.bullet()+attachment.Name+" @ "+v.styles.Link.Render(attachment.URL))
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}
