package render

import (
	"strings"

	"github.com/thenoetrevino/trellis/internal/models"
)

// Hint tells the user what can be typed at a level.
func (v *View) Hint(level models.Level) string {
	var lines []string
	switch level {
	case models.LevelLoggedOut:
		lines = []string{
			"type " + v.Command("auth") + " to connect, or " + v.Command("auth --token <token>") + " to use a token you already have.",
		}
	case models.LevelUser:
		lines = []string{
			"type the name of a board to enter it;",
			v.Command("notifications") + " to read unread notifications; or",
			v.Command("ls") + " to list boards again.",
		}
	case models.LevelBoard:
		lines = []string{
			"type the name of a list to enter it;",
			v.Command("card <name>") + " to enter a card directly;",
			v.Command("add card") + " to add a card (" + v.Command("--list <list>") + " picks the list);",
			v.Command("ls") + " to list lists again; or",
			v.Command("cd ..") + " to go back to board selection.",
		}
	case models.LevelList:
		lines = []string{
			"type the name of a card to enter it;",
			v.Command("add card") + " to add a card;",
			v.Command("ls") + " to list cards again; or",
			v.Command("cd ..") + " to go back to board view.",
		}
	case models.LevelCard:
		lines = []string{
			"type " + v.Command("desc") + " to read this card's description;",
			v.Command("edit") + " to edit and replace the description;",
			v.Command("rename") + " to rename this card;",
			v.Command("comments") + " to read comments;",
			v.Command("post") + " to write a new comment;",
			v.Command("checklists") + " to see checklists in this card;",
			v.Command("attachments") + " to see attachments in this card;",
			v.Command("ls") + " to show card information again; or",
			v.Command("cd ..") + " to go back to previous view.",
		}
	}
	return "\n" + strings.Join(lines, "\n")
}
