package models

import "time"

// Member is the short member reference embedded in actions.
type Member struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// CommentData is the payload of a comment action.
type CommentData struct {
	Text string `json:"text"`
}

// Comment is a commentCard (or copyCommentCard) action on a card.
type Comment struct {
	ID      string      `json:"id"`
	Type    string      `json:"type"`
	Date    time.Time   `json:"date"`
	Data    CommentData `json:"data"`
	Creator Member      `json:"memberCreator"`
}

// CheckItem state values.
const (
	CheckItemComplete   = "complete"
	CheckItemIncomplete = "incomplete"
)

// CheckItem is a single line of a checklist.
type CheckItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
}

// Done reports whether the item is checked.
func (i *CheckItem) Done() bool {
	return i.State == CheckItemComplete
}

// Checklist groups check items on a card.
type Checklist struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	CheckItems []*CheckItem `json:"checkItems"`
}

// Attachment is a file or link attached to a card.
type Attachment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CardDetail is the payload returned when a card is fetched with its
// comments, checklists and attachments expanded.
type CardDetail struct {
	Card
	Comments    []*Comment    `json:"actions"`
	Checklists  []*Checklist  `json:"checklists"`
	Attachments []*Attachment `json:"attachments"`
}
