package models

import "time"

// Entity is one of *Board, *List or *Card. The set is closed: only types in
// this package can satisfy it, so a level is always a type match.
type Entity interface {
	EntityID() string
	DisplayName() string
	Level() Level
	entity()
}

// User is the authenticated member. It is the virtual root of the
// hierarchy and never sits on the navigation stack.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

// Membership links a member to a board.
type Membership struct {
	ID         string `json:"id"`
	MemberID   string `json:"idMember"`
	MemberType string `json:"memberType"`
}

// Board is the top level of the kanban hierarchy.
type Board struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Description      string        `json:"desc"`
	LastActivityTime time.Time     `json:"dateLastActivity"`
	Memberships      []*Membership `json:"memberships"`
	Lists            []*List       `json:"lists"`
}

// List is a column on a board.
type List struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	BoardID string  `json:"idBoard,omitempty"`
	Cards   []*Card `json:"cards,omitempty"`
}

// Card is a single work item. Comments, checklists and attachments are not
// part of listing payloads and are fetched when the card is entered.
type Card struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"desc"`
	Due         *time.Time `json:"due"`
	ListID      string     `json:"idList"`
}

func (b *Board) EntityID() string    { return b.ID }
func (b *Board) DisplayName() string { return b.Name }
func (b *Board) Level() Level        { return LevelBoard }
func (*Board) entity()               {}

func (l *List) EntityID() string    { return l.ID }
func (l *List) DisplayName() string { return l.Name }
func (l *List) Level() Level        { return LevelList }
func (*List) entity()               {}

func (c *Card) EntityID() string    { return c.ID }
func (c *Card) DisplayName() string { return c.Name }
func (c *Card) Level() Level        { return LevelCard }
func (*Card) entity()               {}

// HasDue reports whether the card carries a due date.
func (c *Card) HasDue() bool {
	return c.Due != nil && !c.Due.IsZero()
}
