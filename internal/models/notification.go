package models

import "time"

// NotificationData carries the references a notification points at.
type NotificationData struct {
	Text  string `json:"text,omitempty"`
	Board *struct {
		Name string `json:"name"`
	} `json:"board,omitempty"`
	Card *struct {
		Name string `json:"name"`
	} `json:"card,omitempty"`
}

// Notification is an entry of the member's notification feed.
type Notification struct {
	ID      string           `json:"id"`
	Type    string           `json:"type"`
	Unread  bool             `json:"unread"`
	Date    time.Time        `json:"date"`
	Data    NotificationData `json:"data"`
	Creator Member           `json:"memberCreator"`
}

// Me is the authentication payload: the member plus open boards and the
// notification feed.
type Me struct {
	User
	Boards        []*Board        `json:"boards"`
	Notifications []*Notification `json:"notifications"`
}

// Unread returns the unread notifications in feed order.
func Unread(notifications []*Notification) []*Notification {
	unread := make([]*Notification, 0, len(notifications))
	for _, n := range notifications {
		if n.Unread {
			unread = append(unread, n)
		}
	}
	return unread
}
