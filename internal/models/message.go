package models

import "time"

// Message is the flat view model the inbox renders: one row per notification
// regardless of subtype.
type Message struct {
	ID        uint      `json:"id"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Type      string    `json:"type"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Priority  int       `json:"priority"`
	IsRead    bool      `json:"is_read"`
	IsFlagged bool      `json:"is_flagged"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageOf flattens a notification and its subtype into the inbox view model.
// Subject/body come from whichever subtype is attached: policy uses its own
// subject and body, claims show business/description, news shows title/body.
func MessageOf(n *Notification) Message {
	m := Message{
		ID:        n.ID,
		Sender:    n.Sender,
		Recipient: n.Recipient,
		Type:      n.Type,
		Priority:  n.Priority,
		IsRead:    n.IsRead,
		IsFlagged: n.IsFlagged,
		Timestamp: n.CreatedAt,
	}

	switch {
	case n.Policy != nil:
		m.Subject = n.Policy.Subject
		m.Body = n.Policy.Body
	case n.Claim != nil:
		m.Subject = n.Claim.Business
		m.Body = n.Claim.Description
	case n.News != nil:
		m.Subject = n.News.Title
		m.Body = n.News.Body
	}
	return m
}
