// Package notify defines the transactional email gateway. Sending is always
// best-effort from the caller's point of view: a failed email never fails a
// registration that already persisted.
package notify

import "context"

// Recipient identifies one mailbox.
type Recipient struct {
	Email string
	Name  string
}

// Attachment is an optional binary payload, e.g. the roster spreadsheet.
type Attachment struct {
	Filename string
	Content  []byte
}

// Message is one outbound transactional email.
type Message struct {
	To         Recipient
	Subject    string
	HTMLBody   string
	Attachment *Attachment
}

// Sender delivers a message to its recipient.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
