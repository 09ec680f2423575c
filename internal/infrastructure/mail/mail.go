package mail

import (
	"context"
	"errors"
)

// ErrNoRecipients is returned when a message has nobody to go to.
var ErrNoRecipients = errors.New("mail: message has no recipients")

// Message is a single rendered email.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Sender delivers rendered messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
