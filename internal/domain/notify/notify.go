package notify

import "context"

// Message is a plain-text mail addressed to a single recipient.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender performs one delivery attempt.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher accepts messages for best-effort delivery after the
// caller's state change has already committed. Enqueue never reports
// delivery failure to the caller.
type Dispatcher interface {
	Enqueue(ctx context.Context, msg Message)
}
