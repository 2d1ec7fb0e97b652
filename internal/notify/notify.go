package notify

import "context"

// Message is one outbound notification. Text is ready to display; ImageURL
// optionally attaches a product picture.
type Message struct {
	Text     string
	ImageURL string
}

// Notifier delivers messages to the user. Fire and forget: callers log
// delivery errors but never fail a monitoring cycle on them.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Nop discards messages. Used when no notification channel is configured.
type Nop struct{}

func (Nop) Send(context.Context, Message) error { return nil }
