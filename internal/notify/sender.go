package notify

import (
	"context"
	"errors"
)

// ErrNoRecipient means the payload lacks the address a channel needs.
var ErrNoRecipient = errors.New("recipient has no address for channel")

// ErrChannelDisabled means the channel has no configured provider.
var ErrChannelDisabled = errors.New("channel is not configured")

type Message struct {
	Channel Channel
	To      Recipient
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, msg Message) error

func (f SenderFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}
