package transport

import "context"

// Messenger is the data-transport contract used to carry the interactive
// identification protocol between its roles. Implementations deliver
// opaque byte buffers between numbered parties and know nothing about the
// protocol messages themselves.
type Messenger interface {
	// MessageSend sends a message buffer to the specified receiver party.
	MessageSend(ctx context.Context, receiver int, buffer []byte) error

	// MessageReceive blocks until a message from the specified sender
	// party is available and returns it.
	MessageReceive(ctx context.Context, sender int) ([]byte, error)

	// MessagesReceive receives messages from multiple sender parties. It
	// waits until all messages are ready and returns them in the same
	// order as the provided senders slice.
	MessagesReceive(ctx context.Context, senders []int) ([][]byte, error)
}
