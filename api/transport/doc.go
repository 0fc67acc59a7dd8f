// Package transport defines the abstraction that glues the interactive
// identification protocol to the underlying network.
//
// The core interface is Messenger, which provides the minimal primitives
// the three-move handshake needs:
//
//	MessageSend(ctx, receiver, data)
//	MessageReceive(ctx, sender)
//	MessagesReceive(ctx, senders)
//
// A Messenger implementation does not care about protocol details - it
// simply delivers opaque byte slices between numbered parties. Timeouts
// and retries are the transport's concern; the protocol core never
// performs I/O of its own.
//
// Two implementations ship with the repository:
//
//   - mocknet - an in-process, deterministic transport ideal for tests
//   - mtls    - a TCP transport using mutual TLS for authentication and
//     encryption
//
// Callers with other deployment needs (gRPC, message queues, ...) can
// supply their own Messenger; schnorr.RunProver and schnorr.RunVerifier
// work with any of them.
package transport
