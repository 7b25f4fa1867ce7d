// Package pipes contains the core APIs for an in-process,
// synchronous publish/subscribe bus.
//
// A [Pipe] is a named channel of communication:
// producers send content to a string address on the pipe
// without knowing who, if anyone, is listening,
// and consumers subscribe to an address
// without knowing who sends to it.
// Delivery is fully synchronous;
// every handler for an address runs within the sending call.
//
// When content is sent to an address with no subscribers,
// the pipe retains it as that address's "backup",
// which a later consumer can inspect with [*Pipe.Backup]
// or consume once via [*Pipe.SubscribeRetroactive].
//
// Pipes are never constructed directly.
// A [Registry] owns the mapping from pipe names to instances
// and guarantees that one name always yields one instance.
package pipes
