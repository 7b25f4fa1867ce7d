package pipes

import "pipes.example/pipes/pnotify"

// InvalidArgumentError is returned from [*Pipe.Subscribe] and
// [*Pipe.SubscribeRetroactive] when the supplied handler is nil.
//
// It is an alias of the pnotify type so that errors surfaced
// through a Pipe and errors surfaced through a directly held
// [pnotify.Registry] match the same target.
type InvalidArgumentError = pnotify.InvalidArgumentError
