package pnotify

// InvalidArgumentError is returned when an operation
// is called with an argument that can never be valid,
// such as registering a nil handler.
type InvalidArgumentError struct {
	// The operation that rejected the argument.
	Op string

	// Why the argument was rejected.
	Reason string
}

func (e InvalidArgumentError) Error() string {
	return "invalid argument to " + e.Op + ": " + e.Reason
}
