// Package pipestest provides helpers for tests that exercise
// the pipes bus, whether in this module or in applications using it.
package pipestest

import (
	"testing"

	"pipes.example/pipes"
	"pipes.example/pipes/internal/ptest"
	"pipes.example/pipes/pnotify"
)

// Recorder accumulates every payload delivered to its Handler,
// in delivery order.
type Recorder[T any] struct {
	// The handler to subscribe.
	// Its identity is fixed for the life of the recorder,
	// so the same recorder can be unsubscribed again,
	// and two recorders never collide with each other.
	Handler pnotify.Handler[T]

	// The payloads received so far.
	Received []T
}

// NewRecorder returns an initialized recorder.
func NewRecorder[T any]() *Recorder[T] {
	r := new(Recorder[T])
	r.Handler = func(v T) {
		r.Received = append(r.Received, v)
	}
	return r
}

// NewRegistry returns a pipe registry whose log output
// is associated with t.
func NewRegistry[T any](t *testing.T, cfg pipes.RegistryConfig) *pipes.Registry[T] {
	t.Helper()

	return pipes.NewRegistry[T](ptest.NewLogger(t), cfg)
}
