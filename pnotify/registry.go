package pnotify

import (
	"slices"
	"strings"
	"sync"
	"unsafe"
)

// Handler is a callback observing values notified under a change type.
//
// Handlers are compared by function-value identity at registration
// and unregistration time. Each evaluation of a capturing func literal
// (including a method value) produces a distinct identity,
// so a caller intending to unregister a specific handler later
// must keep and reuse the value it registered.
type Handler[T any] func(T)

// Registry maps change-type keys to ordered lists of handlers,
// and notifies them synchronously within the notifying call.
//
// Change-type keys are case-folded before use,
// so "Status" and "status" address the same handler list.
//
// The zero value is not usable; call [NewRegistry].
type Registry[T any] struct {
	mu sync.RWMutex

	// Keys are folded change types.
	// List order is registration order.
	handlers map[string][]entry[T]
}

// entry pairs a handler with its comparison identity,
// so membership checks don't need reflection on every scan.
type entry[T any] struct {
	id uintptr
	fn Handler[T]
}

// NewRegistry returns an initialized, empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		handlers: make(map[string][]entry[T]),
	}
}

// foldKey normalizes a change type for map access.
func foldKey(changeType string) string {
	return strings.ToLower(changeType)
}

// handlerID returns the comparison identity for h.
//
// A func value is a pointer to its underlying function object,
// so reading that pointer identifies the value itself.
// reflect's Pointer would instead return the code address,
// which is shared between distinct closures of one literal
// and would merge handlers that must stay distinct.
func handlerID[T any](h Handler[T]) uintptr {
	return uintptr(*(*unsafe.Pointer)(unsafe.Pointer(&h)))
}

// Register appends h to the handler list for changeType.
// If h is already registered under changeType, Register is a no-op
// and the existing list order is preserved.
//
// A nil handler is rejected with [InvalidArgumentError].
func (r *Registry[T]) Register(changeType string, h Handler[T]) error {
	if h == nil {
		return InvalidArgumentError{
			Op:     "register",
			Reason: "handler may not be nil",
		}
	}

	key := foldKey(changeType)
	id := handlerID(h)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.handlers[key] {
		if e.id == id {
			return nil
		}
	}

	r.handlers[key] = append(r.handlers[key], entry[T]{id: id, fn: h})
	return nil
}

// IsRegistered reports whether at least one handler
// is currently registered under changeType.
func (r *Registry[T]) IsRegistered(changeType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.handlers[foldKey(changeType)]) > 0
}

// Count returns the number of handlers registered under changeType.
func (r *Registry[T]) Count(changeType string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.handlers[foldKey(changeType)])
}

// Keys returns a snapshot of the change types
// that currently have at least one handler.
// Order is unspecified.
func (r *Registry[T]) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		keys = append(keys, k)
	}
	return keys
}

// Unregister removes h from the handler list for changeType.
// Unknown keys and unregistered handlers are silent no-ops.
func (r *Registry[T]) Unregister(changeType string, h Handler[T]) {
	if h == nil {
		return
	}

	key := foldKey(changeType)
	id := handlerID(h)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeLocked(key, id)
}

// UnregisterAll removes every handler registered under changeType.
// An unknown key is a silent no-op.
func (r *Registry[T]) UnregisterAll(changeType string) {
	key := foldKey(changeType)

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.handlers, key)
}

// UnregisterHandler removes h from every change type it is
// registered under, pruning keys whose lists become empty.
func (r *Registry[T]) UnregisterHandler(h Handler[T]) {
	if h == nil {
		return
	}

	id := handlerID(h)

	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.handlers {
		r.removeLocked(key, id)
	}
}

// removeLocked deletes the entry with the given identity from key's list,
// dropping the key entirely when the list becomes empty.
// The caller must hold r.mu for writing.
func (r *Registry[T]) removeLocked(key string, id uintptr) {
	list := r.handlers[key]
	for i, e := range list {
		if e.id == id {
			list = slices.Delete(list, i, i+1)
			if len(list) == 0 {
				delete(r.handlers, key)
			} else {
				r.handlers[key] = list
			}
			return
		}
	}
}

// Reset removes every handler under every change type.
// It is intended for teardown of the registry's owner;
// there is no way to observe which handlers were discarded.
func (r *Registry[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.handlers)
}

// Notify invokes every handler registered under changeType,
// in registration order, passing v to each.
// If no handler is registered, Notify is a no-op;
// callers who need to distinguish that case use [Registry.IsRegistered].
//
// Notify iterates over a snapshot of the list taken at call time.
// A handler that registers or unregisters handlers during dispatch
// affects later Notify calls, never the in-flight pass,
// so re-entrant use of the registry is safe.
func (r *Registry[T]) Notify(changeType string, v T) {
	r.mu.RLock()
	list := slices.Clone(r.handlers[foldKey(changeType)])
	r.mu.RUnlock()

	for _, e := range list {
		e.fn(v)
	}
}
