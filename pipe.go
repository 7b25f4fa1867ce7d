package pipes

import (
	"log/slog"
	"strings"
	"sync"

	"pipes.example/pipes/pnotify"
)

// Pipe is a named channel combining synchronous delivery
// with a single retained value ("backup") per address.
//
// Sending to an address with subscribers invokes every subscriber
// within the sending call, in subscription order.
// Sending to an address with no subscribers retains the content
// as that address's backup, overwriting any previous backup.
// Live delivery never creates or modifies a backup.
//
// Addresses are case-folded at this boundary,
// so subscriptions and backups for "Status" and "status" coincide.
// Pipe names, in contrast, are case-sensitive (see [Registry]).
//
// Pipes are only obtained through [*Registry.Pipe].
// The zero value is not usable.
type Pipe[T any] struct {
	log *slog.Logger

	name string

	// Subscriptions, keyed by folded address.
	reg *pnotify.Registry[T]

	mu sync.RWMutex

	// Retained values, keyed by folded address.
	// Map membership, not content, is what "has a backup" means:
	// a retained zero value is still a backup.
	backups map[string]T
}

// newPipe is only called through a Registry,
// which is what upholds the one-instance-per-name guarantee.
func newPipe[T any](log *slog.Logger, name string) *Pipe[T] {
	return &Pipe[T]{
		log:     log,
		name:    name,
		reg:     pnotify.NewRegistry[T](),
		backups: make(map[string]T),
	}
}

// foldAddr normalizes an address the same way the
// underlying registry folds its change-type keys.
func foldAddr(address string) string {
	return strings.ToLower(address)
}

// Name returns the name this pipe was created under.
func (p *Pipe[T]) Name() string {
	return p.name
}

// Send delivers v to every subscriber of address,
// synchronously and in subscription order.
//
// If address has no subscribers, v is retained as the backup
// for address instead, overwriting any previous backup.
// When at least one subscriber is present,
// any existing backup is left untouched.
func (p *Pipe[T]) Send(address string, v T) {
	addr := foldAddr(address)

	if p.reg.IsRegistered(addr) {
		p.reg.Notify(addr, v)
		return
	}

	p.mu.Lock()
	_, overwrote := p.backups[addr]
	p.backups[addr] = v
	p.mu.Unlock()

	p.log.Debug(
		"Retained backup for unsubscribed address",
		"address", addr,
		"overwrote", overwrote,
	)
}

// Subscribe registers h for content sent to address.
// Subscribing the same handler twice is a no-op,
// and the handler still receives each send exactly once.
//
// Subscribe never delivers a backup;
// use [*Pipe.SubscribeRetroactive] for that.
//
// A nil handler is rejected with [InvalidArgumentError].
func (p *Pipe[T]) Subscribe(address string, h pnotify.Handler[T]) error {
	return p.reg.Register(foldAddr(address), h)
}

// SubscribeRetroactive registers h for address like [*Pipe.Subscribe],
// then, if a backup exists for address,
// invokes h once with the backup and deletes it.
// The retroactive delivery happens within this call.
func (p *Pipe[T]) SubscribeRetroactive(address string, h pnotify.Handler[T]) error {
	if err := p.Subscribe(address, h); err != nil {
		return err
	}

	addr := foldAddr(address)

	p.mu.Lock()
	v, ok := p.backups[addr]
	if ok {
		delete(p.backups, addr)
	}
	p.mu.Unlock()

	if !ok {
		return nil
	}

	p.log.Debug("Delivering backup retroactively", "address", addr)
	h(v)
	return nil
}

// Unsubscribe removes h from address only.
// Unknown addresses and unsubscribed handlers are silent no-ops.
func (p *Pipe[T]) Unsubscribe(address string, h pnotify.Handler[T]) {
	p.reg.Unregister(foldAddr(address), h)
}

// UnsubscribeAll removes every subscriber from address.
func (p *Pipe[T]) UnsubscribeAll(address string) {
	p.reg.UnregisterAll(foldAddr(address))
}

// UnsubscribeHandler removes h from every address it is subscribed to.
func (p *Pipe[T]) UnsubscribeHandler(h pnotify.Handler[T]) {
	p.reg.UnregisterHandler(h)
}

// HasBackup reports whether a backup is currently retained for address.
// Presence of the slot is what is tested, not its content;
// a retained zero value reports true.
func (p *Pipe[T]) HasBackup(address string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	_, ok := p.backups[foldAddr(address)]
	return ok
}

// Backup returns the retained value for address without deleting it.
// The second return value reports whether a backup was present;
// when false, the first return value is the zero value of T.
func (p *Pipe[T]) Backup(address string) (T, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	v, ok := p.backups[foldAddr(address)]
	return v, ok
}

// DeleteBackup removes the backup for address, if any.
func (p *Pipe[T]) DeleteBackup(address string) {
	addr := foldAddr(address)

	p.mu.Lock()
	_, ok := p.backups[addr]
	delete(p.backups, addr)
	p.mu.Unlock()

	if ok {
		p.log.Debug("Deleted backup", "address", addr)
	}
}

// Addresses returns a snapshot of the addresses
// currently holding a backup. Order is unspecified.
func (p *Pipe[T]) Addresses() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	addrs := make([]string, 0, len(p.backups))
	for a := range p.backups {
		addrs = append(addrs, a)
	}
	return addrs
}

// Trash clears every backup and every subscription on this pipe,
// across all addresses, preparing it for disposal.
// The pipe itself remains usable afterward:
// nothing prevents a later Send or Subscribe from repopulating it,
// and the pipe stays reachable through its registry.
func (p *Pipe[T]) Trash() {
	p.mu.Lock()
	clear(p.backups)
	p.mu.Unlock()

	p.reg.Reset()

	p.log.Debug("Trashed pipe", "name", p.name)
}
