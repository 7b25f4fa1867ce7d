package pipes

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
)

// DefaultName is the reserved name of the default pipe,
// used whenever [*Registry.Pipe] is called with an empty name
// and no override is configured.
const DefaultName = "default"

// Registry is the factory and owner of all [Pipe] instances
// sharing one payload type.
//
// Pipes are created lazily on first access by name and memoized
// for the life of the registry, so the same name always yields
// the identical instance. Entries are never pruned;
// a pipe being emptied with [*Pipe.Trash] does not remove it.
//
// Pipe names are compared case-sensitively,
// unlike the addresses within a pipe.
//
// An application typically holds one Registry in its composition root
// and hands it to producers and consumers as their only entry point.
type Registry[T any] struct {
	log *slog.Logger

	defaultName string

	mu    sync.Mutex
	pipes map[string]*Pipe[T]
}

// RegistryConfig is the configuration passed to [NewRegistry].
type RegistryConfig struct {
	// The name to substitute when Pipe is called with an empty name.
	// If blank, [DefaultName] is used.
	DefaultName string
}

// validate panics if there are any illegal settings in the configuration.
func (c RegistryConfig) validate() {
	var panicErrs error

	if c.DefaultName != "" && strings.TrimSpace(c.DefaultName) == "" {
		panicErrs = errors.Join(
			panicErrs,
			errors.New("RegistryConfig.DefaultName must not be only whitespace"),
		)
	}

	if panicErrs != nil {
		panic(panicErrs)
	}
}

// NewRegistry returns an initialized registry with no pipes yet.
// The logger must not be nil; it is the parent of every
// per-pipe logger the registry creates.
func NewRegistry[T any](log *slog.Logger, cfg RegistryConfig) *Registry[T] {
	if log == nil {
		panic(errors.New("BUG: NewRegistry requires a non-nil logger"))
	}
	cfg.validate()

	defaultName := cfg.DefaultName
	if defaultName == "" {
		defaultName = DefaultName
	}

	return &Registry[T]{
		log: log,

		defaultName: defaultName,

		pipes: make(map[string]*Pipe[T]),
	}
}

// Pipe returns the one pipe instance for name,
// creating it on first access.
// An empty name means the registry's default pipe.
//
// Repeated calls with the same name return the identical instance,
// for as long as the registry lives.
// Create-if-absent is atomic under concurrent first access.
func (g *Registry[T]) Pipe(name string) *Pipe[T] {
	if name == "" {
		name = g.defaultName
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.pipes[name]
	if !ok {
		p = newPipe[T](g.log.With("pipe", name), name)
		g.pipes[name] = p

		g.log.Debug("Created pipe", "name", name)
	}

	return p
}

// Default returns the registry's default pipe,
// shorthand for Pipe("").
func (g *Registry[T]) Default() *Pipe[T] {
	return g.Pipe("")
}

// Names returns a snapshot of the names of every pipe
// created so far. Order is unspecified.
func (g *Registry[T]) Names() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	names := make([]string, 0, len(g.pipes))
	for n := range g.pipes {
		names = append(names, n)
	}
	return names
}
