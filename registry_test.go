package pipes_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"pipes.example/pipes"
	"pipes.example/pipes/internal/ptest"
	"pipes.example/pipes/pipestest"
)

func TestRegistry_sameNameSameInstance(t *testing.T) {
	t.Parallel()

	g := pipestest.NewRegistry[string](t, pipes.RegistryConfig{})

	p1 := g.Pipe("metrics")
	p2 := g.Pipe("metrics")

	require.Same(t, p1, p2)
}

func TestRegistry_distinctNamesDistinctInstances(t *testing.T) {
	t.Parallel()

	g := pipestest.NewRegistry[string](t, pipes.RegistryConfig{})

	a := g.Pipe("a")
	b := g.Pipe("b")

	require.NotSame(t, a, b)

	// Traffic on one pipe is invisible to the other.
	a.Send("addr", "v")
	require.True(t, a.HasBackup("addr"))
	require.False(t, b.HasBackup("addr"))
}

func TestRegistry_namesAreCaseSensitive(t *testing.T) {
	t.Parallel()

	g := pipestest.NewRegistry[string](t, pipes.RegistryConfig{})

	require.NotSame(t, g.Pipe("Main"), g.Pipe("main"))
}

func TestRegistry_defaultPipe(t *testing.T) {
	t.Parallel()

	t.Run("empty name means the reserved default", func(t *testing.T) {
		t.Parallel()

		g := pipestest.NewRegistry[string](t, pipes.RegistryConfig{})

		require.Same(t, g.Default(), g.Pipe(""))
		require.Same(t, g.Default(), g.Pipe(pipes.DefaultName))
		require.Equal(t, pipes.DefaultName, g.Default().Name())
	})

	t.Run("configured override", func(t *testing.T) {
		t.Parallel()

		g := pipestest.NewRegistry[string](t, pipes.RegistryConfig{
			DefaultName: "public",
		})

		require.Same(t, g.Default(), g.Pipe("public"))
		require.Equal(t, "public", g.Default().Name())
		require.NotSame(t, g.Default(), g.Pipe(pipes.DefaultName))
	})
}

func TestRegistry_trashedPipeStaysRegistered(t *testing.T) {
	t.Parallel()

	g := pipestest.NewRegistry[string](t, pipes.RegistryConfig{})

	p := g.Pipe("work")
	p.Send("addr", "v")
	p.Trash()

	require.Same(t, p, g.Pipe("work"), "trashing must not evict the instance")
	require.Contains(t, g.Names(), "work")
}

func TestRegistry_Names(t *testing.T) {
	t.Parallel()

	g := pipestest.NewRegistry[string](t, pipes.RegistryConfig{})

	require.Empty(t, g.Names())

	g.Pipe("a")
	g.Pipe("b")
	g.Default()

	require.ElementsMatch(t, []string{"a", "b", pipes.DefaultName}, g.Names())
}

func TestRegistry_concurrentFirstAccess(t *testing.T) {
	t.Parallel()

	g := pipestest.NewRegistry[int](t, pipes.RegistryConfig{})

	const goroutines = 32

	var wg sync.WaitGroup
	got := make([]*pipes.Pipe[int], goroutines)

	for i := range got {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = g.Pipe("contended")
		}()
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		require.Same(t, got[0], got[i])
	}
}

func TestNewRegistry_panicsOnNilLogger(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		pipes.NewRegistry[string](nil, pipes.RegistryConfig{})
	})
}

func TestNewRegistry_panicsOnWhitespaceDefaultName(t *testing.T) {
	t.Parallel()

	log := ptest.NewLogger(t)

	require.Panics(t, func() {
		pipes.NewRegistry[string](log, pipes.RegistryConfig{
			DefaultName: "   ",
		})
	})
}
