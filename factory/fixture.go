package factory

import (
	"context"

	"golang.org/x/exp/maps"
)

// Generator produces fixtures from the defaults captured by Build.
// Overrides are applied left to right, so later overrides win.
type Generator[K comparable, V any] func(overrides ...map[K]V) map[K]V

// Build returns a Generator whose every call yields a new map holding the defaults,
// with the entries of the overrides replacing or adding keys.
// The merge is shallow: nested values are shared with the inputs, not copied.
func Build[K comparable, V any](defaults map[K]V) Generator[K, V] {
	// the caller keeps its map, later writes to it must not leak into fixtures.
	snapshot := make(map[K]V, len(defaults))
	maps.Copy(snapshot, defaults)
	return func(overrides ...map[K]V) map[K]V {
		size := len(snapshot)
		for _, override := range overrides {
			size += len(override)
		}
		fixture := make(map[K]V, size)
		maps.Copy(fixture, snapshot)
		for _, override := range overrides {
			maps.Copy(fixture, override)
		}
		return fixture
	}
}

// Create implements Factory.
func (g Generator[K, V]) Create(_ context.Context, overrides map[K]V) (map[K]V, error) {
	return g(overrides), nil
}

// Build implements builder.Builder and returns a copy of the defaults.
func (g Generator[K, V]) Build(_ context.Context) (map[K]V, error) {
	return g(), nil
}
