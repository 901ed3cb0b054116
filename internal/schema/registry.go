package schema

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[string]Layout)
	registryMu sync.RWMutex
)

func init() {
	Register(V1)
}

// Register adds a layout to the registry.
// Panics if a layout with the same version is already registered.
func Register(l Layout) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if l.Version == "" {
		panic("schema: layout version is empty")
	}
	if _, exists := registry[l.Version]; exists {
		panic(fmt.Sprintf("layout already registered: %s", l.Version))
	}
	for _, c := range l.MetadataCells() {
		if c.Row < 0 || c.Col < 0 {
			panic(fmt.Sprintf("layout %s: negative metadata cell %+v", l.Version, c))
		}
	}

	registry[l.Version] = l
}

// Get returns a layout by version.
// Returns false if not found.
func Get(version string) (Layout, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	l, ok := registry[version]
	return l, ok
}

// Lookup is like Get but returns an error naming the known versions.
func Lookup(version string) (Layout, error) {
	if l, ok := Get(version); ok {
		return l, nil
	}
	return Layout{}, fmt.Errorf("unknown sheet layout %q (known: %v)", version, Versions())
}

// Versions returns all registered layout versions, sorted.
func Versions() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	versions := make([]string, 0, len(registry))
	for v := range registry {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}
