package crawler

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ozanunsal/hikmet-crawler/internal/config"
	"github.com/ozanunsal/hikmet-crawler/internal/record"
)

// Factory instantiates a crawler for one source configuration.
type Factory func(src config.Source, deps Deps, opts Options) (Crawler, error)

// NotRegisteredError is returned when no crawler exists for a kind.
type NotRegisteredError struct {
	Kind record.Kind
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("no crawler registered for kind %q", e.Kind)
}

type registryKey struct {
	kind   record.Kind
	source string
}

// Registry maps (kind, optional source name) to crawler factories. Entries
// registered without a source name act as the default for their kind. The
// registry is an explicit object built once at process start and passed to
// the dispatcher, not a package-level map.
type Registry struct {
	mu      sync.RWMutex
	entries map[registryKey]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[registryKey]Factory)}
}

// Register adds the default factory for a kind. Re-registering replaces the
// previous entry, making discovery idempotent.
func (r *Registry) Register(kind record.Kind, factory Factory) {
	r.register(kind, "", factory)
}

// RegisterForSource adds a factory bound to a specific source name,
// shadowing the kind default for that source.
func (r *Registry) RegisterForSource(kind record.Kind, sourceName string, factory Factory) {
	r.register(kind, sourceName, factory)
}

func (r *Registry) register(kind record.Kind, sourceName string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[registryKey{kind: kind, source: normalizeSource(sourceName)}] = factory
}

// Resolve returns the factory for the (kind, source name) pair, falling back
// to the kind default when no source-specific entry exists.
func (r *Registry) Resolve(kind record.Kind, sourceName string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if factory, ok := r.entries[registryKey{kind: kind, source: normalizeSource(sourceName)}]; ok {
		return factory, nil
	}
	if factory, ok := r.entries[registryKey{kind: kind}]; ok {
		return factory, nil
	}
	return nil, &NotRegisteredError{Kind: kind}
}

// Create resolves and instantiates a crawler for the source.
func (r *Registry) Create(src config.Source, deps Deps, opts Options) (Crawler, error) {
	factory, err := r.Resolve(src.Kind, src.Name)
	if err != nil {
		return nil, err
	}
	return factory(src, deps, opts)
}

func normalizeSource(sourceName string) string {
	return strings.ToLower(strings.TrimSpace(sourceName))
}
