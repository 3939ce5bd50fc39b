package storage

import (
	"context"
	"fmt"
	"sync"
)

type factory func(ctx context.Context, cfg Config) (Sink, error)

var (
	mu        sync.RWMutex
	factories = map[string]factory{}
)

// Register registers a sink backend under a kind (e.g. "mysql", "sqlite").
//
// Call Register from an init() function in a backend package. Registering an
// empty kind, a nil factory, or the same kind twice panics: backend selection
// must fail fast rather than stay ambiguous.
func Register(kind string, f factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("storage: Register called with empty kind")
	}
	if f == nil {
		panic("storage: Register called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("storage: factory already registered for kind=%q", kind))
	}
	factories[kind] = f
}

// New constructs a Sink using the registered backend factory for cfg.Kind.
//
// Safe for concurrent use with Register; New takes a read lock while
// selecting the factory.
func New(ctx context.Context, cfg Config) (Sink, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("storage: missing kind")
	}

	mu.RLock()
	f := factories[cfg.Kind]
	mu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("unsupported storage kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}
