// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers can register
// hooks at startup to receive events about corpus runs and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCorpusHooks(&myCorpusHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Corpus().OnDocumentStart(ctx, path)
//	// ... run checks ...
//	observability.Corpus().OnDocumentComplete(ctx, path, passed, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Corpus Hooks
// =============================================================================

// CorpusHooks receives events from corpus conformance runs.
type CorpusHooks interface {
	// Run events
	OnRunStart(ctx context.Context, corpusRoot string, documents int)
	OnRunComplete(ctx context.Context, corpusRoot string, failed int, duration time.Duration)

	// Per-document events
	OnDocumentStart(ctx context.Context, path string)
	OnDocumentComplete(ctx context.Context, path string, passed bool, duration time.Duration)

	// OnCycleFound records a detected reference cycle.
	OnCycleFound(ctx context.Context, path string, cycle []string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCorpusHooks is a no-op implementation of CorpusHooks.
type NoopCorpusHooks struct{}

func (NoopCorpusHooks) OnRunStart(context.Context, string, int)                     {}
func (NoopCorpusHooks) OnRunComplete(context.Context, string, int, time.Duration)   {}
func (NoopCorpusHooks) OnDocumentStart(context.Context, string)                     {}
func (NoopCorpusHooks) OnDocumentComplete(context.Context, string, bool, time.Duration) {
}
func (NoopCorpusHooks) OnCycleFound(context.Context, string, []string) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	corpusHooks CorpusHooks = NoopCorpusHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetCorpusHooks registers custom corpus hooks.
// This should be called once at application startup before any runs.
func SetCorpusHooks(h CorpusHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		corpusHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Corpus returns the registered corpus hooks.
func Corpus() CorpusHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return corpusHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	corpusHooks = NoopCorpusHooks{}
	cacheHooks = NoopCacheHooks{}
}
