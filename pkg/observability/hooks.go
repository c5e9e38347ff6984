// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about manifest builds, sprite generation, and cache
// operations.
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
//	    observability.SetBuildHooks(&myBuildHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Build().OnBuildStart(ctx, target, language)
//	// ... run build tasks ...
//	observability.Build().OnBuildComplete(ctx, target, language, entryCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Build Hooks
// =============================================================================

// BuildHooks receives events from the manifest build pipeline.
type BuildHooks interface {
	// Prepare events
	OnPrepareStart(ctx context.Context, target, language string)
	OnPrepareComplete(ctx context.Context, target, language string, duration time.Duration, err error)

	// Build events
	OnBuildStart(ctx context.Context, target, language string)
	OnBuildComplete(ctx context.Context, target, language string, entryCount int, duration time.Duration, err error)
}

// =============================================================================
// Sprite Hooks
// =============================================================================

// SpriteHooks receives events from sprite sheet generation.
type SpriteHooks interface {
	// OnLayoutComplete records a finished sheet layout.
	OnLayoutComplete(ctx context.Context, sheet string, sliceCount, width, height int)

	// OnWaste records wasted pixel area caused by repeat-size mismatches.
	OnWaste(ctx context.Context, sheet string, wasted int)

	// OnRenderComplete records a rendered sheet.
	OnRenderComplete(ctx context.Context, sheet string, duration time.Duration, err error)
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

// NoopBuildHooks is a no-op implementation of BuildHooks.
type NoopBuildHooks struct{}

func (NoopBuildHooks) OnPrepareStart(context.Context, string, string) {}
func (NoopBuildHooks) OnPrepareComplete(context.Context, string, string, time.Duration, error) {
}
func (NoopBuildHooks) OnBuildStart(context.Context, string, string) {}
func (NoopBuildHooks) OnBuildComplete(context.Context, string, string, int, time.Duration, error) {
}

// NoopSpriteHooks is a no-op implementation of SpriteHooks.
type NoopSpriteHooks struct{}

func (NoopSpriteHooks) OnLayoutComplete(context.Context, string, int, int, int)        {}
func (NoopSpriteHooks) OnWaste(context.Context, string, int)                           {}
func (NoopSpriteHooks) OnRenderComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	buildHooks  BuildHooks  = NoopBuildHooks{}
	spriteHooks SpriteHooks = NoopSpriteHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetBuildHooks registers custom build hooks.
// This should be called once at application startup before any builds run.
func SetBuildHooks(h BuildHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		buildHooks = h
	}
}

// SetSpriteHooks registers custom sprite hooks.
// This should be called once at application startup before any sprite passes run.
func SetSpriteHooks(h SpriteHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		spriteHooks = h
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

// Build returns the registered build hooks.
func Build() BuildHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return buildHooks
}

// Sprite returns the registered sprite hooks.
func Sprite() SpriteHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return spriteHooks
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
	buildHooks = NoopBuildHooks{}
	spriteHooks = NoopSpriteHooks{}
	cacheHooks = NoopCacheHooks{}
}
