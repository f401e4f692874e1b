// Package observability provides hooks for progress reporting and request
// tracing.
//
// Libraries emit events through the registered hooks and never depend on
// how they are consumed. The CLI registers hooks at startup, for example to
// show lookup progress in its spinner or to log every repository request
// when running verbosely.
//
// # Usage
//
// Register hooks before running a resolution pass:
//
//	observability.SetResolveHooks(&progress{})
//	defer observability.Reset()
//
// Libraries call hooks to emit events:
//
//	observability.Resolve().OnLookupStart(ctx, alias, coord, i, total)
//	// ... query repositories ...
//	observability.Resolve().OnLookupComplete(ctx, alias, coord, n, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Resolve Hooks
// =============================================================================

// ResolveHooks receives events from a resolution pass.
type ResolveHooks interface {
	// OnLookupStart is called before the repositories are queried for the
	// entry at index (zero-based) out of total.
	OnLookupStart(ctx context.Context, alias, coordinate string, index, total int)

	// OnLookupComplete reports how many versions were published for the entry.
	OnLookupComplete(ctx context.Context, alias, coordinate string, versions int, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from repository HTTP requests.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records a request that got no response (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopResolveHooks is a no-op implementation of ResolveHooks.
type NoopResolveHooks struct{}

func (NoopResolveHooks) OnLookupStart(context.Context, string, string, int, int) {}
func (NoopResolveHooks) OnLookupComplete(context.Context, string, string, int, time.Duration, error) {
}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	resolveHooks ResolveHooks = NoopResolveHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetResolveHooks registers custom resolve hooks. A nil h is ignored.
func SetResolveHooks(h ResolveHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		resolveHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Resolve returns the registered resolve hooks.
func Resolve() ResolveHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return resolveHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	resolveHooks = NoopResolveHooks{}
	httpHooks = NoopHTTPHooks{}
}
