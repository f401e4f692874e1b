// Package httputil provides retry helpers for repository metadata clients.
//
// [Retry] re-runs an operation while it fails with a [RetryableError],
// doubling the delay between attempts:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return fetch(ctx, url)
//	})
//
// Clients mark transient failures (connection errors, 5xx and 429
// responses) as retryable. Anything else, including 404, fails on the first
// attempt. A [Policy] bundles the attempt count and initial delay so it can
// be carried in configuration.
package httputil
