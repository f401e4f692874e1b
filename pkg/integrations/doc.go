// Package integrations provides the HTTP plumbing for repository clients.
//
// # Overview
//
// The [Client] type performs GET requests with default headers and a retry
// policy from [httputil]. Transient failures (connection errors, 429 and
// 5xx responses) are retried; a 404 is reported as [ErrNotFound] on the
// first attempt so callers can move on to the next repository.
//
// Repository-specific clients live in subpackages:
//
//   - [maven]: maven-metadata.xml lookups against Maven-layout repositories
//     (Maven Central, Google, the Gradle Plugin Portal, custom URLs)
//
// # Errors
//
// Errors wrap one of the sentinels [ErrNotFound], [ErrNetwork] or
// [ErrMalformed] with %w, so callers test them with errors.Is.
//
// [maven]: github.com/matzehuels/gvc/pkg/integrations/maven
// [httputil]: github.com/matzehuels/gvc/pkg/httputil
package integrations
