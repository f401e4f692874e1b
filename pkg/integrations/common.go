package integrations

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/gvc/pkg/buildinfo"
)

// DefaultTimeout bounds a single metadata request.
const DefaultTimeout = 30 * time.Second

var (
	// ErrNotFound is returned when a resource doesn't exist in the repository.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrMalformed is returned when a response body cannot be decoded.
	ErrMalformed = errors.New("malformed response")
)

// NewHTTPClient creates an HTTP client with the given request timeout.
// A non-positive timeout uses [DefaultTimeout].
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// DefaultHeaders returns the headers sent with every metadata request.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"User-Agent": buildinfo.UserAgent(),
		"Accept":     "application/xml, text/xml;q=0.9, */*;q=0.1",
	}
}

// JoinURL joins a repository base URL and a relative path with exactly one
// slash between them.
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
