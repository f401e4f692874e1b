package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// shellMeta lists characters rejected in paths handed to external processes.
const shellMeta = ";&|$`<>\"'*?!(){}[]"

// ValidatePath validates a filesystem path before it is passed to git.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No shell metacharacters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if i := strings.IndexAny(path, shellMeta); i >= 0 {
		return New(ErrCodeInvalidPath, "path contains invalid character %q", path[i])
	}

	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}

// ValidateURL validates a repository URL string.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme: %q", rawURL)
	}

	return nil
}

// coordinatePartRegex matches Maven group ids, artifact ids and plugin ids.
var coordinatePartRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9._-]*$`)

// ValidateCoordinatePart validates one component of a dependency coordinate.
func ValidateCoordinatePart(kind, value string) error {
	if value == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", kind)
	}
	if len(value) > 256 {
		return New(ErrCodeInvalidInput, "%s too long (max 256 characters)", kind)
	}
	if !coordinatePartRegex.MatchString(value) {
		return New(ErrCodeInvalidInput, "invalid %s: %q", kind, value)
	}
	return nil
}

// aliasRegex matches catalog aliases accepted by Gradle.
var aliasRegex = regexp.MustCompile(`^[a-z][a-z0-9._-]*$`)

// ValidateAlias validates a user-supplied catalog alias.
func ValidateAlias(alias string) error {
	if alias == "" {
		return New(ErrCodeInvalidInput, "alias cannot be empty")
	}
	if !aliasRegex.MatchString(alias) {
		return New(ErrCodeInvalidInput, "invalid alias %q (must start with a lowercase letter and contain only a-z, 0-9, '.', '_' or '-')", alias)
	}
	return nil
}
