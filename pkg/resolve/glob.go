package resolve

import (
	"regexp"
	"strings"

	"github.com/matzehuels/gvc/pkg/errors"
)

// Matcher is a compiled alias glob. '*' matches any run of characters and
// '?' matches exactly one. Matching is case-insensitive and anchored.
type Matcher struct {
	pattern string
	re      *regexp.Regexp
}

// CompileGlob compiles pattern once. A pattern with no wildcard matches
// aliases containing it, as if written "*pattern*".
func CompileGlob(pattern string) (*Matcher, error) {
	p := strings.TrimSpace(pattern)
	if p == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "filter pattern cannot be empty")
	}
	if !strings.ContainsAny(p, "*?") {
		p = "*" + p + "*"
	}

	var b strings.Builder
	b.WriteString(`(?i)^`)
	for _, r := range p {
		switch r {
		case '*':
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString(`$`)

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid filter pattern %q", pattern)
	}
	return &Matcher{pattern: p, re: re}, nil
}

// Match reports whether alias matches. A nil Matcher matches everything.
func (m *Matcher) Match(alias string) bool {
	return m == nil || m.re.MatchString(alias)
}

// String returns the effective pattern.
func (m *Matcher) String() string {
	if m == nil {
		return "*"
	}
	return m.pattern
}
