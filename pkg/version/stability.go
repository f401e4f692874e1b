package version

import (
	"regexp"
	"strings"
)

// Stability is the release-grade classification of a version literal.
// The zero value is Stable.
type Stability struct {
	// Token is the unstable marker that matched, e.g. "beta" or "rc".
	// Empty means the version is stable.
	Token string
}

// Stable is the classification of release-grade versions.
var Stable = Stability{}

// Unstable returns the classification for a pre-release marked by token.
func Unstable(token string) Stability {
	return Stability{Token: strings.ToLower(token)}
}

// IsStable reports whether no unstable token matched.
func (s Stability) IsStable() bool { return s.Token == "" }

// String returns "stable" or "unstable(<token>)".
func (s Stability) String() string {
	if s.IsStable() {
		return "stable"
	}
	return "unstable(" + s.Token + ")"
}

// MarshalText encodes the stability for JSON and YAML reports.
func (s Stability) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var (
	leadingReleaseRegex = regexp.MustCompile(`^\d+(\.\d+)*`)
	unstableTokenRegex  = regexp.MustCompile(`^(alpha|beta|rc|cr|milestone|m|dev|snapshot|preview|ea|eap|pre)\d*$`)
)

// Classify scans the literal after its leading numeric portion for an
// unstable token. Tokens match case-insensitively as a whole segment
// delimited by '-', '.', '_' or '+', optionally followed by digits.
// A SNAPSHOT version is always Unstable("snapshot").
func Classify(v Version) Stability {
	if v.snapshot {
		return Unstable("snapshot")
	}
	rest := leadingReleaseRegex.ReplaceAllString(strings.ToLower(strings.TrimSpace(v.raw)), "")
	for _, seg := range splitQualifier(rest) {
		if m := unstableTokenRegex.FindStringSubmatch(seg); m != nil {
			return Unstable(m[1])
		}
	}
	return Stable
}

// ClassifyString parses and classifies raw in one step.
func ClassifyString(raw string) Stability {
	return Classify(Parse(raw))
}

func splitQualifier(q string) []string {
	return strings.FieldsFunc(q, func(r rune) bool {
		return r == '-' || r == '.' || r == '_' || r == '+'
	})
}
