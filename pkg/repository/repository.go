// Package repository describes the Maven-layout repositories that publish
// dependency and plugin metadata, and selects which of them to query for a
// given coordinate.
package repository

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/matzehuels/gvc/pkg/errors"
)

// Kind identifies a well-known repository or a custom one.
type Kind int

const (
	Custom Kind = iota
	MavenCentral
	Google
	PluginPortal
)

// Well-known repository base URLs.
const (
	MavenCentralURL = "https://repo.maven.apache.org/maven2"
	GoogleURL       = "https://dl.google.com/dl/android/maven2"
	PluginPortalURL = "https://plugins.gradle.org/m2"
	JCenterURL      = "https://jcenter.bintray.com"
)

var kindNames = map[Kind]string{
	Custom:       "custom",
	MavenCentral: "maven-central",
	Google:       "google",
	PluginPortal: "plugin-portal",
}

// String returns the kebab-case kind name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes a kind name. Unknown names are an error.
func (k *Kind) UnmarshalText(b []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(b)))
	for kind, s := range kindNames {
		if s == name {
			*k = kind
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidInput, "unknown repository kind %q", name)
}

// Descriptor is one configured repository.
//
// Include patterns are regular expressions matched against the full group
// id, as Gradle's includeGroupByRegex does. A descriptor without patterns
// accepts every group its kind allows.
type Descriptor struct {
	Name    string
	BaseURL string
	Kind    Kind

	patterns []string
	compiled []*regexp.Regexp
}

// New creates a descriptor, compiling its include patterns once.
func New(name, baseURL string, kind Kind, include ...string) (Descriptor, error) {
	d := Descriptor{
		Name:    name,
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Kind:    kind,
	}
	if err := errors.ValidateURL(d.BaseURL); err != nil {
		return Descriptor{}, err
	}
	for _, p := range include {
		re, err := regexp.Compile(`^(?:` + p + `)$`)
		if err != nil {
			return Descriptor{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "repository %s: invalid include pattern %q", name, p)
		}
		d.patterns = append(d.patterns, p)
		d.compiled = append(d.compiled, re)
	}
	return d, nil
}

// MustNew is like [New] but panics on error. Intended for built-in descriptors.
func MustNew(name, baseURL string, kind Kind, include ...string) Descriptor {
	d, err := New(name, baseURL, kind, include...)
	if err != nil {
		panic(err)
	}
	return d
}

// Patterns returns the include patterns as declared.
func (d Descriptor) Patterns() []string {
	return append([]string(nil), d.patterns...)
}

// WithPatterns returns a copy of d with additional include patterns.
func (d Descriptor) WithPatterns(include ...string) (Descriptor, error) {
	return New(d.Name, d.BaseURL, d.Kind, append(d.Patterns(), include...)...)
}

// HasPatterns reports whether the descriptor declares include patterns.
func (d Descriptor) HasPatterns() bool { return len(d.compiled) > 0 }

// Accepts reports whether group matches one of the include patterns.
// Descriptors without patterns accept everything.
func (d Descriptor) Accepts(group string) bool {
	if len(d.compiled) == 0 {
		return true
	}
	for _, re := range d.compiled {
		if re.MatchString(group) {
			return true
		}
	}
	return false
}

// Key returns the normalized URL used to deduplicate descriptors.
func (d Descriptor) Key() string {
	return strings.ToLower(strings.TrimRight(d.BaseURL, "/"))
}

// String returns "name (url)".
func (d Descriptor) String() string {
	return fmt.Sprintf("%s (%s)", d.Name, d.BaseURL)
}

// KindForURL classifies a repository URL by host.
func KindForURL(u string) Kind {
	lower := strings.ToLower(u)
	switch {
	case strings.Contains(lower, "repo.maven.apache.org"), strings.Contains(lower, "repo1.maven.org"):
		return MavenCentral
	case strings.Contains(lower, "dl.google.com"), strings.Contains(lower, "maven.google.com"):
		return Google
	case strings.Contains(lower, "plugins.gradle.org"):
		return PluginPortal
	default:
		return Custom
	}
}
