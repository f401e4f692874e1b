package version

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Kind identifies how a version literal was parsed.
type Kind int

const (
	// AdHoc is an opaque literal with no recognizable numeric structure.
	AdHoc Kind = iota
	// Semantic is a major.minor.patch version with an optional pre-release tag.
	Semantic
	// Numeric is a plain dot-separated list of integers such as "1.0" or "2.0.0.1".
	Numeric
	// Snapshot is a base version carrying the "-SNAPSHOT" marker.
	Snapshot
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case Semantic:
		return "semantic"
	case Numeric:
		return "numeric"
	case Snapshot:
		return "snapshot"
	default:
		return "adhoc"
	}
}

const snapshotSuffix = "-snapshot"

var (
	numericRegex = regexp.MustCompile(`^\d+(\.\d+)*$`)
	// releaseRegex captures the leading release digits and whatever qualifier follows.
	releaseRegex = regexp.MustCompile(`^(\d+(?:\.\d+)*)[-._+]?(.*)$`)
)

// Version is an immutable parsed version literal.
//
// The zero value is an empty AdHoc version.
type Version struct {
	raw       string
	kind      Kind
	release   []uint64 // Numeric segments; nil for AdHoc
	qualifier string   // Lower-cased pre-release or qualifier text; empty when absent
	snapshot  bool
}

// Parse parses raw into a Version. It never fails: literals that match no
// known structure become AdHoc.
//
// Recognition order is snapshot marker, strict semantic version, plain
// numeric, release digits followed by a qualifier, then ad hoc.
func Parse(raw string) Version {
	s := strings.TrimSpace(raw)
	v := Version{raw: raw}

	if len(s) > len(snapshotSuffix) && strings.HasSuffix(strings.ToLower(s), snapshotSuffix) {
		base := Parse(s[:len(s)-len(snapshotSuffix)])
		v.kind = Snapshot
		v.release = base.release
		v.qualifier = base.qualifier
		v.snapshot = true
		return v
	}

	if sv, err := semver.StrictNewVersion(s); err == nil {
		v.kind = Semantic
		v.release = []uint64{sv.Major(), sv.Minor(), sv.Patch()}
		v.qualifier = strings.ToLower(sv.Prerelease())
		return v
	}

	if numericRegex.MatchString(s) {
		v.kind = Numeric
		v.release = parseSegments(s)
		if v.release != nil {
			return v
		}
	}

	// Gradle ecosystems routinely publish "1.0-rc1", "2.3.4.Final" or
	// "1.2.3.4-beta". Keep their release segments so they order against
	// semantic neighbours instead of falling into the lexicographic path.
	if m := releaseRegex.FindStringSubmatch(s); m != nil && m[2] != "" && isQualifier(m[2]) {
		if release := parseSegments(m[1]); release != nil {
			v.kind = Semantic
			v.release = release
			v.qualifier = strings.ToLower(m[2])
			return v
		}
	}

	v.kind = AdHoc
	v.release = nil
	return v
}

// isQualifier reports whether q looks like a version qualifier rather than
// arbitrary trailing text.
func isQualifier(q string) bool {
	if q == "" {
		return false
	}
	c := q[0]
	if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
		return false
	}
	for i := 0; i < len(q); i++ {
		c := q[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		case c == '-', c == '.', c == '_', c == '+':
		default:
			return false
		}
	}
	return true
}

func parseSegments(s string) []uint64 {
	parts := strings.Split(s, ".")
	out := make([]uint64, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil
		}
		out[i] = n
	}
	return out
}

// String returns the raw literal.
func (v Version) String() string { return v.raw }

// Raw returns the literal the version was parsed from.
func (v Version) Raw() string { return v.raw }

// Kind returns how the literal was parsed.
func (v Version) Kind() Kind { return v.kind }

// Release returns a copy of the numeric release segments.
func (v Version) Release() []uint64 {
	if v.release == nil {
		return nil
	}
	out := make([]uint64, len(v.release))
	copy(out, v.release)
	return out
}

// Qualifier returns the lower-cased pre-release or qualifier text.
func (v Version) Qualifier() string { return v.qualifier }

// IsSnapshot reports whether the literal carries the SNAPSHOT marker.
func (v Version) IsSnapshot() bool { return v.snapshot }

// Stability classifies the version. It is shorthand for [Classify].
func (v Version) Stability() Stability { return Classify(v) }
