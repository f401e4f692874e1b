package version

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Qualifier ranks. Unknown qualifiers such as "jre" or "android" sort
// between snapshots and plain releases.
const (
	rankDev = iota
	rankAlpha
	rankBeta
	rankMilestone
	rankRC
	rankSnapshot
	rankUnknown
	rankStable
)

var qualifierRanks = map[string]int{
	"dev":       rankDev,
	"pre":       rankDev,
	"preview":   rankDev,
	"ea":        rankDev,
	"eap":       rankDev,
	"alpha":     rankAlpha,
	"a":         rankAlpha,
	"beta":      rankBeta,
	"b":         rankBeta,
	"milestone": rankMilestone,
	"m":         rankMilestone,
	"rc":        rankRC,
	"cr":        rankRC,
	"snapshot":  rankSnapshot,
	"final":     rankStable,
	"release":   rankStable,
	"ga":        rankStable,
}

var qualifierTokenRegex = regexp.MustCompile(`^([a-z]*)(\d*)`)

type qualifierKey struct {
	rank     int
	num      uint64
	rest     string
	snapshot bool
}

func keyOf(v Version) qualifierKey {
	k := qualifierKey{rank: rankStable, snapshot: v.snapshot}
	if v.qualifier == "" {
		if v.snapshot {
			k.rank = rankSnapshot
		}
		return k
	}

	segs := splitQualifier(v.qualifier)
	if len(segs) == 0 {
		k.rank = rankUnknown
		k.rest = v.qualifier
		return k
	}
	first, tail := segs[0], segs[1:]
	m := qualifierTokenRegex.FindStringSubmatch(first)
	letters, digits := m[1], m[2]
	full := len(letters)+len(digits) == len(first)

	switch r, ok := qualifierRanks[letters]; {
	case ok && full:
		k.rank = r
		if digits == "" && len(tail) > 0 && isDigits(tail[0]) {
			// "rc.2" carries its number in the next segment.
			digits, tail = tail[0], tail[1:]
		}
	case letters == "" && full:
		k.rank = rankUnknown
	default:
		k.rank = rankUnknown
		digits = ""
		tail = segs
	}
	if digits != "" {
		k.num, _ = strconv.ParseUint(digits, 10, 64)
	}
	k.rest = strings.Join(tail, ".")
	return k
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Compare returns -1, 0 or +1 ordering a before, equal to, or after b.
//
// Versions with numeric release segments (Semantic, Numeric and Snapshot)
// compare segment by segment as integers, padding the shorter sequence with
// zeros. Ties are broken by qualifier: no qualifier beats any qualifier,
// then by rank (dev < alpha < beta < milestone < rc < snapshot < release),
// then by the qualifier's numeric suffix. Semantically equal versions such
// as "1.0" and "1.0.0" compare as 0.
//
// If either side is AdHoc, Compare falls back to a case-insensitive
// lexicographic comparison of the trimmed literals. That ordering is
// deterministic but carries no semantic meaning and is not guaranteed to be
// transitive across mixed kinds.
func Compare(a, b Version) int {
	if a.release == nil || b.release == nil {
		return strings.Compare(normalize(a.raw), normalize(b.raw))
	}
	if c := compareRelease(a.release, b.release); c != 0 {
		return c
	}
	return compareKeys(keyOf(a), keyOf(b))
}

func compareRelease(a, b []uint64) int {
	n := max(len(a), len(b))
	for i := range n {
		var x, y uint64
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	}
	return 0
}

func compareKeys(a, b qualifierKey) int {
	switch {
	case a.rank != b.rank:
		return cmpInt(a.rank, b.rank)
	case a.num != b.num:
		if a.num < b.num {
			return -1
		}
		return 1
	case a.rest != b.rest:
		// A bare qualifier outranks one carrying extra text ("rc1" > "rc1-dev").
		if a.rest == "" {
			return 1
		}
		if b.rest == "" {
			return -1
		}
		return strings.Compare(a.rest, b.rest)
	case a.snapshot != b.snapshot:
		if a.snapshot {
			return -1
		}
		return 1
	}
	return 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Newer reports whether candidate is strictly greater than current.
func Newer(candidate, current Version) bool {
	return Compare(candidate, current) > 0
}

// Max returns the greatest version in vs. Semantically equal versions are
// broken by raw literal. The scan runs over the literals in sorted order so
// the result does not depend on the order of vs.
func Max(vs []Version) (Version, bool) {
	if len(vs) == 0 {
		return Version{}, false
	}
	sorted := make([]Version, len(vs))
	copy(sorted, vs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].raw < sorted[j].raw })

	best := sorted[0]
	for _, v := range sorted[1:] {
		if c := Compare(v, best); c > 0 || (c == 0 && v.raw > best.raw) {
			best = v
		}
	}
	return best, true
}
