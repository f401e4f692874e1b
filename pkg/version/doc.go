// Package version parses, classifies and orders dependency version literals.
//
// # Parsing
//
// [Parse] never fails. A literal is recognized, in order, as a SNAPSHOT
// (any case "-SNAPSHOT" suffix), a strict semantic version
// ("1.2.3-beta01"), a plain numeric version ("1.0", "2.0.0.1"), release
// digits followed by a qualifier ("1.0-rc1", "5.3.2.Final"), or finally an
// opaque AdHoc string.
//
// # Stability
//
// [Classify] reports [Stable] or an unstable token (alpha, beta, rc, cr,
// milestone, m, dev, snapshot, preview, ea, eap, pre) found after the
// leading numeric portion:
//
//	version.ClassifyString("1.2.3")          // stable
//	version.ClassifyString("1.2.3-beta01")   // unstable(beta)
//	version.ClassifyString("2.0.0-SNAPSHOT") // unstable(snapshot)
//
// # Ordering
//
// [Compare] orders numbered versions numerically with qualifier ranks and
// falls back to lexicographic order whenever an AdHoc literal is involved.
// The fallback is deterministic but not semantically meaningful.
package version
