// Package resolve finds newer versions for the entries of a version catalog.
//
// For every entry holding its own version literal the [Engine] selects the
// repositories that may host the coordinate, asks a [VersionQuery] for the
// published versions, drops anything not strictly newer than the current
// literal (and, with StableOnly, anything unstable) and proposes the
// maximum. A versions alias is looked up under the coordinate of the first
// library that references it, falling back to the first plugin.
//
// Lookup failures and malformed entries are collected as [EntryError]
// values next to the successful candidates in a [Report]; they never stop
// the pass.
package resolve
