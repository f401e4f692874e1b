package repository

// Built-in include patterns for the Google repository when none are
// declared. Google Maven hosts the google.*, android.* and androidx.* groups
// along with their com.-qualified forms.
var defaultGooglePatterns = []string{
	`(google|android|androidx)\..*`,
	`com\.(google|android)\..*`,
}

var defaultGoogle = MustNew("Google", GoogleURL, Google, defaultGooglePatterns...)

// Defaults returns the repositories used when a project declares none.
func Defaults() []Descriptor {
	return []Descriptor{
		MustNew("Google", GoogleURL, Google),
		MustNew("Maven Central", MavenCentralURL, MavenCentral),
		MustNew("Gradle Plugin Portal", PluginPortalURL, PluginPortal),
	}
}

// Select returns the ordered subset of repos to query for c.
//
// A repository is included if it declares no include patterns or the
// coordinate's group matches one of them. Without declared patterns the
// Google repository only serves Google and Android groups, Maven Central
// serves everything, and the Plugin Portal is consulted for plugins only.
// Input order is preserved.
func Select(c Coordinate, repos []Descriptor) []Descriptor {
	group := c.FilterGroup()
	var out []Descriptor
	for _, r := range repos {
		if r.Kind == PluginPortal && !c.IsPlugin() {
			continue
		}
		if !accepts(r, group) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func accepts(r Descriptor, group string) bool {
	if r.HasPatterns() {
		return r.Accepts(group)
	}
	if r.Kind == Google {
		return defaultGoogle.Accepts(group)
	}
	return true
}

// Dedupe drops repositories whose normalized URL was already seen, keeping
// the first occurrence.
func Dedupe(repos []Descriptor) []Descriptor {
	seen := make(map[string]bool, len(repos))
	out := make([]Descriptor, 0, len(repos))
	for _, r := range repos {
		if seen[r.Key()] {
			continue
		}
		seen[r.Key()] = true
		out = append(out, r)
	}
	return out
}

// EnsurePluginPortal appends the Gradle Plugin Portal when repos has none.
func EnsurePluginPortal(repos []Descriptor) []Descriptor {
	for _, r := range repos {
		if r.Kind == PluginPortal {
			return repos
		}
	}
	return append(repos[:len(repos):len(repos)], MustNew("Gradle Plugin Portal", PluginPortalURL, PluginPortal))
}
