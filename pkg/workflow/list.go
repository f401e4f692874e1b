package workflow

import (
	"cmp"
	"slices"

	"github.com/matzehuels/gvc/pkg/catalog"
)

// ListEntry is one library or plugin with its version reference resolved.
type ListEntry struct {
	Alias      string       `json:"alias" yaml:"alias"`
	Kind       catalog.Kind `json:"kind" yaml:"kind"`
	Coordinate string       `json:"coordinate" yaml:"coordinate"`
	Version    string       `json:"version,omitempty" yaml:"version,omitempty"`
	Ref        string       `json:"ref,omitempty" yaml:"ref,omitempty"`
}

// Notation returns "coordinate:version", or the bare coordinate when no
// version is known. A dangling reference renders as ${ref}.
func (e ListEntry) Notation() string {
	switch {
	case e.Version != "":
		return e.Coordinate + ":" + e.Version
	case e.Ref != "":
		return e.Coordinate + ":${" + e.Ref + "}"
	}
	return e.Coordinate
}

// Listing is the libraries and plugins of a catalog, each sorted by alias.
type Listing struct {
	Libraries []ListEntry          `json:"libraries" yaml:"libraries"`
	Plugins   []ListEntry          `json:"plugins" yaml:"plugins"`
	Problems  []catalog.ShapeError `json:"-" yaml:"-"`
}

// List reads the catalog and resolves every entry's version.
func (r *Runner) List(path string) (*Listing, error) {
	doc, err := r.load(path)
	if err != nil {
		return nil, err
	}
	out := &Listing{Problems: doc.Problems()}
	for _, l := range doc.Libraries() {
		out.Libraries = append(out.Libraries, listEntry(doc, l.Alias, catalog.KindLibrary, l.Coordinate().String(), l.Version))
	}
	for _, p := range doc.Plugins() {
		out.Plugins = append(out.Plugins, listEntry(doc, p.Alias, catalog.KindPlugin, p.ID, p.Version))
	}
	byAlias := func(a, b ListEntry) int { return cmp.Compare(a.Alias, b.Alias) }
	slices.SortFunc(out.Libraries, byAlias)
	slices.SortFunc(out.Plugins, byAlias)
	return out, nil
}

func listEntry(doc *catalog.Document, alias string, kind catalog.Kind, coord string, spec catalog.VersionSpec) ListEntry {
	e := ListEntry{Alias: alias, Kind: kind, Coordinate: coord, Version: spec.Literal}
	if spec.IsRef() {
		e.Ref = spec.Ref
		if v, ok := doc.Version(spec.Ref); ok {
			e.Version = v.Version.Literal
		}
	}
	return e
}
