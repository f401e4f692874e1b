package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/matzehuels/gvc/pkg/errors"
	"github.com/matzehuels/gvc/pkg/repository"
)

// DefaultStripPrefixes are organization tokens removed from derived aliases.
var DefaultStripPrefixes = []string{"org-", "com-", "io-", "net-", "dev-"}

// AddRequest describes a new library or plugin entry.
type AddRequest struct {
	Kind         Kind // KindLibrary or KindPlugin
	Coordinate   repository.Coordinate
	Version      string // Concrete version literal
	Alias        string // Explicit alias; derived when empty
	VersionAlias string // Explicit versions alias; derived when empty

	// StripPrefixes overrides DefaultStripPrefixes when non-nil.
	StripPrefixes []string
}

// AddResult reports the aliases an add produced.
type AddResult struct {
	Alias        string `json:"alias" yaml:"alias"`
	VersionAlias string `json:"version_alias" yaml:"version_alias"`
	// ReusedVersion is set when an explicit version alias already held the
	// same literal and was shared instead of inserted.
	ReusedVersion bool `json:"reused_version" yaml:"reused_version"`
}

// Add inserts a reference-form entry pointing at a versions alias holding
// req.Version. Conflicts are detected before anything is modified.
func (d *Document) Add(req AddRequest) (*Document, AddResult, error) {
	var res AddResult
	if err := req.validate(); err != nil {
		return nil, res, err
	}

	if err := d.checkDuplicateCoordinate(req); err != nil {
		return nil, res, err
	}

	prefixes := req.StripPrefixes
	if prefixes == nil {
		prefixes = DefaultStripPrefixes
	}
	base := DeriveAlias(aliasSource(req), prefixes)
	if base == "" {
		return nil, res, errors.New(errors.ErrCodeInvalidInput, "cannot derive an alias from %s", req.Coordinate)
	}

	if req.Alias != "" {
		if err := errors.ValidateAlias(req.Alias); err != nil {
			return nil, res, err
		}
		if d.HasAlias(req.Kind, req.Alias) {
			return nil, res, errors.New(errors.ErrCodeDuplicateAlias,
				"alias %q already exists in %s", req.Alias, req.Kind.Table())
		}
		res.Alias = req.Alias
	} else {
		res.Alias = uniqueAlias(base, func(a string) bool { return d.HasAlias(req.Kind, a) })
	}

	if req.VersionAlias != "" {
		if err := errors.ValidateAlias(req.VersionAlias); err != nil {
			return nil, res, err
		}
		if existing, ok := d.Version(req.VersionAlias); ok {
			if existing.Version.Literal != req.Version {
				return nil, res, errors.New(errors.ErrCodeDuplicateAlias,
					"version alias %q already exists with %q", req.VersionAlias, existing.Version.Literal)
			}
			res.ReusedVersion = true
		} else if d.HasAlias(KindVersion, req.VersionAlias) {
			return nil, res, errors.New(errors.ErrCodeDuplicateAlias, "version alias %q already exists", req.VersionAlias)
		}
		res.VersionAlias = req.VersionAlias
	} else {
		res.VersionAlias = uniqueAlias(base, func(a string) bool { return d.HasAlias(KindVersion, a) })
	}

	cur := d
	var err error
	if !res.ReusedVersion {
		if cur, err = cur.insertEntry(KindVersion.Table(), formatKey(res.VersionAlias), basicString(req.Version)); err != nil {
			return nil, AddResult{}, err
		}
	}
	if cur, err = cur.insertEntry(req.Kind.Table(), formatKey(res.Alias), entryValue(req, res)); err != nil {
		return nil, AddResult{}, err
	}
	return cur, res, nil
}

func (r AddRequest) validate() error {
	switch r.Kind {
	case KindLibrary:
		if r.Coordinate.IsPlugin() {
			return errors.New(errors.ErrCodeInvalidInput, "library add needs a group:artifact coordinate")
		}
	case KindPlugin:
		if !r.Coordinate.IsPlugin() {
			return errors.New(errors.ErrCodeInvalidInput, "plugin add needs a plugin id")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "can only add libraries or plugins")
	}
	if err := r.Coordinate.Validate(); err != nil {
		return err
	}
	if r.Version == "" || strings.EqualFold(r.Version, "latest") {
		return errors.New(errors.ErrCodeInvalidInput, "add needs a concrete version for %s", r.Coordinate)
	}
	return nil
}

func (d *Document) checkDuplicateCoordinate(req AddRequest) error {
	if req.Kind == KindPlugin {
		if p, ok := d.FindPlugin(req.Coordinate.PluginID); ok {
			return errors.New(errors.ErrCodeDuplicateCoordinate,
				"plugin %s already declared as %q", req.Coordinate.PluginID, p.Alias)
		}
		return nil
	}
	if l, ok := d.FindLibrary(req.Coordinate.Group, req.Coordinate.Artifact); ok {
		return errors.New(errors.ErrCodeDuplicateCoordinate,
			"library %s already declared as %q", req.Coordinate, l.Alias)
	}
	return nil
}

func aliasSource(req AddRequest) string {
	if req.Kind == KindPlugin {
		id := req.Coordinate.PluginID
		return id[strings.LastIndex(id, ".")+1:]
	}
	return req.Coordinate.Artifact
}

func entryValue(req AddRequest, res AddResult) string {
	ref := "version.ref = " + basicString(res.VersionAlias)
	if req.Kind == KindPlugin {
		return fmt.Sprintf("{ id = %s, %s }", basicString(req.Coordinate.PluginID), ref)
	}
	return fmt.Sprintf("{ module = %s, %s }", basicString(req.Coordinate.String()), ref)
}

var (
	separatorRegex = regexp.MustCompile(`[._\s]+`)
	hyphenRun      = regexp.MustCompile(`-{2,}`)
)

// DeriveAlias lower-cases name, normalizes '.', '_' and whitespace to
// hyphens, and strips the first matching prefix unless nothing would remain.
func DeriveAlias(name string, prefixes []string) string {
	a := strings.ToLower(strings.TrimSpace(name))
	a = separatorRegex.ReplaceAllString(a, "-")
	a = hyphenRun.ReplaceAllString(a, "-")
	a = strings.Trim(a, "-")
	for _, p := range prefixes {
		p = strings.ToLower(p)
		if rest := strings.TrimPrefix(a, p); rest != a && rest != "" {
			a = strings.TrimLeft(rest, "-")
			break
		}
	}
	if a != "" && (a[0] < 'a' || a[0] > 'z') {
		a = "lib-" + a
	}
	return a
}

// uniqueAlias returns base, or base-2, base-3, ... for the first unused name.
func uniqueAlias(base string, exists func(string) bool) string {
	if !exists(base) {
		return base
	}
	for n := 2; ; n++ {
		if a := fmt.Sprintf("%s-%d", base, n); !exists(a) {
			return a
		}
	}
}
