package catalog

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2/unstable"

	"github.com/matzehuels/gvc/pkg/errors"
	"github.com/matzehuels/gvc/pkg/repository"
)

// Shape is the literal form a library entry is written in.
type Shape int

const (
	// InlineCoordinate is alias = "group:artifact:version".
	InlineCoordinate Shape = iota
	// ModuleForm is alias = { module = "group:artifact", version... }.
	ModuleForm
	// GroupArtifactForm is alias = { group = "...", name = "...", version... }.
	GroupArtifactForm
)

func (s Shape) String() string {
	switch s {
	case InlineCoordinate:
		return "inline"
	case ModuleForm:
		return "module"
	case GroupArtifactForm:
		return "group-artifact"
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// SlotKind is the syntactic position a version literal occupies.
type SlotKind int

const (
	// SlotString is a bare string value: alias = "1.0".
	SlotString SlotKind = iota
	// SlotField is a string field of a table: version = "1.0", strictly = "1.0".
	SlotField
	// SlotCoordinate is the trailing segment of a coordinate string: "g:a:1.0".
	SlotCoordinate
)

// VersionSlot locates the exact token holding a version literal and knows
// how to render a replacement of the same shape.
type VersionSlot struct {
	Kind  SlotKind
	Span  Span   // Quoted token in the source
	Value string // Version text currently held

	prefix string // Coordinate text preceding the version, for SlotCoordinate
	quote  string // Original opening delimiter
}

// Render returns the token text that replaces Span to hold v.
func (s VersionSlot) Render(v string) string {
	return quoteString(s.prefix+v, s.quote)
}

// VersionSpec is a literal version or a reference to a versions alias.
type VersionSpec struct {
	Literal string // Version literal when not a reference
	Ref     string // Referenced versions alias
	Rich    string // "strictly", "require" or "prefer" for rich declarations

	slot    VersionSlot
	hasSlot bool
}

// IsRef reports whether the version is a reference into versions.
func (v VersionSpec) IsRef() bool { return v.Ref != "" }

// IsZero reports whether no version is declared.
func (v VersionSpec) IsZero() bool { return v.Literal == "" && v.Ref == "" }

// Slot returns the literal's slot. References and absent versions have none.
func (v VersionSpec) Slot() (VersionSlot, bool) { return v.slot, v.hasSlot }

// VersionEntry is a versions table entry.
type VersionEntry struct {
	Alias   string
	Version VersionSpec
}

// Library is a libraries table entry.
type Library struct {
	Alias    string
	Group    string
	Artifact string
	Shape    Shape
	Version  VersionSpec
}

// Coordinate returns the library's group:artifact coordinate.
func (l Library) Coordinate() repository.Coordinate {
	return repository.Library(l.Group, l.Artifact)
}

// Plugin is a plugins table entry.
type Plugin struct {
	Alias   string
	ID      string
	Version VersionSpec
}

// Coordinate returns the plugin coordinate.
func (p Plugin) Coordinate() repository.Coordinate {
	return repository.Plugin(p.ID)
}

// ShapeError describes an entry whose declaration could not be interpreted.
type ShapeError struct {
	Kind   Kind
	Alias  string
	Reason string
}

func (e ShapeError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Kind.Table(), e.Alias, e.Reason)
}

// Err returns the problem as a PARSE_ERROR.
func (e ShapeError) Err() error {
	return errors.New(errors.ErrCodeParse, "%s", e.Error())
}

// richFields lists rich version fields in precedence order.
var richFields = []string{"strictly", "require", "prefer"}

func (d *Document) build() {
	for _, e := range d.entries[KindVersion] {
		v, err := d.versionEntry(e)
		if err != nil {
			d.problems = append(d.problems, ShapeError{KindVersion, e.alias, err.Error()})
			continue
		}
		d.versions = append(d.versions, v)
	}
	for _, e := range d.entries[KindLibrary] {
		l, err := d.library(e)
		if err != nil {
			d.problems = append(d.problems, ShapeError{KindLibrary, e.alias, err.Error()})
			continue
		}
		d.libraries = append(d.libraries, l)
	}
	for _, e := range d.entries[KindPlugin] {
		p, err := d.plugin(e)
		if err != nil {
			d.problems = append(d.problems, ShapeError{KindPlugin, e.alias, err.Error()})
			continue
		}
		d.plugins = append(d.plugins, p)
	}
}

func (d *Document) versionEntry(e *rawEntry) (VersionEntry, error) {
	out := VersionEntry{Alias: e.alias}
	if l, ok := e.fields[""]; ok {
		if l.kind != unstable.String {
			return out, fmt.Errorf("version must be a string, got %s", l.kind)
		}
		out.Version = d.literal(l, SlotString, "")
		return out, nil
	}
	for _, f := range richFields {
		if l, ok := e.fields[f]; ok {
			if l.kind != unstable.String {
				return out, fmt.Errorf("%s must be a string, got %s", f, l.kind)
			}
			out.Version = d.literal(l, SlotField, "")
			out.Version.Rich = f
			return out, nil
		}
	}
	return out, fmt.Errorf("unsupported version declaration")
}

func (d *Document) library(e *rawEntry) (Library, error) {
	out := Library{Alias: e.alias}

	if l, ok := e.fields[""]; ok {
		if l.kind != unstable.String {
			return out, fmt.Errorf("library must be a string or table, got %s", l.kind)
		}
		parts := strings.Split(l.value, ":")
		if len(parts) < 2 || len(parts) > 3 || parts[0] == "" || parts[1] == "" {
			return out, fmt.Errorf("invalid coordinate %q", l.value)
		}
		out.Shape = InlineCoordinate
		out.Group, out.Artifact = parts[0], parts[1]
		if len(parts) == 3 && parts[2] != "" {
			out.Version = d.literal(l, SlotCoordinate, parts[0]+":"+parts[1]+":")
			out.Version.Literal = parts[2]
			out.Version.slot.Value = parts[2]
		}
		return out, nil
	}

	switch {
	case e.has("module"):
		m, err := e.str("module")
		if err != nil {
			return out, err
		}
		group, artifact, ok := strings.Cut(m, ":")
		if !ok || group == "" || artifact == "" || strings.Contains(artifact, ":") {
			return out, fmt.Errorf("invalid module %q", m)
		}
		out.Shape, out.Group, out.Artifact = ModuleForm, group, artifact
	case e.has("group") || e.has("name"):
		group, err := e.str("group")
		if err != nil {
			return out, err
		}
		name, err := e.str("name")
		if err != nil {
			return out, err
		}
		out.Shape, out.Group, out.Artifact = GroupArtifactForm, group, name
	default:
		return out, fmt.Errorf("missing module or group/name")
	}

	v, err := d.versionField(e)
	if err != nil {
		return out, err
	}
	out.Version = v
	return out, nil
}

func (d *Document) plugin(e *rawEntry) (Plugin, error) {
	out := Plugin{Alias: e.alias}

	if l, ok := e.fields[""]; ok {
		if l.kind != unstable.String {
			return out, fmt.Errorf("plugin must be a string or table, got %s", l.kind)
		}
		id, v, hasVersion := strings.Cut(l.value, ":")
		if id == "" || strings.Contains(v, ":") {
			return out, fmt.Errorf("invalid plugin notation %q", l.value)
		}
		out.ID = id
		if hasVersion && v != "" {
			out.Version = d.literal(l, SlotCoordinate, id+":")
			out.Version.Literal = v
			out.Version.slot.Value = v
		}
		return out, nil
	}

	id, err := e.str("id")
	if err != nil {
		return out, err
	}
	out.ID = id
	v, err := d.versionField(e)
	if err != nil {
		return out, err
	}
	out.Version = v
	return out, nil
}

// versionField reads version, version.ref or a rich version.<field>.
func (d *Document) versionField(e *rawEntry) (VersionSpec, error) {
	if l, ok := e.fields["version"]; ok {
		if l.kind != unstable.String {
			return VersionSpec{}, fmt.Errorf("version must be a string or table, got %s", l.kind)
		}
		return d.literal(l, SlotField, ""), nil
	}
	if e.has("version.ref") {
		ref, err := e.str("version.ref")
		if err != nil {
			return VersionSpec{}, err
		}
		if ref == "" {
			return VersionSpec{}, fmt.Errorf("version.ref is empty")
		}
		return VersionSpec{Ref: ref}, nil
	}
	for _, f := range richFields {
		key := "version." + f
		if l, ok := e.fields[key]; ok {
			if l.kind != unstable.String {
				return VersionSpec{}, fmt.Errorf("%s must be a string, got %s", key, l.kind)
			}
			v := d.literal(l, SlotField, "")
			v.Rich = f
			return v, nil
		}
	}
	return VersionSpec{}, nil
}

func (d *Document) literal(l leaf, kind SlotKind, prefix string) VersionSpec {
	return VersionSpec{
		Literal: l.value,
		slot: VersionSlot{
			Kind:   kind,
			Span:   l.span,
			Value:  l.value,
			prefix: prefix,
			quote:  openingQuote(d.src[l.span.Start:l.span.End]),
		},
		hasSlot: true,
	}
}

func (e *rawEntry) has(field string) bool {
	_, ok := e.fields[field]
	return ok
}

func (e *rawEntry) str(field string) (string, error) {
	l, ok := e.fields[field]
	if !ok {
		return "", fmt.Errorf("missing %s", field)
	}
	if l.kind != unstable.String {
		return "", fmt.Errorf("%s must be a string, got %s", field, l.kind)
	}
	return l.value, nil
}

// SlotFor returns the slot owning the version of the entry kind/alias,
// following version.ref into the versions table.
func (d *Document) SlotFor(kind Kind, alias string) (VersionSlot, error) {
	var spec VersionSpec
	switch kind {
	case KindVersion:
		v, ok := d.Version(alias)
		if !ok {
			return VersionSlot{}, errors.New(errors.ErrCodeValidation, "no versions entry %q", alias)
		}
		spec = v.Version
	case KindLibrary:
		l, ok := d.Library(alias)
		if !ok {
			return VersionSlot{}, errors.New(errors.ErrCodeValidation, "no libraries entry %q", alias)
		}
		spec = l.Version
	case KindPlugin:
		p, ok := d.Plugin(alias)
		if !ok {
			return VersionSlot{}, errors.New(errors.ErrCodeValidation, "no plugins entry %q", alias)
		}
		spec = p.Version
	default:
		return VersionSlot{}, errors.New(errors.ErrCodeInternal, "unknown entry kind %v", kind)
	}

	if spec.IsRef() {
		target, ok := d.Version(spec.Ref)
		if !ok {
			return VersionSlot{}, errors.New(errors.ErrCodeUnresolvableVersionRef,
				"%s.%s references missing version %q", kind.Table(), alias, spec.Ref)
		}
		spec = target.Version
	}
	slot, ok := spec.Slot()
	if !ok {
		return VersionSlot{}, errors.New(errors.ErrCodeValidation, "%s.%s declares no version", kind.Table(), alias)
	}
	return slot, nil
}
