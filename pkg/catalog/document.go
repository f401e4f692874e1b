package catalog

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	gotoml "github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"

	"github.com/matzehuels/gvc/pkg/errors"
)

// Kind identifies the catalog table an entry lives in.
type Kind int

const (
	KindVersion Kind = iota
	KindLibrary
	KindPlugin
)

// Table returns the catalog table name for k.
func (k Kind) Table() string {
	switch k {
	case KindVersion:
		return "versions"
	case KindLibrary:
		return "libraries"
	case KindPlugin:
		return "plugins"
	}
	return ""
}

// String returns the entry kind name used in reports.
func (k Kind) String() string {
	switch k {
	case KindVersion:
		return "version-ref"
	case KindLibrary:
		return "library"
	case KindPlugin:
		return "plugin"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText encodes the kind by name for JSON and YAML reports.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

var tableKinds = map[string]Kind{
	"versions":  KindVersion,
	"libraries": KindLibrary,
	"plugins":   KindPlugin,
}

// Span is a half-open byte range [Start, End) in the document source.
type Span struct {
	Start int
	End   int
}

// leaf is one scalar value beneath an entry, addressed by its field path
// relative to the alias ("" for the alias value itself, "version.ref" for a
// nested reference).
type leaf struct {
	value string
	kind  unstable.Kind
	span  Span
}

type rawEntry struct {
	kind   Kind
	alias  string
	fields map[string]leaf
	order  []string
}

// region tracks where a top-level table's own key/value lines end, so new
// entries land directly after the last existing one.
type region struct {
	end int
	// dotted is set for tables defined by root-level dotted keys
	// (versions.kotlin = "..."); new entries must use the same form.
	dotted bool
	// inline is set for tables defined as a root inline table, which
	// cannot be extended.
	inline bool
}

// Document is an edit-aware view of a version catalog.
//
// It keeps the original bytes and an index of every value position in the
// versions, libraries and plugins tables. Documents are immutable: edits
// splice the source and return a new Document, so every byte outside the
// edited value tokens is preserved.
type Document struct {
	src     []byte
	entries map[Kind][]*rawEntry
	byAlias map[Kind]map[string]*rawEntry
	regions map[string]*region

	versions  []VersionEntry
	libraries []Library
	plugins   []Plugin
	problems  []ShapeError
}

// Load reads and parses the catalog at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeValidation, err, "catalog not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read catalog %s", path)
	}
	return Parse(data)
}

// Parse validates src as TOML and indexes its catalog tables.
//
// Syntax errors, duplicate keys and catalog tables that are not tables are
// document-level errors. Entries with an unsupported shape are not; they
// are reported by [Document.Problems].
func Parse(src []byte) (*Document, error) {
	if err := validate(src); err != nil {
		return nil, err
	}
	return index(bytes.Clone(src))
}

// validate decodes src with two full TOML decoders, which reject duplicate
// keys and table redefinitions the position index does not check. go-toml
// also rejects a [table] header for a table already created by dotted keys,
// which BurntSushi accepts.
func validate(src []byte) error {
	var tree map[string]any
	if err := toml.Unmarshal(src, &tree); err != nil {
		return errors.Wrap(errors.ErrCodeParse, err, "invalid catalog TOML")
	}
	var strict map[string]any
	if err := gotoml.Unmarshal(src, &strict); err != nil {
		return errors.Wrap(errors.ErrCodeParse, err, "invalid catalog TOML")
	}
	for name := range tableKinds {
		v, ok := tree[name]
		if !ok {
			continue
		}
		if _, isTable := v.(map[string]any); !isTable {
			return errors.New(errors.ErrCodeValidation, "catalog %q must be a table", name)
		}
	}
	return nil
}

func index(src []byte) (*Document, error) {
	d := &Document{
		src:     src,
		entries: make(map[Kind][]*rawEntry),
		byAlias: map[Kind]map[string]*rawEntry{
			KindVersion: {},
			KindLibrary: {},
			KindPlugin:  {},
		},
		regions: make(map[string]*region),
	}

	p := unstable.Parser{}
	p.Reset(src)

	var (
		header  []string
		current *region
		skip    bool
	)
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table:
			keys, span := keyPath(expr.Key())
			header, skip, current = keys, false, nil
			if len(keys) == 1 {
				current = d.regions[keys[0]]
				if current == nil {
					current = &region{}
					d.regions[keys[0]] = current
				}
				current.end = max(current.end, lineEnd(src, span.End))
			}
		case unstable.ArrayTable:
			header, skip, current = nil, true, nil
		case unstable.KeyValue:
			if skip {
				continue
			}
			keys, span := keyPath(expr.Key())
			path := append(append([]string(nil), header...), keys...)
			end := d.walk(path, expr.Value())
			switch {
			case current != nil:
				current.end = max(current.end, lineEnd(src, max(span.End, end)))
			case len(header) == 0 && isCatalogTable(keys[0]):
				r := d.regions[keys[0]]
				if r == nil {
					r = &region{}
					d.regions[keys[0]] = r
				}
				r.dotted = r.dotted || len(keys) > 1
				r.inline = r.inline || len(keys) == 1
				r.end = max(r.end, lineEnd(src, max(span.End, end)))
			}
		}
	}
	if err := p.Error(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "invalid catalog TOML")
	}

	d.build()
	return d, nil
}

// walk records every scalar beneath path and returns the furthest source
// offset it saw.
func (d *Document) walk(path []string, n *unstable.Node) int {
	end := 0
	switch n.Kind {
	case unstable.InlineTable:
		it := n.Children()
		for it.Next() {
			kv := it.Node()
			keys, span := keyPath(kv.Key())
			sub := append(append([]string(nil), path...), keys...)
			end = max(end, span.End, d.walk(sub, kv.Value()))
		}
		return end
	case unstable.Array:
		it := n.Children()
		for it.Next() {
			end = max(end, d.walk(nil, it.Node()))
		}
		d.record(path, leaf{kind: unstable.Array})
		return end
	case unstable.String:
		span := spanOf(n.Raw)
		d.record(path, leaf{value: string(n.Data), kind: unstable.String, span: span})
		return span.End
	default:
		d.record(path, leaf{kind: n.Kind, span: spanOf(n.Raw)})
		return spanOf(n.Raw).End
	}
}

func (d *Document) record(path []string, l leaf) {
	if len(path) < 2 {
		return
	}
	kind, ok := tableKinds[path[0]]
	if !ok {
		return
	}
	alias := path[1]
	e := d.byAlias[kind][alias]
	if e == nil {
		e = &rawEntry{kind: kind, alias: alias, fields: make(map[string]leaf)}
		d.byAlias[kind][alias] = e
		d.entries[kind] = append(d.entries[kind], e)
	}
	field := joinPath(path[2:])
	if _, seen := e.fields[field]; !seen {
		e.order = append(e.order, field)
	}
	e.fields[field] = l
}

func keyPath(it unstable.Iterator) ([]string, Span) {
	var (
		keys []string
		span Span
	)
	for it.Next() {
		k := it.Node()
		keys = append(keys, string(k.Data))
		s := spanOf(k.Raw)
		if len(keys) == 1 {
			span.Start = s.Start
		}
		span.End = max(span.End, s.End)
	}
	return keys, span
}

func spanOf(r unstable.Range) Span {
	return Span{Start: int(r.Offset), End: int(r.Offset + r.Length)}
}

func joinPath(parts []string) string {
	var b bytes.Buffer
	for i, p := range parts {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(p)
	}
	return b.String()
}

func isCatalogTable(name string) bool {
	_, ok := tableKinds[name]
	return ok
}

// lineEnd returns the offset of the line terminator ("\n" or "\r\n") ending
// the line that contains off, or len(src) on the last line.
func lineEnd(src []byte, off int) int {
	if off >= len(src) {
		return len(src)
	}
	i := bytes.IndexByte(src[off:], '\n')
	if i < 0 {
		return len(src)
	}
	end := off + i
	if end > off && src[end-1] == '\r' {
		end--
	}
	return end
}

// newline returns the document's line terminator.
func (d *Document) newline() string {
	if bytes.Contains(d.src, []byte("\r\n")) {
		return "\r\n"
	}
	return "\n"
}

// Bytes returns a copy of the document source.
func (d *Document) Bytes() []byte { return bytes.Clone(d.src) }

// String returns the document source.
func (d *Document) String() string { return string(d.src) }

// Versions returns the well-formed versions entries in document order.
func (d *Document) Versions() []VersionEntry { return d.versions }

// Libraries returns the well-formed libraries entries in document order.
func (d *Document) Libraries() []Library { return d.libraries }

// Plugins returns the well-formed plugins entries in document order.
func (d *Document) Plugins() []Plugin { return d.plugins }

// Problems returns entries whose shape could not be interpreted.
func (d *Document) Problems() []ShapeError { return d.problems }

// HasAlias reports whether alias exists in the table for kind.
func (d *Document) HasAlias(kind Kind, alias string) bool {
	_, ok := d.byAlias[kind][alias]
	return ok
}

// Version returns the versions entry named alias.
func (d *Document) Version(alias string) (VersionEntry, bool) {
	for _, v := range d.versions {
		if v.Alias == alias {
			return v, true
		}
	}
	return VersionEntry{}, false
}

// Library returns the libraries entry named alias.
func (d *Document) Library(alias string) (Library, bool) {
	for _, l := range d.libraries {
		if l.Alias == alias {
			return l, true
		}
	}
	return Library{}, false
}

// Plugin returns the plugins entry named alias.
func (d *Document) Plugin(alias string) (Plugin, bool) {
	for _, p := range d.plugins {
		if p.Alias == alias {
			return p, true
		}
	}
	return Plugin{}, false
}

// FindLibrary returns the library declaring group:artifact under any alias.
func (d *Document) FindLibrary(group, artifact string) (Library, bool) {
	for _, l := range d.libraries {
		if l.Group == group && l.Artifact == artifact {
			return l, true
		}
	}
	return Library{}, false
}

// FindPlugin returns the plugin declaring id under any alias.
func (d *Document) FindPlugin(id string) (Plugin, bool) {
	for _, p := range d.plugins {
		if p.ID == id {
			return p, true
		}
	}
	return Plugin{}, false
}
