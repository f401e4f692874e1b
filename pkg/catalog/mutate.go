package catalog

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/gvc/pkg/errors"
)

// Update replaces the version owned by one entry.
type Update struct {
	Kind  Kind
	Alias string
	From  string // Expected current literal; empty skips the check
	To    string
}

// Apply rewrites the version slot of every update and returns the new
// document. Only the value tokens of the updated slots change. Applying no
// updates returns d unchanged.
func (d *Document) Apply(updates []Update) (*Document, error) {
	cur := d
	for _, u := range updates {
		slot, err := cur.SlotFor(u.Kind, u.Alias)
		if err != nil {
			return nil, err
		}
		if u.From != "" && slot.Value != u.From {
			return nil, errors.New(errors.ErrCodeValidation,
				"%s.%s holds %q, expected %q", u.Kind.Table(), u.Alias, slot.Value, u.From)
		}
		if u.To == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s.%s: empty replacement version", u.Kind.Table(), u.Alias)
		}
		cur, err = cur.replace(slot.Span, slot.Render(u.To))
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

func (d *Document) replace(span Span, text string) (*Document, error) {
	if span.Start >= span.End || span.End > len(d.src) {
		return nil, errors.New(errors.ErrCodeInternal, "invalid edit span %d..%d", span.Start, span.End)
	}
	var b bytes.Buffer
	b.Grow(len(d.src) + len(text))
	b.Write(d.src[:span.Start])
	b.WriteString(text)
	b.Write(d.src[span.End:])
	return reparse(b.Bytes())
}

// insertEntry adds key = value as the last entry of the top-level table,
// creating the table at the end of the document when it does not exist.
// Tables declared with root dotted keys are extended with another dotted
// key, since a [table] header would redefine them.
func (d *Document) insertEntry(table, key, value string) (*Document, error) {
	nl := d.newline()
	var b bytes.Buffer
	if r, ok := d.regions[table]; ok {
		if r.inline {
			return nil, errors.New(errors.ErrCodeValidation,
				"cannot add to %s: the table is declared inline", table)
		}
		line := key + " = " + value
		if r.dotted {
			line = table + "." + line
		}
		b.Write(d.src[:r.end])
		b.WriteString(nl)
		b.WriteString(line)
		b.Write(d.src[r.end:])
		return reparse(b.Bytes())
	}

	b.Write(d.src)
	if len(d.src) > 0 {
		if d.src[len(d.src)-1] != '\n' {
			b.WriteString(nl)
		}
		b.WriteString(nl)
	}
	fmt.Fprintf(&b, "[%s]%s%s = %s%s", table, nl, key, value, nl)
	return reparse(b.Bytes())
}

func reparse(src []byte) (*Document, error) {
	doc, err := Parse(src)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "edit produced an invalid catalog")
	}
	return doc, nil
}

func openingQuote(raw []byte) string {
	switch {
	case bytes.HasPrefix(raw, []byte(`"""`)):
		return `"""`
	case bytes.HasPrefix(raw, []byte(`'''`)):
		return `'''`
	case bytes.HasPrefix(raw, []byte(`'`)):
		return `'`
	default:
		return `"`
	}
}

// quoteString renders s as a single-line TOML string, keeping literal
// quotes when the original used them and s allows it.
func quoteString(s, quote string) string {
	if (quote == `'` || quote == `'''`) && canBeLiteral(s) {
		return "'" + s + "'"
	}
	return basicString(s)
}

func canBeLiteral(s string) bool {
	for _, r := range s {
		if r == '\'' || r == 0x7f || (r < 0x20 && r != '\t') {
			return false
		}
	}
	return utf8.ValidString(s)
}

func basicString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\f':
			b.WriteString(`\f`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// formatKey renders a bare key when possible and a quoted key otherwise.
func formatKey(k string) string {
	if k == "" {
		return `""`
	}
	for _, r := range k {
		if !(r == '-' || r == '_' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9') {
			return basicString(k)
		}
	}
	return k
}
