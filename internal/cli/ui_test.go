package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/matzehuels/gvc/pkg/catalog"
	gvcerrors "github.com/matzehuels/gvc/pkg/errors"
	"github.com/matzehuels/gvc/pkg/repository"
	"github.com/matzehuels/gvc/pkg/resolve"
	"github.com/matzehuels/gvc/pkg/version"
	"github.com/matzehuels/gvc/pkg/workflow"
)

func sampleReport() *resolve.Report {
	return &resolve.Report{
		LibraryUpdates: []resolve.Candidate{{
			Alias:      "retrofit",
			Kind:       catalog.KindLibrary,
			Coordinate: repository.Library("com.squareup.retrofit2", "retrofit"),
			Current:    "2.9.0",
			Proposed:   "2.11.0",
			Stability:  version.Stable,
		}},
		Errors: []resolve.EntryError{{
			Alias: "ghost",
			Kind:  catalog.KindLibrary,
			Err:   gvcerrors.New(gvcerrors.ErrCodeUnresolvableVersionRef, "missing version %q", "ghost"),
		}},
	}
}

func TestRenderReport(t *testing.T) {
	var buf bytes.Buffer
	renderReport(&buf, sampleReport())
	out := buf.String()
	for _, want := range []string{"Library updates", "retrofit", "2.9.0", "2.11.0", "stable", "1 entry could not be checked", "libraries.ghost"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderReport() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Version updates") {
		t.Error("empty section rendered")
	}
}

func TestRenderReportSplitsErrors(t *testing.T) {
	r := &resolve.Report{Errors: []resolve.EntryError{
		{Alias: "ghost", Kind: catalog.KindLibrary, Err: gvcerrors.New(gvcerrors.ErrCodeNetwork, "lookup failed")},
		{Alias: "odd", Kind: catalog.KindPlugin, Err: gvcerrors.New(gvcerrors.ErrCodeParse, "plugins.odd: expected a string or table")},
		{Alias: "weird", Kind: catalog.KindLibrary, Err: gvcerrors.New(gvcerrors.ErrCodeParse, "libraries.weird: missing module")},
	}}
	var buf bytes.Buffer
	renderReport(&buf, r)
	out := buf.String()
	for _, want := range []string{"1 entry could not be checked", "2 entries could not be read", "plugins.odd", "libraries.weird"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderReport() missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "libraries.ghost") > strings.Index(out, "could not be read") {
		t.Errorf("lookup failure listed under unreadable entries:\n%s", out)
	}
}

func TestWriteStructured(t *testing.T) {
	for _, format := range []string{workflow.FormatJSON, workflow.FormatYAML} {
		var buf bytes.Buffer
		if err := writeStructured(&buf, format, sampleReport()); err != nil {
			t.Fatalf("writeStructured(%s) error = %v", format, err)
		}
		out := buf.String()
		for _, want := range []string{"retrofit", "2.11.0", "UNRESOLVABLE_VERSION_REF"} {
			if !strings.Contains(out, want) {
				t.Errorf("%s output missing %q:\n%s", format, want, out)
			}
		}
	}
	if err := writeStructured(&bytes.Buffer{}, workflow.FormatText, nil); err == nil {
		t.Error("text is not a structured format")
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, gvcerrors.Wrap(gvcerrors.ErrCodeIO, errors.New("disk full"), "write catalog"))
	if out := buf.String(); !strings.Contains(out, "write catalog: disk full") || strings.Contains(out, "IO_ERROR") {
		t.Errorf("PrintError() = %q", out)
	}
}

func TestPlural(t *testing.T) {
	if plural(1, "entry", "entries") != "entry" || plural(2, "entry", "entries") != "entries" || plural(0, "entry", "entries") != "entries" {
		t.Error("plural() wrong")
	}
}
