package resolve

import (
	"encoding/json"

	"github.com/matzehuels/gvc/pkg/catalog"
	"github.com/matzehuels/gvc/pkg/errors"
	"github.com/matzehuels/gvc/pkg/repository"
	"github.com/matzehuels/gvc/pkg/version"
)

// Candidate is a proposed version change for one entry. Proposed is always
// strictly newer than Current.
type Candidate struct {
	Alias      string                `json:"alias" yaml:"alias"`
	Kind       catalog.Kind          `json:"kind" yaml:"kind"`
	Coordinate repository.Coordinate `json:"coordinate" yaml:"coordinate"`
	Current    string                `json:"current" yaml:"current"`
	Proposed   string                `json:"proposed" yaml:"proposed"`
	Stability  version.Stability     `json:"stability" yaml:"stability"`
}

// Update returns the catalog edit that accepts c.
func (c Candidate) Update() catalog.Update {
	return catalog.Update{Kind: c.Kind, Alias: c.Alias, From: c.Current, To: c.Proposed}
}

// EntryError records why one entry could not be resolved.
type EntryError struct {
	Alias      string
	Kind       catalog.Kind
	Coordinate repository.Coordinate
	Err        error
}

func (e EntryError) Error() string {
	return e.Kind.Table() + "." + e.Alias + ": " + errors.UserMessage(e.Err)
}

func (e EntryError) Unwrap() error { return e.Err }

type entryErrorView struct {
	Alias      string                `json:"alias" yaml:"alias"`
	Kind       catalog.Kind          `json:"kind" yaml:"kind"`
	Coordinate repository.Coordinate `json:"coordinate" yaml:"coordinate,omitempty"`
	Code       errors.Code           `json:"code" yaml:"code"`
	Message    string                `json:"message" yaml:"message"`
}

func (e EntryError) view() entryErrorView {
	return entryErrorView{
		Alias:      e.Alias,
		Kind:       e.Kind,
		Coordinate: e.Coordinate,
		Code:       errors.GetCode(e.Err),
		Message:    errors.UserMessage(e.Err),
	}
}

// MarshalJSON encodes the error with its code and message.
func (e EntryError) MarshalJSON() ([]byte, error) { return json.Marshal(e.view()) }

// MarshalYAML encodes the error with its code and message.
func (e EntryError) MarshalYAML() (any, error) { return e.view(), nil }

// Report groups the results of one resolution pass by catalog table.
type Report struct {
	VersionUpdates []Candidate  `json:"version_updates" yaml:"version_updates"`
	LibraryUpdates []Candidate  `json:"library_updates" yaml:"library_updates"`
	PluginUpdates  []Candidate  `json:"plugin_updates" yaml:"plugin_updates"`
	Errors         []EntryError `json:"errors" yaml:"errors"`
}

func (r *Report) add(c Candidate) {
	switch c.Kind {
	case catalog.KindVersion:
		r.VersionUpdates = append(r.VersionUpdates, c)
	case catalog.KindLibrary:
		r.LibraryUpdates = append(r.LibraryUpdates, c)
	case catalog.KindPlugin:
		r.PluginUpdates = append(r.PluginUpdates, c)
	}
}

// Candidates returns every candidate in presentation order: versions, then
// libraries, then plugins, each in document order.
func (r *Report) Candidates() []Candidate {
	out := make([]Candidate, 0, r.Len())
	out = append(out, r.VersionUpdates...)
	out = append(out, r.LibraryUpdates...)
	return append(out, r.PluginUpdates...)
}

// Len returns the number of candidates.
func (r *Report) Len() int {
	return len(r.VersionUpdates) + len(r.LibraryUpdates) + len(r.PluginUpdates)
}

// Empty reports whether the pass found neither updates nor errors.
func (r *Report) Empty() bool { return r.Len() == 0 && len(r.Errors) == 0 }

// Only returns a report holding just the given candidates, keeping r's
// errors.
func (r *Report) Only(cands []Candidate) *Report {
	out := &Report{Errors: r.Errors}
	for _, c := range cands {
		out.add(c)
	}
	return out
}

// Updates converts candidates into catalog edits.
func Updates(cands []Candidate) []catalog.Update {
	out := make([]catalog.Update, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.Update())
	}
	return out
}
