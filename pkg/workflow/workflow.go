// Package workflow runs gvc's commands end to end.
//
// Every command is a single-threaded pipeline over one catalog file:
//
//  1. Load: parse gradle/libs.versions.toml
//  2. Resolve: look up newer versions for each entry, one at a time
//  3. Select: accept all candidates, prompt for each, or take the first
//  4. Mutate: apply accepted candidates or the added entry in memory
//  5. Save: write the catalog atomically, exactly once
//  6. Commit: create a dated branch and commit the catalog
//
// Check stops after step 2 and List after step 1. A cancelled selection
// ends the run before anything is written.
//
// # Usage
//
//	runner := workflow.NewRunner(mavenClient, git, logger)
//	res, err := runner.Update(ctx, workflow.UpdateOptions{
//	    Catalog:      proj.CatalogPath,
//	    Repositories: repos,
//	    StableOnly:   true,
//	})
package workflow

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gvc/pkg/catalog"
	"github.com/matzehuels/gvc/pkg/errors"
	"github.com/matzehuels/gvc/pkg/interactive"
	"github.com/matzehuels/gvc/pkg/repository"
	"github.com/matzehuels/gvc/pkg/resolve"
	"github.com/matzehuels/gvc/pkg/vcs"
)

// Report output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidFormats is the set of supported report formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatJSON: true,
	FormatYAML: true,
}

// ValidateFormat checks that format is a supported report format.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format %q (must be text, json or yaml)", format)
	}
	return nil
}

// VersionControl is the git surface an update needs.
type VersionControl interface {
	EnsureClean(ctx context.Context) (bool, error)
	Commit(ctx context.Context, paths []string, message string) (vcs.Result, error)
}

// Runner executes workflows against injected collaborators.
//
// A nil VCS disables the clean-tree check and the commit.
type Runner struct {
	Query  resolve.VersionQuery
	VCS    VersionControl
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger uses log.Default().
func NewRunner(q resolve.VersionQuery, v VersionControl, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Query: q, VCS: v, Logger: logger}
}

// CheckOptions configure a dry-run resolution.
type CheckOptions struct {
	Catalog      string
	Repositories []repository.Descriptor
	StableOnly   bool
	Filter       string // Alias glob; empty checks every entry
}

// Check reports the available updates without touching the catalog.
func (r *Runner) Check(ctx context.Context, opts CheckOptions) (*resolve.Report, error) {
	doc, err := r.load(opts.Catalog)
	if err != nil {
		return nil, err
	}
	return r.resolve(ctx, doc, opts.Repositories, opts.StableOnly, opts.Filter)
}

// UpdateOptions configure an update.
type UpdateOptions struct {
	Catalog      string
	Repositories []repository.Descriptor
	StableOnly   bool
	Filter       string

	// Prompter asks for each candidate. Nil accepts every candidate, or
	// only the first one when Filter is set.
	Prompter interactive.Prompter

	// CommitMessage overrides vcs.DefaultMessage.
	CommitMessage string
}

// UpdateResult describes what an update did.
type UpdateResult struct {
	Report  *resolve.Report     `json:"report" yaml:"report"`
	Applied []resolve.Candidate `json:"applied" yaml:"applied"`
	Written bool                `json:"written" yaml:"written"`
	Commit  *vcs.Result         `json:"commit,omitempty" yaml:"commit,omitempty"`
}

// Update resolves, selects and applies newer versions, then commits the
// catalog when a VCS is configured. A cancelled selection returns a
// CANCELLED error along with the report and leaves the file untouched.
func (r *Runner) Update(ctx context.Context, opts UpdateOptions) (*UpdateResult, error) {
	if r.VCS != nil {
		clean, err := r.VCS.EnsureClean(ctx)
		if err != nil {
			return nil, err
		}
		if !clean {
			return nil, errors.New(errors.ErrCodeValidation,
				"working tree has uncommitted changes; commit or stash them, or pass --no-git")
		}
	}

	doc, err := r.load(opts.Catalog)
	if err != nil {
		return nil, err
	}
	report, err := r.resolve(ctx, doc, opts.Repositories, opts.StableOnly, opts.Filter)
	if err != nil {
		return nil, err
	}
	res := &UpdateResult{Report: report}

	accepted, err := r.selectCandidates(ctx, report.Candidates(), opts)
	if err != nil {
		return res, err
	}
	res.Applied = accepted
	if len(accepted) == 0 {
		r.Logger.Info("no updates applied")
		return res, nil
	}

	updated, err := doc.Apply(resolve.Updates(accepted))
	if err != nil {
		return res, err
	}
	if err := catalog.Save(opts.Catalog, updated); err != nil {
		return res, err
	}
	res.Written = true
	r.Logger.Info("catalog updated", "path", opts.Catalog, "updates", len(accepted))

	if r.VCS != nil {
		commit, err := r.VCS.Commit(ctx, []string{opts.Catalog}, opts.CommitMessage)
		if err != nil {
			return res, err
		}
		res.Commit = &commit
	}
	return res, nil
}

func (r *Runner) selectCandidates(ctx context.Context, cands []resolve.Candidate, opts UpdateOptions) ([]resolve.Candidate, error) {
	switch {
	case len(cands) == 0:
		return nil, nil
	case opts.Prompter != nil:
		return interactive.Run(ctx, cands, opts.Prompter)
	case opts.Filter != "":
		return interactive.FirstOnly(cands), nil
	default:
		return cands, nil
	}
}

func (r *Runner) load(path string) (*catalog.Document, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeValidation, "no catalog path")
	}
	doc, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("loaded catalog",
		"path", path,
		"versions", len(doc.Versions()),
		"libraries", len(doc.Libraries()),
		"plugins", len(doc.Plugins()))
	return doc, nil
}

func (r *Runner) resolve(ctx context.Context, doc *catalog.Document, repos []repository.Descriptor, stableOnly bool, filter string) (*resolve.Report, error) {
	var m *resolve.Matcher
	if filter != "" {
		var err error
		if m, err = resolve.CompileGlob(filter); err != nil {
			return nil, err
		}
	}
	if len(repos) == 0 {
		repos = repository.Defaults()
	}

	start := time.Now()
	report, err := resolve.NewEngine(r.Query, r.Logger).Resolve(ctx, doc, resolve.Options{
		StableOnly:   stableOnly,
		Filter:       m,
		Repositories: repos,
	})
	if err != nil {
		return nil, err
	}
	if m != nil && report.Len() == 0 && len(report.Errors) == 0 {
		r.Logger.Info("no updates match filter", "filter", filter)
	}
	r.Logger.Info("resolved updates",
		"updates", report.Len(),
		"errors", len(report.Errors),
		"duration", time.Since(start))
	return report, nil
}
