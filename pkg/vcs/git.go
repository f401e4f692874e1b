// Package vcs commits catalog changes to a fresh git branch.
package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gvc/pkg/errors"
)

const (
	// DefaultBranchPrefix starts every update branch name.
	DefaultBranchPrefix = "deps/update-"

	// DefaultMessage is the commit message used when none is configured.
	DefaultMessage = "chore(deps): update dependencies to latest versions"

	maxBranchLen = 50
)

// Runner executes git with args in dir and returns its standard output.
// A non-zero exit must be reported as an error carrying standard error.
type Runner func(ctx context.Context, dir string, args ...string) ([]byte, error)

// ExecRunner runs the git binary found on PATH.
func ExecRunner(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", dir}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Options tune a [Git]. Zero fields take defaults.
type Options struct {
	BranchPrefix string           // Default DefaultBranchPrefix
	Runner       Runner           // Default ExecRunner
	Now          func() time.Time // Default time.Now
	Logger       *log.Logger      // Default log.Default()
}

// Git performs the version control steps of an update.
type Git struct {
	dir    string
	prefix string
	run    Runner
	now    func() time.Time
	logger *log.Logger
}

// Result describes a commit made by [Git.Commit].
type Result struct {
	Branch string   `json:"branch" yaml:"branch"`
	Files  []string `json:"files" yaml:"files"`
}

// NewGit creates a Git for the repository at dir, which must be an
// absolute path free of shell metacharacters.
func NewGit(dir string, opts Options) (*Git, error) {
	if err := errors.ValidatePath(dir); err != nil {
		return nil, errors.Wrap(errors.ErrCodeVCS, err, "unsafe repository path")
	}
	if !filepath.IsAbs(dir) {
		return nil, errors.New(errors.ErrCodeVCS, "repository path must be absolute: %s", dir)
	}
	g := &Git{
		dir:    dir,
		prefix: opts.BranchPrefix,
		run:    opts.Runner,
		now:    opts.Now,
		logger: opts.Logger,
	}
	if g.prefix == "" {
		g.prefix = DefaultBranchPrefix
	}
	if g.run == nil {
		if _, err := exec.LookPath("git"); err != nil {
			return nil, errors.Wrap(errors.ErrCodeVCS, err, "git executable not found")
		}
		g.run = ExecRunner
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.logger == nil {
		g.logger = log.Default()
	}
	return g, nil
}

// EnsureClean reports whether the working tree has no changes, tracked or
// untracked.
func (g *Git) EnsureClean(ctx context.Context) (bool, error) {
	out, err := g.run(ctx, g.dir, "status", "--porcelain")
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeVCS, err, "check working tree")
	}
	return len(bytes.TrimSpace(out)) == 0, nil
}

// Commit creates a new dated branch, stages paths and commits them with
// message. Paths must be inside the repository.
func (g *Git) Commit(ctx context.Context, paths []string, message string) (Result, error) {
	if len(paths) == 0 {
		return Result{}, errors.New(errors.ErrCodeVCS, "nothing to commit")
	}
	if message == "" {
		message = DefaultMessage
	}
	files := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := g.rel(p)
		if err != nil {
			return Result{}, err
		}
		files = append(files, rel)
	}

	branch, err := g.freeBranch(ctx)
	if err != nil {
		return Result{}, err
	}
	steps := [][]string{
		{"checkout", "-b", branch},
		append([]string{"add", "--"}, files...),
		{"commit", "-m", message},
	}
	for _, args := range steps {
		g.logger.Debug("git", "args", strings.Join(args, " "))
		if _, err := g.run(ctx, g.dir, args...); err != nil {
			return Result{}, errors.Wrap(errors.ErrCodeVCS, err, "git %s", args[0])
		}
	}
	g.logger.Info("committed catalog changes", "branch", branch, "files", len(files))
	return Result{Branch: branch, Files: files}, nil
}

func (g *Git) rel(path string) (string, error) {
	if err := errors.ValidatePath(path); err != nil {
		return "", errors.Wrap(errors.ErrCodeVCS, err, "refusing to stage %s", path)
	}
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(g.dir, path)
	}
	rel, err := filepath.Rel(g.dir, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.New(errors.ErrCodeVCS, "refusing to stage %s outside the repository", path)
	}
	return filepath.ToSlash(rel), nil
}

// freeBranch returns the dated branch name, suffixed -2, -3, ... when a
// branch of that name already exists.
func (g *Git) freeBranch(ctx context.Context) (string, error) {
	base := BranchName(g.prefix, g.now())
	for n := 1; n < 100; n++ {
		name := base
		if n > 1 {
			suffix := fmt.Sprintf("-%d", n)
			name = truncate(base, maxBranchLen-len(suffix)) + suffix
		}
		exists, err := g.branchExists(ctx, name)
		if err != nil {
			return "", err
		}
		if !exists {
			return name, nil
		}
	}
	return "", errors.New(errors.ErrCodeVCS, "no free branch name for %s", base)
}

func (g *Git) branchExists(ctx context.Context, name string) (bool, error) {
	out, err := g.run(ctx, g.dir, "branch", "--list", name)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeVCS, err, "list branches")
	}
	return len(bytes.TrimSpace(out)) > 0, nil
}

var unsafeBranchChars = regexp.MustCompile(`[^A-Za-z0-9_/-]`)

// BranchName returns prefix followed by the date of t as YYYY-MM-DD,
// with unsafe characters replaced by '-' and capped at 50 characters.
func BranchName(prefix string, t time.Time) string {
	name := unsafeBranchChars.ReplaceAllString(prefix+t.Format("2006-01-02"), "-")
	return truncate(name, maxBranchLen)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
