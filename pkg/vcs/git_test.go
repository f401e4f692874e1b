package vcs

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/gvc/pkg/errors"
)

var fixedNow = func() time.Time { return time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC) }

// fakeGit records invocations and answers from a table keyed by the first
// argument.
type fakeGit struct {
	calls    []string
	branches map[string]bool
	status   string
	fail     string
}

func (f *fakeGit) run(_ context.Context, _ string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, strings.Join(args, " "))
	if args[0] == f.fail {
		return nil, fmt.Errorf("git %s: exit status 128", args[0])
	}
	switch args[0] {
	case "status":
		return []byte(f.status), nil
	case "branch":
		if f.branches[args[2]] {
			return []byte("  " + args[2] + "\n"), nil
		}
	}
	return nil, nil
}

func newFake(t *testing.T, f *fakeGit) *Git {
	t.Helper()
	g, err := NewGit("/work/project", Options{Runner: f.run, Now: fixedNow})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestEnsureClean(t *testing.T) {
	for status, want := range map[string]bool{"": true, "\n": true, " M gradle/libs.versions.toml\n": false, "?? new.txt\n": false} {
		g := newFake(t, &fakeGit{status: status})
		got, err := g.EnsureClean(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("EnsureClean() with %q = %v, want %v", status, got, want)
		}
	}

	g := newFake(t, &fakeGit{fail: "status"})
	if _, err := g.EnsureClean(context.Background()); !errors.Is(err, errors.ErrCodeVCS) {
		t.Errorf("EnsureClean() error = %v, want VCS_ERROR", err)
	}
}

func TestCommit(t *testing.T) {
	f := &fakeGit{}
	g := newFake(t, f)
	res, err := g.Commit(context.Background(), []string{"/work/project/gradle/libs.versions.toml"}, "")
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if res.Branch != "deps/update-2024-03-07" {
		t.Errorf("Branch = %q", res.Branch)
	}
	want := []string{
		"branch --list deps/update-2024-03-07",
		"checkout -b deps/update-2024-03-07",
		"add -- gradle/libs.versions.toml",
		"commit -m " + DefaultMessage,
	}
	if fmt.Sprint(f.calls) != fmt.Sprint(want) {
		t.Errorf("calls = %q\nwant %q", f.calls, want)
	}
}

func TestCommitBranchTaken(t *testing.T) {
	f := &fakeGit{branches: map[string]bool{
		"deps/update-2024-03-07":   true,
		"deps/update-2024-03-07-2": true,
	}}
	res, err := newFake(t, f).Commit(context.Background(), []string{"gradle/libs.versions.toml"}, "msg")
	if err != nil {
		t.Fatal(err)
	}
	if res.Branch != "deps/update-2024-03-07-3" {
		t.Errorf("Branch = %q, want deps/update-2024-03-07-3", res.Branch)
	}
}

func TestCommitErrors(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		fail  string
	}{
		{"no paths", nil, ""},
		{"outside repository", []string{"/etc/passwd"}, ""},
		{"traversal", []string{"../other/file"}, ""},
		{"metacharacters", []string{"gradle/$(evil).toml"}, ""},
		{"checkout fails", []string{"gradle/libs.versions.toml"}, "checkout"},
		{"commit fails", []string{"gradle/libs.versions.toml"}, "commit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newFake(t, &fakeGit{fail: tt.fail}).Commit(context.Background(), tt.paths, "msg")
			if !errors.Is(err, errors.ErrCodeVCS) {
				t.Errorf("Commit() error = %v, want VCS_ERROR", err)
			}
		})
	}
}

func TestNewGitRejectsUnsafePaths(t *testing.T) {
	for _, dir := range []string{"relative/dir", "/tmp/a;b", ""} {
		if _, err := NewGit(dir, Options{Runner: (&fakeGit{}).run}); !errors.Is(err, errors.ErrCodeVCS) {
			t.Errorf("NewGit(%q) error = %v, want VCS_ERROR", dir, err)
		}
	}
}

func TestBranchName(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"deps/update-", "deps/update-2024-03-07"},
		{"deps update:", "deps-update-2024-03-07"},
		{strings.Repeat("x", 60), strings.Repeat("x", 50)},
	}
	for _, tt := range tests {
		if got := BranchName(tt.prefix, fixedNow()); got != tt.want {
			t.Errorf("BranchName(%q) = %q, want %q", tt.prefix, got, tt.want)
		}
	}
}

func TestCommitWithGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	ctx := context.Background()
	dir := t.TempDir()
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	git := func(args ...string) {
		t.Helper()
		cmd := exec.CommandContext(ctx, "git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	catalog := filepath.Join(dir, "gradle", "libs.versions.toml")
	if err := os.MkdirAll(filepath.Dir(catalog), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(catalog, []byte("[versions]\na = \"1.0\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	git("init", "-q")
	git("config", "user.email", "test@test.com")
	git("config", "user.name", "Test")
	git("add", "-A")
	git("commit", "-q", "-m", "initial")

	g, err := NewGit(dir, Options{Now: fixedNow})
	if err != nil {
		t.Fatal(err)
	}
	clean, err := g.EnsureClean(ctx)
	if err != nil || !clean {
		t.Fatalf("EnsureClean() = %v, %v", clean, err)
	}

	if err := os.WriteFile(catalog, []byte("[versions]\na = \"2.0\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if clean, _ := g.EnsureClean(ctx); clean {
		t.Fatal("EnsureClean() = true with a modified catalog")
	}

	res, err := g.Commit(ctx, []string{catalog}, "update a")
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if res.Branch != "deps/update-2024-03-07" {
		t.Errorf("Branch = %q", res.Branch)
	}
	if clean, _ := g.EnsureClean(ctx); !clean {
		t.Error("working tree dirty after commit")
	}
}
