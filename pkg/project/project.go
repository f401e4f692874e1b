// Package project locates the version catalog of a Gradle project.
package project

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/gvc/pkg/errors"
)

// CatalogFile is the catalog location relative to the project root.
const CatalogFile = "gradle/libs.versions.toml"

// wrappers are the Gradle wrapper scripts, one of which must exist.
var wrappers = []string{"gradlew", "gradlew.bat"}

// systemDirs may never be used as a project root.
var systemDirs = []string{"/etc", "/sys", "/proc", "/dev", "/boot"}

// Project is a validated Gradle project.
type Project struct {
	Root        string // Absolute, symlink-resolved project directory
	CatalogPath string // Absolute path of gradle/libs.versions.toml
	Wrapper     string // Path of the wrapper script found
	HasGit      bool   // Root contains a .git directory or file
}

// Open validates dir as a Gradle project root.
//
// The directory must exist outside system directories and contain a Gradle
// wrapper and a version catalog. Every failure is a VALIDATION_ERROR,
// except malformed paths which are INVALID_PATH.
func Open(dir string) (*Project, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeValidation, err, "resolve project path %s", dir)
	}
	if err := errors.ValidatePath(abs); err != nil {
		return nil, err
	}
	root, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeValidation, err, "project directory %s", abs)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeValidation, err, "project directory %s", root)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeValidation, "%s is not a directory", root)
	}
	for _, sys := range systemDirs {
		if root == sys || strings.HasPrefix(root, sys+string(filepath.Separator)) {
			return nil, errors.New(errors.ErrCodeValidation, "refusing to operate on system directory %s", sys)
		}
	}

	p := &Project{Root: root}
	for _, w := range wrappers {
		if path := filepath.Join(root, w); isFile(path) {
			p.Wrapper = path
			break
		}
	}
	if p.Wrapper == "" {
		return nil, errors.New(errors.ErrCodeValidation, "gradle wrapper (gradlew or gradlew.bat) not found in %s", root)
	}

	p.CatalogPath = filepath.Join(root, filepath.FromSlash(CatalogFile))
	if !isFile(p.CatalogPath) {
		return nil, errors.New(errors.ErrCodeValidation, "%s not found in %s", CatalogFile, root)
	}

	if _, err := os.Stat(filepath.Join(root, ".git")); err == nil {
		p.HasGit = true
	}
	return p, nil
}

// Rel returns path relative to the project root, for messages and git.
func (p *Project) Rel(path string) string {
	if rel, err := filepath.Rel(p.Root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return path
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
