package catalog

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/gvc/pkg/errors"
)

// Save writes d to path atomically: the document is re-validated, written
// to a temporary file in the same directory, synced, and renamed over path.
// On any failure the original file is left untouched.
func Save(path string, d *Document) error {
	if err := validate(d.src); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "refusing to write invalid catalog")
	}

	dir := filepath.Dir(path)
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create temp file in %s", dir)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(d.src); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", tmpName)
	}
	if err := tmp.Sync(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "sync %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "close %s", tmpName)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "chmod %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "replace %s", path)
	}
	committed = true
	return nil
}
