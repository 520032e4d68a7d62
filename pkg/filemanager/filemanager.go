package filemanager

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Manager writes generated config files. A file is considered managed when its
// content starts with a marker, everything else in a directory is left alone.
type Manager struct {
	isManaged func([]byte) bool
}

func New(isManaged func([]byte) bool) *Manager {
	return &Manager{
		isManaged: isManaged,
	}
}

// Ensure makes file at path have given content and mode. It reports whether
// anything on disk was changed. Content is replaced atomically.
func (m *Manager) Ensure(path string, content []byte, mode os.FileMode) (bool, error) {
	current, err := ioutil.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	if err == nil && bytes.Equal(current, content) {
		si, err := os.Stat(path)
		if err != nil {
			return false, err
		}

		if si.Mode().Perm() == mode.Perm() {
			return false, nil
		}

		return true, os.Chmod(path, mode)
	}

	err = os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return false, err
	}

	return true, writeFile(path, content, mode)
}

func writeFile(path string, content []byte, mode os.FileMode) (err error) {
	// temp file must be on the same mount point for rename to be atomic
	tmp, err := ioutil.TempFile(filepath.Dir(path), "."+filepath.Base(path)+".")
	if err != nil {
		return
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	_, err = tmp.Write(content)
	if err != nil {
		_ = tmp.Close()
		return
	}

	err = tmp.Sync()
	if err != nil {
		_ = tmp.Close()
		return
	}

	err = tmp.Close()
	if err != nil {
		return
	}

	err = os.Chmod(tmp.Name(), mode)
	if err != nil {
		return
	}

	return os.Rename(tmp.Name(), path)
}

func (m *Manager) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ListManaged returns paths of managed regular files in dir. Missing dir has no files.
func (m *Manager) ListManaged(dir string) ([]string, error) {
	entries, err := ioutil.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to read directory %s", dir)
	}

	var result []string

	for _, entry := range entries {
		// Skip directories, symlinks etc.
		if !entry.Mode().IsRegular() {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		content, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, err
		}

		if m.isManaged(content) {
			result = append(result, path)
		}
	}

	return result, nil
}
