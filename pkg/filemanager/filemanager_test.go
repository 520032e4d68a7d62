package filemanager

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const marker = "# managed\n"

func newManager() *Manager {
	return New(func(content []byte) bool {
		return bytes.HasPrefix(content, []byte(marker))
	})
}

func tempDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "filemanager")
	require.NoError(t, err)

	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	return dir
}

func TestManager_Ensure(t *testing.T) {
	m := newManager()
	path := filepath.Join(tempDir(t), "logrotate.d", "nginx")

	changed, err := m.Ensure(path, []byte(marker+"v1"), 0644)

	assert.Nil(t, err)
	assert.True(t, changed)
	assert.FileExists(t, path)

	content, _ := ioutil.ReadFile(path)
	assert.Equal(t, marker+"v1", string(content))

	// same content again
	changed, err = m.Ensure(path, []byte(marker+"v1"), 0644)

	assert.Nil(t, err)
	assert.False(t, changed)

	// new content
	changed, err = m.Ensure(path, []byte(marker+"v2"), 0644)

	assert.Nil(t, err)
	assert.True(t, changed)

	content, _ = ioutil.ReadFile(path)
	assert.Equal(t, marker+"v2", string(content))

	// new mode only
	changed, err = m.Ensure(path, []byte(marker+"v2"), 0600)

	assert.Nil(t, err)
	assert.True(t, changed)

	si, _ := os.Stat(path)
	assert.Equal(t, os.FileMode(0600), si.Mode().Perm())

	// no temp files are left behind
	entries, _ := ioutil.ReadDir(filepath.Dir(path))
	assert.Len(t, entries, 1)
}

func TestManager_Ensure_Error(t *testing.T) {
	m := newManager()
	dir := tempDir(t)

	blocker := filepath.Join(dir, "not_a_directory")
	require.NoError(t, ioutil.WriteFile(blocker, []byte("x"), 0644))

	changed, err := m.Ensure(filepath.Join(blocker, "nginx"), []byte(marker), 0644)

	assert.NotNil(t, err)
	assert.False(t, changed)
}

func TestManager_ListManagedAndRemove(t *testing.T) {
	m := newManager()
	dir := tempDir(t)

	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "apt"), []byte("/var/log/apt/term.log {\n}\n"), 0644))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "nginx"), []byte(marker+"nginx"), 0644))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "old"), []byte(marker+"old"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))

	managed, err := m.ListManaged(dir)

	assert.Nil(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "nginx"), filepath.Join(dir, "old")}, managed)

	assert.Nil(t, m.Remove(filepath.Join(dir, "old")))
	assert.Nil(t, m.Remove(filepath.Join(dir, "old")))

	_, err = os.Stat(filepath.Join(dir, "old"))
	assert.True(t, os.IsNotExist(err))
}

func TestManager_ListManaged_MissingDirectory(t *testing.T) {
	managed, err := newManager().ListManaged("/bad_directory/logrotate.d")

	assert.Nil(t, err)
	assert.Empty(t, managed)
}
