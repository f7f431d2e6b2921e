package ops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupRestore_RoundTrip(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "saves.json"), []byte(`{"profiles":{}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "notes.txt"), []byte("keep"), 0o644))
	// Subdirectories are not part of a backup.
	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "nested", "skip.json"), []byte("x"), 0o644))

	archive := filepath.Join(t.TempDir(), "backup.tar.gz")
	require.NoError(t, BackupSaveDir(src, archive))

	dst := t.TempDir()
	require.NoError(t, RestoreSaveDir(archive, dst))

	got, err := os.ReadFile(filepath.Join(dst, "saves.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"profiles":{}}`, string(got))

	got, err = os.ReadFile(filepath.Join(dst, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "keep", string(got))

	_, err = os.Stat(filepath.Join(dst, "skip.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestBackupSaveDir_MissingSource(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "backup.tar.gz")
	err := BackupSaveDir(filepath.Join(t.TempDir(), "nope"), archive)
	require.Error(t, err)
}

func TestBackupSaveDir_SourceNotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	err := BackupSaveDir(file, filepath.Join(t.TempDir(), "backup.tar.gz"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestRestoreSaveDir_MissingArchive(t *testing.T) {
	err := RestoreSaveDir(filepath.Join(t.TempDir(), "nope.tar.gz"), t.TempDir())
	require.Error(t, err)
}
