package filesystem_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repofeed/internal/filesystem"
)

func TestOSFileSystemRoundTripsFilesAndListsSortedEntries(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	fileSystem := filesystem.Resolve(nil)

	require.NoError(testInstance, os.Mkdir(filepath.Join(rootDirectory, "b-directory"), 0o755))
	require.NoError(testInstance, fileSystem.WriteFile(filepath.Join(rootDirectory, "a-file.txt"), []byte("first"), 0o644))
	require.NoError(testInstance, fileSystem.WriteFile(filepath.Join(rootDirectory, "a-file.txt"), []byte("second"), 0o644))

	content, readError := fileSystem.ReadFile(filepath.Join(rootDirectory, "a-file.txt"))
	require.NoError(testInstance, readError)
	require.Equal(testInstance, "second", string(content))

	entries, listError := fileSystem.ReadDir(rootDirectory)
	require.NoError(testInstance, listError)
	require.Len(testInstance, entries, 2)
	require.Equal(testInstance, "a-file.txt", entries[0].Name())
	require.True(testInstance, entries[1].IsDir())

	_, statError := fileSystem.Stat(filepath.Join(rootDirectory, "missing"))
	require.ErrorIs(testInstance, statError, os.ErrNotExist)
}

type stubFileSystem struct {
	filesystem.OSFileSystem
}

func TestResolvePrefersProvidedFileSystem(testInstance *testing.T) {
	provided := stubFileSystem{}
	require.Equal(testInstance, provided, filesystem.Resolve(provided))
}
