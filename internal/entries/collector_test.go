package entries_test

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/repofeed/internal/entries"
	"github.com/temirov/repofeed/internal/filesystem"
	"github.com/temirov/repofeed/internal/gitlog"
)

const (
	testEntriesDirectoryConstant  = "experiments"
	testEntryDocumentConstant     = "README.md"
	testSubtestTemplateConstant   = "%d_%s"
	testDirectoryPermissions      = 0o755
	testFilePermissions           = 0o644
	testCommitTimestampConstant   = "2024-03-02T18:45:00+13:00"
	testCommitAuthorNameConstant  = "Tony Meyer"
	testCommitAuthorEmailConstant = "tony@example.com"
)

type stubCommitLookup struct {
	commits        map[string]gitlog.Commit
	lookupError    error
	requestedPaths []string
}

func (lookup *stubCommitLookup) LastCommit(_ context.Context, _ string, path string) (gitlog.Commit, bool, error) {
	lookup.requestedPaths = append(lookup.requestedPaths, path)
	if lookup.lookupError != nil {
		return gitlog.Commit{}, false, lookup.lookupError
	}
	commit, found := lookup.commits[path]
	return commit, found, nil
}

type failingReadFileSystem struct {
	filesystem.OSFileSystem
	readError error
}

func (fileSystem failingReadFileSystem) ReadFile(string) ([]byte, error) {
	return nil, fileSystem.readError
}

type failingListFileSystem struct {
	filesystem.OSFileSystem
	listError error
}

func (fileSystem failingListFileSystem) ReadDir(string) ([]fs.DirEntry, error) {
	return nil, fileSystem.listError
}

func defaultSettings() entries.CollectorSettings {
	return entries.CollectorSettings{
		EntriesDirectory: testEntriesDirectoryConstant,
		EntryDocument:    testEntryDocumentConstant,
	}
}

func createEntry(testInstance *testing.T, repositoryRoot string, directoryName string, documentContent *string) {
	testInstance.Helper()
	entryDirectory := filepath.Join(repositoryRoot, testEntriesDirectoryConstant, directoryName)
	require.NoError(testInstance, os.MkdirAll(entryDirectory, testDirectoryPermissions))
	if documentContent != nil {
		require.NoError(testInstance, os.WriteFile(filepath.Join(entryDirectory, testEntryDocumentConstant), []byte(*documentContent), testFilePermissions))
	}
}

func stringPointer(value string) *string {
	return &value
}

func TestNewCollectorValidatesInputs(testInstance *testing.T) {
	testCases := []struct {
		name          string
		dependencies  entries.CollectorDependencies
		settings      entries.CollectorSettings
		expectedError error
	}{
		{
			name:          "missing_commit_lookup",
			settings:      defaultSettings(),
			expectedError: entries.ErrCommitLookupNotConfigured,
		},
		{
			name:          "missing_entries_directory",
			dependencies:  entries.CollectorDependencies{CommitLookup: &stubCommitLookup{}},
			settings:      entries.CollectorSettings{EntryDocument: testEntryDocumentConstant},
			expectedError: entries.ErrEntriesDirectoryRequired,
		},
		{
			name:          "missing_entry_document",
			dependencies:  entries.CollectorDependencies{CommitLookup: &stubCommitLookup{}},
			settings:      entries.CollectorSettings{EntriesDirectory: testEntriesDirectoryConstant, EntryDocument: " "},
			expectedError: entries.ErrEntryDocumentRequired,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			collector, creationError := entries.NewCollector(testCase.dependencies, testCase.settings)
			require.ErrorIs(testInstance, creationError, testCase.expectedError)
			require.Nil(testInstance, collector)
		})
	}
}

func TestCollectSelectsQualifyingDirectories(testInstance *testing.T) {
	repositoryRoot := testInstance.TempDir()
	createEntry(testInstance, repositoryRoot, "2024-01-15-example", stringPointer("Hello world"))
	createEntry(testInstance, repositoryRoot, "2023-12-31-year-end-review", stringPointer("# Review\n"))
	createEntry(testInstance, repositoryRoot, "2024-02-01-no-readme", nil)
	createEntry(testInstance, repositoryRoot, "notes", stringPointer("ignored"))
	createEntry(testInstance, repositoryRoot, "2024-1-15-short-month", stringPointer("ignored"))
	createEntry(testInstance, repositoryRoot, "2024-01-15-", stringPointer("ignored"))
	require.NoError(testInstance, os.WriteFile(filepath.Join(repositoryRoot, testEntriesDirectoryConstant, "2024-01-20-plain-file"), []byte("file"), testFilePermissions))

	lookup := &stubCommitLookup{commits: map[string]gitlog.Commit{
		"experiments/2023-12-31-year-end-review": {AuthorName: testCommitAuthorNameConstant, AuthorEmail: testCommitAuthorEmailConstant, Timestamp: testCommitTimestampConstant},
	}}
	collector, creationError := entries.NewCollector(entries.CollectorDependencies{CommitLookup: lookup}, defaultSettings())
	require.NoError(testInstance, creationError)

	collected, collectError := collector.Collect(context.Background(), repositoryRoot)
	require.NoError(testInstance, collectError)
	require.Equal(testInstance, []entries.Entry{
		{
			Year:        2023,
			Month:       12,
			Day:         31,
			Date:        "2023-12-31",
			Name:        "year-end-review",
			Directory:   "2023-12-31-year-end-review",
			Content:     "# Review\n",
			AuthorName:  testCommitAuthorNameConstant,
			AuthorEmail: testCommitAuthorEmailConstant,
			Timestamp:   testCommitTimestampConstant,
		},
		{
			Year:        2024,
			Month:       1,
			Day:         15,
			Date:        "2024-01-15",
			Name:        "example",
			Directory:   "2024-01-15-example",
			Content:     "Hello world",
			AuthorName:  "Unknown",
			AuthorEmail: "unknown@example.com",
			Timestamp:   "2024-01-15T00:00:00+00:00",
		},
	}, collected)
	require.Equal(testInstance, []string{"experiments/2023-12-31-year-end-review", "experiments/2024-01-15-example"}, lookup.requestedPaths)
}

func TestCollectFallsBackWhenLookupFails(testInstance *testing.T) {
	repositoryRoot := testInstance.TempDir()
	createEntry(testInstance, repositoryRoot, "2024-05-09-flaky-lookup", stringPointer("content"))

	observedCore, observedLogs := observer.New(zapcore.DebugLevel)
	collector, creationError := entries.NewCollector(
		entries.CollectorDependencies{Logger: zap.New(observedCore), CommitLookup: &stubCommitLookup{lookupError: errors.New("git missing")}},
		entries.CollectorSettings{
			EntriesDirectory:    testEntriesDirectoryConstant,
			EntryDocument:       testEntryDocumentConstant,
			FallbackAuthorName:  "Site Bot",
			FallbackAuthorEmail: "bot@example.com",
		},
	)
	require.NoError(testInstance, creationError)

	collected, collectError := collector.Collect(context.Background(), repositoryRoot)
	require.NoError(testInstance, collectError)
	require.Len(testInstance, collected, 1)
	require.Equal(testInstance, "Site Bot", collected[0].AuthorName)
	require.Equal(testInstance, "bot@example.com", collected[0].AuthorEmail)
	require.Equal(testInstance, "2024-05-09T00:00:00+00:00", collected[0].Timestamp)
	require.Equal(testInstance, 1, observedLogs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestCollectReturnsNothingWhenEntriesDirectoryIsMissing(testInstance *testing.T) {
	collector, creationError := entries.NewCollector(entries.CollectorDependencies{CommitLookup: &stubCommitLookup{}}, defaultSettings())
	require.NoError(testInstance, creationError)

	collected, collectError := collector.Collect(context.Background(), testInstance.TempDir())
	require.NoError(testInstance, collectError)
	require.Empty(testInstance, collected)
}

func TestCollectPropagatesFilesystemFailures(testInstance *testing.T) {
	permissionFailure := fs.ErrPermission

	testCases := []struct {
		name       string
		fileSystem filesystem.FileSystem
	}{
		{
			name:       "listing",
			fileSystem: failingListFileSystem{listError: permissionFailure},
		},
		{
			name:       "reading",
			fileSystem: failingReadFileSystem{readError: permissionFailure},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			repositoryRoot := testInstance.TempDir()
			createEntry(testInstance, repositoryRoot, "2024-01-15-example", stringPointer("Hello world"))

			collector, creationError := entries.NewCollector(
				entries.CollectorDependencies{FileSystem: testCase.fileSystem, CommitLookup: &stubCommitLookup{}},
				defaultSettings(),
			)
			require.NoError(testInstance, creationError)

			collected, collectError := collector.Collect(context.Background(), repositoryRoot)
			require.ErrorIs(testInstance, collectError, permissionFailure)
			require.Nil(testInstance, collected)
		})
	}
}

func TestCollectSkipsDanglingEntryLinks(testInstance *testing.T) {
	repositoryRoot := testInstance.TempDir()
	createEntry(testInstance, repositoryRoot, "2024-01-15-example", stringPointer("Hello world"))
	danglingLink := filepath.Join(repositoryRoot, testEntriesDirectoryConstant, "2024-02-01-broken")
	if symlinkError := os.Symlink(filepath.Join(repositoryRoot, "missing"), danglingLink); symlinkError != nil {
		testInstance.Skipf("symlinks unavailable: %v", symlinkError)
	}

	collector, creationError := entries.NewCollector(entries.CollectorDependencies{CommitLookup: &stubCommitLookup{}}, defaultSettings())
	require.NoError(testInstance, creationError)

	collected, collectError := collector.Collect(context.Background(), repositoryRoot)
	require.NoError(testInstance, collectError)
	require.Len(testInstance, collected, 1)
	require.Equal(testInstance, "2024-01-15-example", collected[0].Directory)
}

func TestCollectRejectsDocumentsThatAreNotUTF8(testInstance *testing.T) {
	repositoryRoot := testInstance.TempDir()
	createEntry(testInstance, repositoryRoot, "2024-01-15-cafe", stringPointer("caf\xe9"))

	collector, creationError := entries.NewCollector(entries.CollectorDependencies{CommitLookup: &stubCommitLookup{}}, defaultSettings())
	require.NoError(testInstance, creationError)

	collected, collectError := collector.Collect(context.Background(), repositoryRoot)
	require.ErrorIs(testInstance, collectError, entries.ErrEntryDocumentNotUTF8)
	require.Nil(testInstance, collected)
}
