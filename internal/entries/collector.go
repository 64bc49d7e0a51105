package entries

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/temirov/repofeed/internal/filesystem"
	"github.com/temirov/repofeed/internal/gitlog"
)

const (
	entryDirectoryPatternConstant           = `^(\d{4})-(\d{2})-(\d{2})-(.+)$`
	entryDateTemplateConstant               = "%s-%s-%s"
	fallbackTimestampSuffixConstant         = "T00:00:00+00:00"
	commitLookupMissingMessageConstant      = "commit lookup not configured"
	entriesDirectoryRequiredMessageConstant = "entries directory must be provided"
	entryDocumentRequiredMessageConstant    = "entry document must be provided"
	listEntriesErrorTemplateConstant        = "unable to list entries directory %s: %w"
	inspectEntryErrorTemplateConstant       = "unable to inspect entry %s: %w"
	readEntryDocumentErrorTemplateConstant  = "unable to read entry document %s: %w"
	entryDocumentEncodingMessageConstant    = "entry document is not valid UTF-8"
	entriesDirectoryMissingMessageConstant  = "Entries directory not found"
	entrySkippedMessageConstant             = "Skipping directory that is not an entry"
	entryDocumentMissingMessageConstant     = "Skipping entry without document"
	entryDirectoryDanglingMessageConstant   = "Skipping entry that no longer resolves"
	commitLookupFailedMessageConstant       = "Commit lookup failed, using fallback authorship"
	commitLookupEmptyMessageConstant        = "No commit touches entry, using fallback authorship"
	entriesCollectedMessageConstant         = "Collected entries"
	entriesDirectoryFieldNameConstant       = "entries_directory"
	entryDirectoryFieldNameConstant         = "entry_directory"
	entryDocumentFieldNameConstant          = "entry_document"
	entryCountFieldNameConstant             = "entry_count"
	defaultFallbackAuthorNameConstant       = "Unknown"
	defaultFallbackAuthorEmailConstant      = "unknown@example.com"
)

var entryDirectoryPattern = regexp.MustCompile(entryDirectoryPatternConstant)

// ErrCommitLookupNotConfigured indicates the collector was constructed without a CommitLookup.
var ErrCommitLookupNotConfigured = errors.New(commitLookupMissingMessageConstant)

// ErrEntriesDirectoryRequired indicates the settings carried no entries directory.
var ErrEntriesDirectoryRequired = errors.New(entriesDirectoryRequiredMessageConstant)

// ErrEntryDocumentNotUTF8 indicates an entry document holds bytes that are not valid UTF-8.
var ErrEntryDocumentNotUTF8 = errors.New(entryDocumentEncodingMessageConstant)

// ErrEntryDocumentRequired indicates the settings carried no entry document name.
var ErrEntryDocumentRequired = errors.New(entryDocumentRequiredMessageConstant)

// CommitLookup resolves the last commit touching a path relative to the repository root.
type CommitLookup interface {
	LastCommit(executionContext context.Context, repositoryRoot string, path string) (gitlog.Commit, bool, error)
}

// Entry is one dated entry directory together with its document and authorship.
type Entry struct {
	Year        int
	Month       int
	Day         int
	Date        string
	Name        string
	Directory   string
	Content     string
	AuthorName  string
	AuthorEmail string
	Timestamp   string
}

// CollectorDependencies describes the collaborators required by Collector.
type CollectorDependencies struct {
	Logger       *zap.Logger
	FileSystem   filesystem.FileSystem
	CommitLookup CommitLookup
}

// CollectorSettings configures where entries live and how missing authorship is reported.
type CollectorSettings struct {
	EntriesDirectory    string
	EntryDocument       string
	FallbackAuthorName  string
	FallbackAuthorEmail string
}

// Collector gathers entries from the entries directory of a repository.
type Collector struct {
	logger       *zap.Logger
	fileSystem   filesystem.FileSystem
	commitLookup CommitLookup
	settings     CollectorSettings
}

// NewCollector validates dependencies and settings and constructs a Collector.
func NewCollector(dependencies CollectorDependencies, settings CollectorSettings) (*Collector, error) {
	if dependencies.CommitLookup == nil {
		return nil, ErrCommitLookupNotConfigured
	}

	settings.EntriesDirectory = strings.TrimSpace(settings.EntriesDirectory)
	if len(settings.EntriesDirectory) == 0 {
		return nil, ErrEntriesDirectoryRequired
	}
	settings.EntryDocument = strings.TrimSpace(settings.EntryDocument)
	if len(settings.EntryDocument) == 0 {
		return nil, ErrEntryDocumentRequired
	}
	if len(strings.TrimSpace(settings.FallbackAuthorName)) == 0 {
		settings.FallbackAuthorName = defaultFallbackAuthorNameConstant
	}
	if len(strings.TrimSpace(settings.FallbackAuthorEmail)) == 0 {
		settings.FallbackAuthorEmail = defaultFallbackAuthorEmailConstant
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Collector{
		logger:       logger,
		fileSystem:   filesystem.Resolve(dependencies.FileSystem),
		commitLookup: dependencies.CommitLookup,
		settings:     settings,
	}, nil
}

// Collect returns the qualifying entries under repositoryRoot in lexicographic directory order.
// A missing entries directory yields no entries; failing to list it or to read an entry document is an error.
func (collector *Collector) Collect(executionContext context.Context, repositoryRoot string) ([]Entry, error) {
	entriesDirectoryPath := filepath.Join(repositoryRoot, collector.settings.EntriesDirectory)

	directoryEntries, listError := collector.fileSystem.ReadDir(entriesDirectoryPath)
	if listError != nil {
		if errors.Is(listError, fs.ErrNotExist) {
			collector.logger.Debug(entriesDirectoryMissingMessageConstant, zap.String(entriesDirectoryFieldNameConstant, entriesDirectoryPath))
			return nil, nil
		}
		return nil, fmt.Errorf(listEntriesErrorTemplateConstant, entriesDirectoryPath, listError)
	}

	directoryNames := make([]string, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		directoryNames = append(directoryNames, directoryEntry.Name())
	}
	slices.Sort(directoryNames)

	var collected []Entry
	for _, directoryName := range directoryNames {
		entry, qualifies, entryError := collector.collectEntry(executionContext, repositoryRoot, entriesDirectoryPath, directoryName)
		if entryError != nil {
			return nil, entryError
		}
		if qualifies {
			collected = append(collected, entry)
		}
	}

	collector.logger.Debug(entriesCollectedMessageConstant,
		zap.String(entriesDirectoryFieldNameConstant, entriesDirectoryPath),
		zap.Int(entryCountFieldNameConstant, len(collected)),
	)

	return collected, nil
}

func (collector *Collector) collectEntry(executionContext context.Context, repositoryRoot string, entriesDirectoryPath string, directoryName string) (Entry, bool, error) {
	matches := entryDirectoryPattern.FindStringSubmatch(directoryName)
	if matches == nil {
		collector.logger.Debug(entrySkippedMessageConstant, zap.String(entryDirectoryFieldNameConstant, directoryName))
		return Entry{}, false, nil
	}

	entryDirectoryPath := filepath.Join(entriesDirectoryPath, directoryName)
	directoryInfo, directoryStatError := collector.fileSystem.Stat(entryDirectoryPath)
	if directoryStatError != nil {
		if errors.Is(directoryStatError, fs.ErrNotExist) {
			collector.logger.Debug(entryDirectoryDanglingMessageConstant, zap.String(entryDirectoryFieldNameConstant, directoryName))
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf(inspectEntryErrorTemplateConstant, entryDirectoryPath, directoryStatError)
	}
	if !directoryInfo.IsDir() {
		collector.logger.Debug(entrySkippedMessageConstant, zap.String(entryDirectoryFieldNameConstant, directoryName))
		return Entry{}, false, nil
	}

	documentPath := filepath.Join(entryDirectoryPath, collector.settings.EntryDocument)
	documentInfo, documentStatError := collector.fileSystem.Stat(documentPath)
	if documentStatError != nil {
		if errors.Is(documentStatError, fs.ErrNotExist) {
			collector.logger.Debug(entryDocumentMissingMessageConstant,
				zap.String(entryDirectoryFieldNameConstant, directoryName),
				zap.String(entryDocumentFieldNameConstant, collector.settings.EntryDocument),
			)
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf(inspectEntryErrorTemplateConstant, documentPath, documentStatError)
	}
	if documentInfo.IsDir() {
		collector.logger.Debug(entryDocumentMissingMessageConstant,
			zap.String(entryDirectoryFieldNameConstant, directoryName),
			zap.String(entryDocumentFieldNameConstant, collector.settings.EntryDocument),
		)
		return Entry{}, false, nil
	}

	documentContent, readError := collector.fileSystem.ReadFile(documentPath)
	if readError != nil {
		return Entry{}, false, fmt.Errorf(readEntryDocumentErrorTemplateConstant, documentPath, readError)
	}
	if !utf8.Valid(documentContent) {
		return Entry{}, false, fmt.Errorf(readEntryDocumentErrorTemplateConstant, documentPath, ErrEntryDocumentNotUTF8)
	}

	year, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	day, _ := strconv.Atoi(matches[3])
	entryDate := fmt.Sprintf(entryDateTemplateConstant, matches[1], matches[2], matches[3])

	entry := Entry{
		Year:      year,
		Month:     month,
		Day:       day,
		Date:      entryDate,
		Name:      matches[4],
		Directory: directoryName,
		Content:   string(documentContent),
	}

	relativePath := filepath.ToSlash(filepath.Join(collector.settings.EntriesDirectory, directoryName))
	commit, found, lookupError := collector.commitLookup.LastCommit(executionContext, repositoryRoot, relativePath)
	switch {
	case lookupError != nil:
		collector.logger.Warn(commitLookupFailedMessageConstant,
			zap.String(entryDirectoryFieldNameConstant, directoryName),
			zap.Error(lookupError),
		)
		collector.applyFallback(&entry)
	case !found:
		collector.logger.Debug(commitLookupEmptyMessageConstant, zap.String(entryDirectoryFieldNameConstant, directoryName))
		collector.applyFallback(&entry)
	default:
		entry.AuthorName = commit.AuthorName
		entry.AuthorEmail = commit.AuthorEmail
		entry.Timestamp = commit.Timestamp
	}

	return entry, true, nil
}

func (collector *Collector) applyFallback(entry *Entry) {
	entry.AuthorName = collector.settings.FallbackAuthorName
	entry.AuthorEmail = collector.settings.FallbackAuthorEmail
	entry.Timestamp = entry.Date + fallbackTimestampSuffixConstant
}
