package generator

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/repofeed/internal/entries"
	"github.com/temirov/repofeed/internal/feed"
	"github.com/temirov/repofeed/internal/filesystem"
	"github.com/temirov/repofeed/internal/gitlog"
	"github.com/temirov/repofeed/internal/history"
)

const (
	gitClientCreationErrorTemplateConstant        = "unable to create git client: %w"
	entryCollectorCreationErrorTemplateConstant   = "unable to create entry collector: %w"
	historyCollectorCreationErrorTemplateConstant = "unable to create history collector: %w"
	repositoryURLRequiredMessageConstant          = "repository url must be resolved before building the service"
)

// ErrRepositoryURLRequired indicates the configuration still lacks a repository URL.
var ErrRepositoryURLRequired = errors.New(repositoryURLRequiredMessageConstant)

// PipelineDependencies describes the process-level collaborators shared by every pipeline stage.
type PipelineDependencies struct {
	Logger      *zap.Logger
	GitExecutor gitlog.GitExecutor
	FileSystem  filesystem.FileSystem
}

// NewConfiguredService wires git-backed collectors, the item builder, renderer and writer according to
// configuration, which must already be sanitized and carry a repository URL.
func NewConfiguredService(dependencies PipelineDependencies, configuration Configuration) (*Service, error) {
	if validationError := configuration.Validate(); validationError != nil {
		return nil, validationError
	}
	if len(configuration.RepositoryURL) == 0 {
		return nil, ErrRepositoryURLRequired
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fileSystem := filesystem.Resolve(dependencies.FileSystem)

	gitClient, gitClientError := gitlog.NewClient(dependencies.GitExecutor)
	if gitClientError != nil {
		return nil, fmt.Errorf(gitClientCreationErrorTemplateConstant, gitClientError)
	}

	entryCollector, entryCollectorError := entries.NewCollector(
		entries.CollectorDependencies{Logger: logger, FileSystem: fileSystem, CommitLookup: gitClient},
		entries.CollectorSettings{
			EntriesDirectory:    configuration.EntriesDirectory,
			EntryDocument:       configuration.EntryDocument,
			FallbackAuthorName:  configuration.FallbackAuthor,
			FallbackAuthorEmail: configuration.FallbackEmail,
		},
	)
	if entryCollectorError != nil {
		return nil, fmt.Errorf(entryCollectorCreationErrorTemplateConstant, entryCollectorError)
	}

	historyCollector, historyCollectorError := history.NewCollector(
		history.CollectorDependencies{Logger: logger, RevisionLookup: gitClient},
		history.CollectorSettings{TrackedFile: configuration.TrackedFile, RepositoryURL: configuration.RepositoryURL},
	)
	if historyCollectorError != nil {
		return nil, fmt.Errorf(historyCollectorCreationErrorTemplateConstant, historyCollectorError)
	}

	return NewService(ServiceDependencies{
		Logger:           logger,
		EntryCollector:   entryCollector,
		HistoryCollector: historyCollector,
		ItemMapper: feed.NewItemBuilder(feed.ItemSettings{
			RepositoryURL:    configuration.RepositoryURL,
			Branch:           configuration.DefaultBranch,
			EntriesDirectory: configuration.EntriesDirectory,
		}),
		Renderer: feed.NewRenderer(logger),
		Writer:   feed.NewWriter(logger, fileSystem),
	})
}

// GenerationOptions builds the run options for repositoryRoot from configuration.
func (configuration Configuration) GenerationOptions(repositoryRoot string) Options {
	return Options{
		RepositoryRoot: repositoryRoot,
		OutputFile:     configuration.OutputFile,
		Channel: feed.Channel{
			Title:       configuration.Title,
			Link:        configuration.ChannelLink(),
			Description: configuration.Description,
			SelfURL:     configuration.SelfURL,
		},
	}
}
