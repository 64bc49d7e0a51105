package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/repofeed/internal/entries"
	"github.com/temirov/repofeed/internal/feed"
	"github.com/temirov/repofeed/internal/history"
)

const (
	entryCollectorMissingMessageConstant   = "entry collector not configured"
	historyCollectorMissingMessageConstant = "history collector not configured"
	itemMapperMissingMessageConstant       = "item mapper not configured"
	rendererMissingMessageConstant         = "renderer not configured"
	writerMissingMessageConstant           = "writer not configured"
	repositoryRootRequiredMessageConstant  = "repository root must be provided"
	collectEntriesErrorTemplateConstant    = "unable to collect entries: %w"
	writeFeedErrorTemplateConstant         = "unable to persist feed: %w"
	generationStartedMessageConstant       = "Generating feed"
	generationCompletedMessageConstant     = "Feed generated"
	repositoryRootFieldNameConstant        = "repository_root"
	outputPathFieldNameConstant            = "output_path"
	entryCountFieldNameConstant            = "entry_count"
	historyCountFieldNameConstant          = "history_count"
	itemCountFieldNameConstant             = "item_count"
)

// ErrEntryCollectorNotConfigured indicates the service was constructed without an entry collector.
var ErrEntryCollectorNotConfigured = errors.New(entryCollectorMissingMessageConstant)

// ErrHistoryCollectorNotConfigured indicates the service was constructed without a history collector.
var ErrHistoryCollectorNotConfigured = errors.New(historyCollectorMissingMessageConstant)

// ErrItemMapperNotConfigured indicates the service was constructed without an item mapper.
var ErrItemMapperNotConfigured = errors.New(itemMapperMissingMessageConstant)

// ErrRendererNotConfigured indicates the service was constructed without a renderer.
var ErrRendererNotConfigured = errors.New(rendererMissingMessageConstant)

// ErrWriterNotConfigured indicates the service was constructed without a writer.
var ErrWriterNotConfigured = errors.New(writerMissingMessageConstant)

// ErrRepositoryRootRequired indicates generation was requested without a repository root.
var ErrRepositoryRootRequired = errors.New(repositoryRootRequiredMessageConstant)

// EntryCollector gathers dated entries beneath a repository root.
type EntryCollector interface {
	Collect(executionContext context.Context, repositoryRoot string) ([]entries.Entry, error)
}

// HistoryCollector gathers tracked-file history beneath a repository root.
type HistoryCollector interface {
	Collect(executionContext context.Context, repositoryRoot string) []history.Event
}

// ItemMapper converts collected records into feed items.
type ItemMapper interface {
	FromEntries(collectedEntries []entries.Entry) []feed.Item
	FromEvents(events []history.Event) []feed.Item
}

// DocumentRenderer serializes a channel and its items.
type DocumentRenderer interface {
	Render(channel feed.Channel, items []feed.Item) string
}

// DocumentWriter persists a rendered document and reports where it went.
type DocumentWriter interface {
	Write(repositoryRoot string, outputFile string, document string) (string, error)
}

// ServiceDependencies describes the collaborators required for generation.
type ServiceDependencies struct {
	Logger           *zap.Logger
	EntryCollector   EntryCollector
	HistoryCollector HistoryCollector
	ItemMapper       ItemMapper
	Renderer         DocumentRenderer
	Writer           DocumentWriter
}

// Options describes a single generation run.
type Options struct {
	RepositoryRoot string
	OutputFile     string
	Channel        feed.Channel
}

// Result summarizes a generation run.
type Result struct {
	OutputPath   string
	EntryCount   int
	HistoryCount int
	ItemCount    int
}

// Service orchestrates feed generation.
type Service struct {
	logger           *zap.Logger
	entryCollector   EntryCollector
	historyCollector HistoryCollector
	itemMapper       ItemMapper
	renderer         DocumentRenderer
	writer           DocumentWriter
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.EntryCollector == nil {
		return nil, ErrEntryCollectorNotConfigured
	}
	if dependencies.HistoryCollector == nil {
		return nil, ErrHistoryCollectorNotConfigured
	}
	if dependencies.ItemMapper == nil {
		return nil, ErrItemMapperNotConfigured
	}
	if dependencies.Renderer == nil {
		return nil, ErrRendererNotConfigured
	}
	if dependencies.Writer == nil {
		return nil, ErrWriterNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		logger:           logger,
		entryCollector:   dependencies.EntryCollector,
		historyCollector: dependencies.HistoryCollector,
		itemMapper:       dependencies.ItemMapper,
		renderer:         dependencies.Renderer,
		writer:           dependencies.Writer,
	}, nil
}

// Generate collects, merges, renders and writes the feed. Entry and write failures abort the run;
// history failures only leave the history out.
func (service *Service) Generate(executionContext context.Context, options Options) (Result, error) {
	repositoryRoot := strings.TrimSpace(options.RepositoryRoot)
	if len(repositoryRoot) == 0 {
		return Result{}, ErrRepositoryRootRequired
	}

	service.logger.Info(generationStartedMessageConstant, zap.String(repositoryRootFieldNameConstant, repositoryRoot))

	collectedEntries, collectError := service.entryCollector.Collect(executionContext, repositoryRoot)
	if collectError != nil {
		return Result{}, fmt.Errorf(collectEntriesErrorTemplateConstant, collectError)
	}

	events := service.historyCollector.Collect(executionContext, repositoryRoot)

	items := feed.Merge(service.logger, service.itemMapper.FromEntries(collectedEntries), service.itemMapper.FromEvents(events))
	document := service.renderer.Render(options.Channel, items)

	outputPath, writeError := service.writer.Write(repositoryRoot, options.OutputFile, document)
	if writeError != nil {
		return Result{}, fmt.Errorf(writeFeedErrorTemplateConstant, writeError)
	}

	result := Result{
		OutputPath:   outputPath,
		EntryCount:   len(collectedEntries),
		HistoryCount: len(events),
		ItemCount:    len(items),
	}

	service.logger.Info(generationCompletedMessageConstant,
		zap.String(outputPathFieldNameConstant, result.OutputPath),
		zap.Int(entryCountFieldNameConstant, result.EntryCount),
		zap.Int(historyCountFieldNameConstant, result.HistoryCount),
		zap.Int(itemCountFieldNameConstant, result.ItemCount),
	)

	return result, nil
}
