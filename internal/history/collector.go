package history

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/repofeed/internal/gitlog"
)

const (
	commitURLTemplateConstant            = "%s/commit/%s"
	revisionLookupMissingMessageConstant = "revision lookup not configured"
	trackedFileRequiredMessageConstant   = "tracked file must be provided"
	repositoryURLRequiredMessageConstant = "repository url must be provided"
	historyUnavailableMessageConstant    = "History of tracked file unavailable, continuing without history events"
	diffUnavailableMessageConstant       = "Diff of tracked file unavailable, continuing without history events"
	historyCollectedMessageConstant      = "Collected history events"
	trackedFileFieldNameConstant         = "tracked_file"
	revisionFieldNameConstant            = "revision"
	eventCountFieldNameConstant          = "event_count"
	repositoryURLTrailingSlashConstant   = "/"
)

// ErrRevisionLookupNotConfigured indicates the collector was constructed without a RevisionLookup.
var ErrRevisionLookupNotConfigured = errors.New(revisionLookupMissingMessageConstant)

// ErrTrackedFileRequired indicates the settings carried no tracked file.
var ErrTrackedFileRequired = errors.New(trackedFileRequiredMessageConstant)

// ErrRepositoryURLRequired indicates the settings carried no repository URL for commit links.
var ErrRepositoryURLRequired = errors.New(repositoryURLRequiredMessageConstant)

// RevisionLookup lists the revisions of a file and the diff each one introduced.
type RevisionLookup interface {
	FileRevisions(executionContext context.Context, repositoryRoot string, file string) ([]gitlog.Revision, error)
	FileDiff(executionContext context.Context, repositoryRoot string, revision string, file string) (string, error)
}

// Event is one revision of the tracked file.
type Event struct {
	Revision    string
	AuthorName  string
	AuthorEmail string
	Timestamp   string
	Subject     string
	Diff        string
	URL         string
}

// CollectorDependencies describes the collaborators required by Collector.
type CollectorDependencies struct {
	Logger         *zap.Logger
	RevisionLookup RevisionLookup
}

// CollectorSettings names the tracked file and the repository used to build commit links.
type CollectorSettings struct {
	TrackedFile   string
	RepositoryURL string
}

// Collector gathers history events for the tracked file.
type Collector struct {
	logger         *zap.Logger
	revisionLookup RevisionLookup
	settings       CollectorSettings
}

// NewCollector validates dependencies and settings and constructs a Collector.
func NewCollector(dependencies CollectorDependencies, settings CollectorSettings) (*Collector, error) {
	if dependencies.RevisionLookup == nil {
		return nil, ErrRevisionLookupNotConfigured
	}

	settings.TrackedFile = strings.TrimSpace(settings.TrackedFile)
	if len(settings.TrackedFile) == 0 {
		return nil, ErrTrackedFileRequired
	}
	settings.RepositoryURL = strings.TrimRight(strings.TrimSpace(settings.RepositoryURL), repositoryURLTrailingSlashConstant)
	if len(settings.RepositoryURL) == 0 {
		return nil, ErrRepositoryURLRequired
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Collector{logger: logger, revisionLookup: dependencies.RevisionLookup, settings: settings}, nil
}

// Collect returns the events of the tracked file, newest first. Any git failure yields an empty result.
func (collector *Collector) Collect(executionContext context.Context, repositoryRoot string) []Event {
	revisions, revisionsError := collector.revisionLookup.FileRevisions(executionContext, repositoryRoot, collector.settings.TrackedFile)
	if revisionsError != nil {
		collector.logger.Warn(historyUnavailableMessageConstant,
			zap.String(trackedFileFieldNameConstant, collector.settings.TrackedFile),
			zap.Error(revisionsError),
		)
		return nil
	}

	events := make([]Event, 0, len(revisions))
	for _, revision := range revisions {
		diff, diffError := collector.revisionLookup.FileDiff(executionContext, repositoryRoot, revision.Identifier, collector.settings.TrackedFile)
		if diffError != nil {
			collector.logger.Warn(diffUnavailableMessageConstant,
				zap.String(trackedFileFieldNameConstant, collector.settings.TrackedFile),
				zap.String(revisionFieldNameConstant, revision.Identifier),
				zap.Error(diffError),
			)
			return nil
		}

		events = append(events, Event{
			Revision:    revision.Identifier,
			AuthorName:  revision.AuthorName,
			AuthorEmail: revision.AuthorEmail,
			Timestamp:   revision.Timestamp,
			Subject:     revision.Subject,
			Diff:        diff,
			URL:         fmt.Sprintf(commitURLTemplateConstant, collector.settings.RepositoryURL, revision.Identifier),
		})
	}

	collector.logger.Debug(historyCollectedMessageConstant,
		zap.String(trackedFileFieldNameConstant, collector.settings.TrackedFile),
		zap.Int(eventCountFieldNameConstant, len(events)),
	)

	return events
}
