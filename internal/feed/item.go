package feed

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/temirov/repofeed/internal/entries"
	"github.com/temirov/repofeed/internal/history"
)

const (
	entryTitleTemplateConstant       = "New Experiment: %s"
	entryDescriptionTemplateConstant = "New experiment: %s"
	entryLinkTemplateConstant        = "%s/tree/%s/%s/%s"
	entryGUIDTemplateConstant        = "experiment-%s"
	eventTitleTemplateConstant       = "Reading List Update: %s"
	eventContentTemplateConstant     = "<pre>%s</pre>"
	eventGUIDTemplateConstant        = "readthem-%s"
	nameWordSeparatorConstant        = "-"
	nameSpaceConstant                = " "
	urlPathSeparatorConstant         = "/"
)

// Item is a single feed entry ready for rendering.
type Item struct {
	Title       string
	Link        string
	Description string
	Content     string
	AuthorName  string
	AuthorEmail string
	// Published is an ISO-8601 timestamp with offset.
	Published string
	GUID      string
}

// ItemSettings locates entries within the hosted repository for link construction.
type ItemSettings struct {
	RepositoryURL    string
	Branch           string
	EntriesDirectory string
}

// ItemBuilder converts collected entries and events into feed items.
type ItemBuilder struct {
	settings ItemSettings
	caser    cases.Caser
}

// NewItemBuilder constructs an ItemBuilder for the provided repository layout.
func NewItemBuilder(settings ItemSettings) *ItemBuilder {
	settings.RepositoryURL = strings.TrimRight(strings.TrimSpace(settings.RepositoryURL), urlPathSeparatorConstant)
	settings.Branch = strings.TrimSpace(settings.Branch)
	settings.EntriesDirectory = strings.Trim(strings.TrimSpace(settings.EntriesDirectory), urlPathSeparatorConstant)
	return &ItemBuilder{settings: settings, caser: cases.Title(language.English)}
}

// FromEntry maps an entry to an item announcing it.
func (builder *ItemBuilder) FromEntry(entry entries.Entry) Item {
	spacedName := strings.ReplaceAll(entry.Name, nameWordSeparatorConstant, nameSpaceConstant)
	return Item{
		Title:       fmt.Sprintf(entryTitleTemplateConstant, builder.caser.String(spacedName)),
		Link:        fmt.Sprintf(entryLinkTemplateConstant, builder.settings.RepositoryURL, builder.settings.Branch, builder.settings.EntriesDirectory, entry.Directory),
		Description: fmt.Sprintf(entryDescriptionTemplateConstant, spacedName),
		Content:     entry.Content,
		AuthorName:  entry.AuthorName,
		AuthorEmail: entry.AuthorEmail,
		Published:   entry.Timestamp,
		GUID:        fmt.Sprintf(entryGUIDTemplateConstant, entry.Directory),
	}
}

// FromEvent maps a tracked-file revision to an item carrying its diff.
func (builder *ItemBuilder) FromEvent(event history.Event) Item {
	return Item{
		Title:       fmt.Sprintf(eventTitleTemplateConstant, event.Subject),
		Link:        event.URL,
		Description: event.Subject,
		Content:     fmt.Sprintf(eventContentTemplateConstant, EscapeXML(event.Diff)),
		AuthorName:  event.AuthorName,
		AuthorEmail: event.AuthorEmail,
		Published:   event.Timestamp,
		GUID:        fmt.Sprintf(eventGUIDTemplateConstant, event.Revision),
	}
}

// FromEntries maps every entry in order.
func (builder *ItemBuilder) FromEntries(collectedEntries []entries.Entry) []Item {
	items := make([]Item, 0, len(collectedEntries))
	for _, entry := range collectedEntries {
		items = append(items, builder.FromEntry(entry))
	}
	return items
}

// FromEvents maps every event in order.
func (builder *ItemBuilder) FromEvents(events []history.Event) []Item {
	items := make([]Item, 0, len(events))
	for _, event := range events {
		items = append(items, builder.FromEvent(event))
	}
	return items
}
