package feed

import (
	"strings"

	"go.uber.org/zap"
)

const (
	xmlDeclarationLineConstant            = `<?xml version="1.0" encoding="UTF-8"?>`
	rssOpenLineConstant                   = `<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:dc="http://purl.org/dc/elements/1.1/">`
	channelOpenLineConstant               = "  <channel>"
	channelCloseLineConstant              = "  </channel>"
	rssCloseLineConstant                  = "</rss>"
	channelTitlePrefixConstant            = "    <title>"
	channelLinkPrefixConstant             = "    <link>"
	channelDescriptionPrefixConstant      = "    <description>"
	selfLinkPrefixConstant                = `    <atom:link href="`
	selfLinkSuffixConstant                = `" rel="self" type="application/rss+xml"/>`
	itemOpenLineConstant                  = "    <item>"
	itemCloseLineConstant                 = "    </item>"
	itemTitlePrefixConstant               = "      <title>"
	itemLinkPrefixConstant                = "      <link>"
	itemDescriptionPrefixConstant         = "      <description>"
	itemContentPrefixConstant             = "      <content:encoded><![CDATA["
	itemContentSuffixConstant             = "]]></content:encoded>"
	itemCreatorPrefixConstant             = "      <dc:creator>"
	itemPublicationPrefixConstant         = "      <pubDate>"
	itemGUIDPrefixConstant                = `      <guid isPermaLink="false">`
	titleCloseConstant                    = "</title>"
	linkCloseConstant                     = "</link>"
	descriptionCloseConstant              = "</description>"
	creatorCloseConstant                  = "</dc:creator>"
	publicationCloseConstant              = "</pubDate>"
	guidCloseConstant                     = "</guid>"
	cdataTerminatorConstant               = "]]>"
	cdataSplitTerminatorConstant          = "]]]]><![CDATA[>"
	lineSeparatorConstant                 = "\n"
	publicationDateOmittedMessageConstant = "Omitting pubDate for unparseable timestamp"
	publishedFieldNameConstant            = "published"
	renderedFeedMessageConstant           = "Rendered feed"
	itemCountFieldNameConstant            = "item_count"
	outputLengthFieldNameConstant         = "bytes"
	channelTitleFieldNameConstant         = "channel_title"
)

// Channel holds the feed-level metadata.
type Channel struct {
	Title       string
	Link        string
	Description string
	SelfURL     string
}

// Renderer serializes a channel and its items into RSS 2.0 text.
type Renderer struct {
	logger *zap.Logger
}

// NewRenderer constructs a Renderer; a nil logger disables logging.
func NewRenderer(logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{logger: logger}
}

// Render returns the RSS document for the channel and items, in the order given. Lines are joined with
// newlines and the document has no trailing newline. Items whose timestamp does not parse have no pubDate.
func (renderer *Renderer) Render(channel Channel, items []Item) string {
	lines := []string{
		xmlDeclarationLineConstant,
		rssOpenLineConstant,
		channelOpenLineConstant,
		channelTitlePrefixConstant + EscapeXML(channel.Title) + titleCloseConstant,
		channelLinkPrefixConstant + EscapeXML(channel.Link) + linkCloseConstant,
		channelDescriptionPrefixConstant + EscapeXML(channel.Description) + descriptionCloseConstant,
		selfLinkPrefixConstant + EscapeXML(channel.SelfURL) + selfLinkSuffixConstant,
	}

	for _, item := range items {
		lines = append(lines,
			itemOpenLineConstant,
			itemTitlePrefixConstant+EscapeXML(item.Title)+titleCloseConstant,
			itemLinkPrefixConstant+EscapeXML(item.Link)+linkCloseConstant,
			itemDescriptionPrefixConstant+EscapeXML(item.Description)+descriptionCloseConstant,
			itemContentPrefixConstant+wrapCharacterData(item.Content)+itemContentSuffixConstant,
			itemCreatorPrefixConstant+EscapeXML(item.AuthorName)+creatorCloseConstant,
		)

		publicationDate, formatError := FormatPublicationDate(item.Published)
		if formatError == nil {
			lines = append(lines, itemPublicationPrefixConstant+publicationDate+publicationCloseConstant)
		} else {
			renderer.logger.Debug(publicationDateOmittedMessageConstant,
				zap.String(guidFieldNameConstant, item.GUID),
				zap.String(publishedFieldNameConstant, item.Published),
			)
		}

		lines = append(lines,
			itemGUIDPrefixConstant+EscapeXML(item.GUID)+guidCloseConstant,
			itemCloseLineConstant,
		)
	}

	lines = append(lines, channelCloseLineConstant, rssCloseLineConstant)

	document := strings.Join(lines, lineSeparatorConstant)
	renderer.logger.Debug(renderedFeedMessageConstant,
		zap.String(channelTitleFieldNameConstant, channel.Title),
		zap.Int(itemCountFieldNameConstant, len(items)),
		zap.Int(outputLengthFieldNameConstant, len(document)),
	)
	return document
}

// wrapCharacterData splits any CDATA terminator in content across two sections.
func wrapCharacterData(content string) string {
	return strings.ReplaceAll(content, cdataTerminatorConstant, cdataSplitTerminatorConstant)
}
