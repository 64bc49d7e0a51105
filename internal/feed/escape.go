package feed

import "strings"

// xmlEscaper replaces the ampersand before the other markup characters so each is escaped exactly once.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXML escapes the five XML markup characters with their named entities.
func EscapeXML(text string) string {
	return xmlEscaper.Replace(text)
}
