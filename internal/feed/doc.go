// Package feed maps entries and history events to feed items, orders them, and
// renders them as an RSS 2.0 document with the content and Dublin Core
// namespaces.
//
// Rendering is line-oriented: the document is assembled line by line and joined
// with newlines, with text escaped through EscapeXML and item bodies wrapped in
// CDATA sections.
package feed
