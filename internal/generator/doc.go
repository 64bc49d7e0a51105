// Package generator runs the feed pipeline: it collects entries and history
// events, maps and merges them into items, renders the RSS document and writes
// it beneath the repository root.
package generator
