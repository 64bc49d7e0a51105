// Package ui provides helpers for formatting human-readable console output.
//
// ConsoleCommandEventLogger turns git invocation events into short sentences
// for the console log format, while structured output keeps flowing through
// the executor's own zap fields.
package ui
