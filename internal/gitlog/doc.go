// Package gitlog queries repository history through the git executable.
//
// Client answers the read-only questions feed generation asks of version
// control: the last commit touching a path, every revision touching a file,
// the file-scoped diff of one revision, and the URL of a remote.
package gitlog
