// Package history turns the commit log of a single tracked file into feed events.
//
// The collector never fails: when git cannot answer, the run continues with no
// history events and a warning in the log.
package history
