// Package entries discovers dated entry directories beneath a repository root
// and attributes each one to the last commit that touched it.
//
// A qualifying directory is named YYYY-MM-DD-<name> and contains the entry
// document. Authorship comes from a CommitLookup; when the lookup yields
// nothing the configured fallback author and a midnight UTC timestamp are used.
package entries
