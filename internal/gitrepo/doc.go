// Package gitrepo turns git remote URLs into the browsable web address of the hosting repository.
package gitrepo
