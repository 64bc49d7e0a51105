package generator

import (
	"context"
	"errors"
	"strings"

	"github.com/temirov/repofeed/internal/gitrepo"
)

const (
	originRemoteNameConstant                = "origin"
	repositoryURLUnavailableMessageConstant = "repository url is not configured and could not be derived from the origin remote"
)

// ErrRepositoryURLUnavailable indicates neither configuration nor the origin remote supplied a repository URL.
var ErrRepositoryURLUnavailable = errors.New(repositoryURLUnavailableMessageConstant)

// RemoteLookup reads the URL of a git remote.
type RemoteLookup interface {
	RemoteURL(executionContext context.Context, repositoryRoot string, remoteName string) (string, error)
}

// ResolveRepositoryURL returns the configured repository URL or, when it is empty, the web address of the
// origin remote.
func ResolveRepositoryURL(executionContext context.Context, remoteLookup RemoteLookup, repositoryRoot string, configuredURL string) (string, error) {
	trimmedConfiguredURL := strings.TrimRight(strings.TrimSpace(configuredURL), repositoryURLTrailingSeparatorConstant)
	if len(trimmedConfiguredURL) > 0 {
		return trimmedConfiguredURL, nil
	}
	if remoteLookup == nil {
		return "", ErrRepositoryURLUnavailable
	}

	remoteURL, remoteError := remoteLookup.RemoteURL(executionContext, repositoryRoot, originRemoteNameConstant)
	if remoteError != nil {
		return "", errors.Join(ErrRepositoryURLUnavailable, remoteError)
	}

	webURL, webURLError := gitrepo.RepositoryWebURL(remoteURL)
	if webURLError != nil {
		return "", errors.Join(ErrRepositoryURLUnavailable, webURLError)
	}
	return webURL, nil
}
