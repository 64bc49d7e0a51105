package gitrepo

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	schemeDelimiterConstant             = "://"
	scpUserDelimiterConstant            = "@"
	scpPathDelimiterConstant            = ":"
	pathSeparatorConstant               = "/"
	gitSuffixConstant                   = ".git"
	webURLTemplateConstant              = "https://%s/%s/%s"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	requiredValueMessageConstant        = "value required"
	unsupportedSchemeMessageConstant    = "remote scheme has no web address"
	missingHostMessageConstant          = "remote has no host"
	missingPathMessageConstant          = "remote path must name an owner and a repository"
)

var webSchemes = map[string]struct{}{
	"ssh":     {},
	"git+ssh": {},
	"https":   {},
	"http":    {},
	"git":     {},
}

// RepositoryLocation identifies a hosted repository by host, owner path and name.
type RepositoryLocation struct {
	Host       string
	Owner      string
	Repository string
}

// RemoteURLParseError indicates a remote string does not point at a hosted repository.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// ParseRemote accepts scp-style remotes (git@host:owner/repo.git) and URL remotes over ssh, git, http or https.
// Nested owner paths such as GitLab subgroups are kept whole; the last segment is the repository.
func ParseRemote(remote string) (RepositoryLocation, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RepositoryLocation{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	}

	if strings.Contains(trimmedRemote, schemeDelimiterConstant) {
		return parseSchemeRemote(trimmedRemote)
	}
	return parseScpRemote(trimmedRemote)
}

// WebURL returns the HTTPS address at which the repository can be browsed.
func (location RepositoryLocation) WebURL() string {
	return fmt.Sprintf(webURLTemplateConstant, location.Host, location.Owner, location.Repository)
}

// RepositoryWebURL parses a textual remote and returns its web address.
func RepositoryWebURL(remote string) (string, error) {
	location, parseError := ParseRemote(remote)
	if parseError != nil {
		return "", parseError
	}
	return location.WebURL(), nil
}

func parseSchemeRemote(remote string) (RepositoryLocation, error) {
	parsedURL, urlError := url.Parse(remote)
	if urlError != nil {
		return RepositoryLocation{}, RemoteURLParseError{Input: remote, Message: urlError.Error()}
	}
	if _, supported := webSchemes[strings.ToLower(parsedURL.Scheme)]; !supported {
		return RepositoryLocation{}, RemoteURLParseError{Input: remote, Message: unsupportedSchemeMessageConstant}
	}
	return newLocation(remote, parsedURL.Hostname(), parsedURL.Path)
}

func parseScpRemote(remote string) (RepositoryLocation, error) {
	hostAndPath := remote
	if userIndex := strings.Index(remote, scpUserDelimiterConstant); userIndex >= 0 {
		hostAndPath = remote[userIndex+1:]
	}
	host, path, found := strings.Cut(hostAndPath, scpPathDelimiterConstant)
	if !found {
		return RepositoryLocation{}, RemoteURLParseError{Input: remote, Message: missingPathMessageConstant}
	}
	return newLocation(remote, host, path)
}

func newLocation(remote string, host string, path string) (RepositoryLocation, error) {
	if len(host) == 0 || strings.Contains(host, pathSeparatorConstant) {
		return RepositoryLocation{}, RemoteURLParseError{Input: remote, Message: missingHostMessageConstant}
	}

	trimmedPath := strings.TrimSuffix(strings.Trim(path, pathSeparatorConstant), gitSuffixConstant)
	separatorIndex := strings.LastIndex(trimmedPath, pathSeparatorConstant)
	if separatorIndex <= 0 || separatorIndex == len(trimmedPath)-1 {
		return RepositoryLocation{}, RemoteURLParseError{Input: remote, Message: missingPathMessageConstant}
	}

	return RepositoryLocation{
		Host:       host,
		Owner:      trimmedPath[:separatorIndex],
		Repository: trimmedPath[separatorIndex+1:],
	}, nil
}
