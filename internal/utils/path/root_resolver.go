package pathutils

import (
	"errors"
	"path/filepath"
	"strings"
)

const (
	currentDirectoryPathConstant        = "."
	rootResolutionFailedMessageConstant = "unable to resolve repository root"
)

// ErrRootResolution indicates the repository root could not be converted to an absolute path.
var ErrRootResolution = errors.New(rootResolutionFailedMessageConstant)

// AbsolutePathResolver converts relative paths to absolute ones.
type AbsolutePathResolver func(path string) (string, error)

// RootResolver normalizes the repository root supplied on the command line or in configuration.
type RootResolver struct {
	homeExpander *HomeExpander
	absolutePath AbsolutePathResolver
}

// NewRootResolver constructs a RootResolver backed by the operating system.
func NewRootResolver() *RootResolver {
	return NewRootResolverWithDependencies(nil, nil)
}

// NewRootResolverWithDependencies constructs a RootResolver with custom collaborators.
func NewRootResolverWithDependencies(homeExpander *HomeExpander, absolutePath AbsolutePathResolver) *RootResolver {
	if homeExpander == nil {
		homeExpander = NewHomeExpander()
	}
	if absolutePath == nil {
		absolutePath = filepath.Abs
	}
	return &RootResolver{homeExpander: homeExpander, absolutePath: absolutePath}
}

// Resolve trims whitespace, expands a leading tilde, and returns a clean absolute path. An empty candidate resolves to the current directory.
func (resolver *RootResolver) Resolve(candidatePath string) (string, error) {
	trimmedCandidate := strings.TrimSpace(candidatePath)
	if len(trimmedCandidate) == 0 {
		trimmedCandidate = currentDirectoryPathConstant
	}

	expandedCandidate := resolver.homeExpander.Expand(trimmedCandidate)
	absoluteCandidate, absoluteError := resolver.absolutePath(expandedCandidate)
	if absoluteError != nil {
		return "", errors.Join(ErrRootResolution, absoluteError)
	}

	return filepath.Clean(absoluteCandidate), nil
}
